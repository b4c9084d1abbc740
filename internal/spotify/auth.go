package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Profile is the subset of the Spotify account profile used on sign-in.
type Profile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	Images      []Image `json:"images"`
}

// Image returns the first profile image URL, or nil when none exists.
func (p Profile) ImageURL() *string {
	if len(p.Images) == 0 {
		return nil
	}
	u := p.Images[0].URL
	return &u
}

// Authenticator drives the authorization-code flow for user sign-in.
type Authenticator struct {
	config  *oauth2.Config
	baseURL string
}

func NewAuthenticator(clientID, clientSecret, redirectURL string) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user-read-email", "user-read-private"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.spotify.com/authorize",
				TokenURL: "https://accounts.spotify.com/api/token",
			},
		},
		baseURL: "https://api.spotify.com/v1",
	}
}

// AuthCodeURL returns the consent page URL for the given CSRF state.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token and loads the profile.
func (a *Authenticator) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("exchange code: %w", err)
	}
	return a.profile(ctx, token)
}

func (a *Authenticator) profile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	client := a.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/me", nil)
	if err != nil {
		return Profile{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Profile{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("spotify: profile status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("spotify: decode profile: %w", err)
	}
	return p, nil
}
