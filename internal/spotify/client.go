package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// ErrTrackNotFound is returned when the catalog has no track for the id.
var ErrTrackNotFound = errors.New("track not found")

// TrackIDPattern matches Spotify track identifiers (22 base-62 characters).
var TrackIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a catalog client authenticated via the client-credentials flow.
// The oauth2 transport refreshes the access token transparently.
func New(clientID, clientSecret string) *Client {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     "https://accounts.spotify.com/api/token",
	}
	httpClient := cc.Client(context.Background())
	httpClient.Timeout = 10 * time.Second
	return &Client{BaseURL: "https://api.spotify.com/v1", HTTPClient: httpClient}
}

// NewWithHTTPClient builds a client against a custom base URL and transport.
// Used in tests.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient}
}

type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Images      []Image  `json:"images"`
	Artists     []Artist `json:"artists,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
}

type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
	DurationMS int      `json:"duration_ms"`
	Popularity int      `json:"popularity"`
	PreviewURL string   `json:"preview_url,omitempty"`
}

// ArtistNames joins the track's artist names for display.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// AlbumArt returns the first album image URL, or nil when none exists.
func (t Track) AlbumArt() *string {
	if len(t.Album.Images) == 0 {
		return nil
	}
	u := t.Album.Images[0].URL
	return &u
}

func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	if !TrackIDPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid track id %q", id)
	}
	var out Track
	if err := c.get(ctx, c.BaseURL+"/tracks/"+id+"?market=US", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type searchResponse struct {
	Tracks struct {
		Items  []Track `json:"items"`
		Total  int     `json:"total"`
		Limit  int     `json:"limit"`
		Offset int     `json:"offset"`
	} `json:"tracks"`
}

func (c *Client) SearchTracks(ctx context.Context, q string, limit int) ([]Track, int, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	rawURL := fmt.Sprintf("%s/search?q=%s&type=track&limit=%d&market=US",
		c.BaseURL, url.QueryEscape(q), limit)
	var out searchResponse
	if err := c.get(ctx, rawURL, &out); err != nil {
		return nil, 0, err
	}
	return out.Tracks.Items, out.Tracks.Total, nil
}

type newReleasesResponse struct {
	Albums struct {
		Items []Album `json:"items"`
	} `json:"albums"`
}

func (c *Client) NewReleases(ctx context.Context, limit int) ([]Album, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	rawURL := fmt.Sprintf("%s/browse/new-releases?limit=%d&country=US", c.BaseURL, limit)
	var out newReleasesResponse
	if err := c.get(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	return out.Albums.Items, nil
}

func (c *Client) get(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "musiccritic/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrTrackNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("spotify: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("spotify: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}
