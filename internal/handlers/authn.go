package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/musiccritic/internal/platform/analytics"
	"github.com/example/musiccritic/internal/platform/api"
	"github.com/example/musiccritic/internal/spotify"
	"github.com/example/musiccritic/internal/store"
	"github.com/example/musiccritic/internal/tokens"
)

const stateCookie = "oauth_state"

// Login handles GET /v1/auth/login. It sets a CSRF state cookie and
// redirects the browser to the provider's consent page.
func Login(authn *spotify.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := make([]byte, 16)
		if _, err := rand.Read(b); err != nil {
			api.Internal(w, "")
			return
		}
		state := base64.RawURLEncoding.EncodeToString(b)

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, authn.AuthCodeURL(state), http.StatusFound)
	}
}

type callbackResponse struct {
	Success     bool       `json:"success"`
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        store.User `json:"user"`
}

// Callback handles GET /v1/auth/callback. It exchanges the authorization
// code, upserts the account, and issues an API access token.
func Callback(authn *spotify.Authenticator, us store.UserStore, tok tokens.Service, adminEmails []string, pub *analytics.Publisher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("state")
		cookie, err := r.Cookie(stateCookie)
		if err != nil || state == "" || cookie.Value != state {
			api.BadRequest(w, "INVALID_STATE", "state mismatch", "", nil)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

		code := r.URL.Query().Get("code")
		if code == "" {
			api.BadRequest(w, "MISSING_CODE", "code parameter is required", "", nil)
			return
		}

		profile, err := authn.Exchange(r.Context(), code)
		if err != nil {
			log.Warn("oauth exchange failed", zap.Error(err))
			api.Unauthorized(w, "EXCHANGE_FAILED", "could not complete sign-in", "")
			return
		}
		if profile.Email == "" {
			api.Unauthorized(w, "NO_EMAIL", "provider did not supply an email", "")
			return
		}

		user, err := us.UpsertOnSignIn(r.Context(), profile.Email, profile.DisplayName, profile.ImageURL())
		if err != nil {
			log.Error("upsert on sign-in failed", zap.Error(err))
			api.Internal(w, "")
			return
		}

		role := "user"
		for _, e := range adminEmails {
			if strings.EqualFold(e, user.Email) {
				role = "admin"
				break
			}
		}

		signed, exp, err := tok.NewAccessToken(user.ID, role, time.Now().UTC())
		if err != nil {
			log.Error("token issue failed", zap.Error(err))
			api.Internal(w, "")
			return
		}

		pub.Publish(analytics.SubjectAuthLoggedIn, "auth_logged_in", user.ID, nil)

		api.WriteJSON(w, http.StatusOK, callbackResponse{
			Success:     true,
			AccessToken: signed,
			TokenType:   "Bearer",
			ExpiresAt:   exp,
			User:        user,
		})
	}
}
