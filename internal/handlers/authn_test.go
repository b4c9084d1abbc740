package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/example/musiccritic/internal/spotify"
	"github.com/example/musiccritic/internal/store"
	"github.com/example/musiccritic/internal/tokens"
)

func TestLogin_RedirectsWithState(t *testing.T) {
	authn := spotify.NewAuthenticator("client-id", "client-secret", "http://localhost:8080/v1/auth/callback")
	handler := Login(authn)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/auth/login", nil))
	if rr.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rr.Code)
	}

	loc := rr.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.spotify.com/authorize") {
		t.Fatalf("unexpected redirect target %q", loc)
	}
	if !strings.Contains(loc, "state=") {
		t.Fatal("redirect missing state parameter")
	}

	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == "oauth_state" {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !strings.Contains(loc, "state="+state) {
		t.Fatal("redirect state does not match cookie")
	}
}

func TestCallback_StateMismatch(t *testing.T) {
	authn := spotify.NewAuthenticator("client-id", "client-secret", "http://localhost:8080/v1/auth/callback")
	handler := Callback(authn, store.NewInMemoryUserStore(),
		tokens.Service{Secret: []byte("test-secret")}, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/callback?state=evil&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "good"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on state mismatch, got %d", rr.Code)
	}
}

func TestCallback_MissingCode(t *testing.T) {
	authn := spotify.NewAuthenticator("client-id", "client-secret", "http://localhost:8080/v1/auth/callback")
	handler := Callback(authn, store.NewInMemoryUserStore(),
		tokens.Service{Secret: []byte("test-secret")}, nil, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/callback?state=good", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "good"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on missing code, got %d", rr.Code)
	}
}
