package tokens

import (
	"testing"
	"time"

	"github.com/example/musiccritic/internal/platform/auth"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	svc := Service{Secret: []byte("test-secret"), AccessTokenTTL: 15 * time.Minute}
	now := time.Now().UTC()

	signed, exp, err := svc.NewAccessToken("user-1", "admin", now)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if !exp.After(now) {
		t.Fatal("expected expiry after issue time")
	}

	claims, err := auth.JWTVerifier{Secret: []byte("test-secret")}.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Fatalf("unexpected role %q", claims.Role)
	}
}

func TestNewAccessTokenRequiresSecret(t *testing.T) {
	svc := Service{AccessTokenTTL: time.Minute}
	if _, _, err := svc.NewAccessToken("user-1", "user", time.Now()); err == nil {
		t.Fatal("expected error without secret")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := Service{Secret: []byte("secret-a"), AccessTokenTTL: time.Minute}
	signed, _, err := svc.NewAccessToken("user-1", "user", time.Now())
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, err := (auth.JWTVerifier{Secret: []byte("secret-b")}).Parse(signed); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}
