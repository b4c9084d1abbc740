package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string
}

// SpotifyConfig holds the music catalog provider credentials.
// ClientID/ClientSecret double as the OAuth sign-in app credentials.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GeminiConfig holds the text-generation provider settings.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig
	JWTSecret   []byte
	Spotify     SpotifyConfig
	Gemini      GeminiConfig
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		JWTSecret: []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		Spotify: SpotifyConfig{
			ClientID:     strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_SECRET")),
			RedirectURL:  strings.TrimSpace(os.Getenv("SPOTIFY_REDIRECT_URL")),
		},
		Gemini: GeminiConfig{
			APIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:   strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
			Timeout: envDuration("GEMINI_TIMEOUT", 15*time.Second),
		},
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return AppConfig{}, errors.New("JWT_SECRET is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Spotify.RedirectURL == "" {
		cfg.Spotify.RedirectURL = "http://localhost:8080/v1/auth/callback"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-pro"
	}
	return cfg, nil
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
