package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/musiccritic/internal/gemini"
	"github.com/example/musiccritic/internal/handlers"
	"github.com/example/musiccritic/internal/platform/analytics"
	"github.com/example/musiccritic/internal/platform/auth"
	"github.com/example/musiccritic/internal/platform/config"
	"github.com/example/musiccritic/internal/platform/db"
	"github.com/example/musiccritic/internal/platform/httpserver"
	"github.com/example/musiccritic/internal/platform/logging"
	"github.com/example/musiccritic/internal/platform/natsconn"
	"github.com/example/musiccritic/internal/platform/run"
	"github.com/example/musiccritic/internal/spotify"
	"github.com/example/musiccritic/internal/store"
	"github.com/example/musiccritic/internal/summary"
	"github.com/example/musiccritic/internal/tokens"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	reviews, users, ready, closePool := initStores(log)
	if closePool != nil {
		defer closePool()
	}

	var catalog spotify.Catalog
	var authn *spotify.Authenticator
	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		catalog = spotify.New(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret)
		authn = spotify.NewAuthenticator(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, cfg.Spotify.RedirectURL)
	} else {
		log.Warn("spotify credentials not set, catalog and sign-in disabled")
	}

	var textGen summary.TextGenerator
	if cfg.Gemini.APIKey != "" {
		textGen = gemini.New(cfg.Gemini.APIKey, cfg.Gemini.Model)
	} else {
		log.Warn("GEMINI_API_KEY not set, review summaries disabled")
	}
	summarizer := summary.New(reviews, textGen, cfg.Gemini.Timeout, log)

	// Analytics is best-effort; the app runs fine without NATS.
	var pub *analytics.Publisher
	nc, err := natsconn.Connect(natsconn.Options{})
	if err != nil {
		log.Warn("nats unavailable, analytics disabled", zap.Error(err))
	} else {
		defer nc.Close()
		js, err := nc.JetStream(nats.PublishAsyncMaxPending(256))
		if err != nil {
			log.Warn("jetstream unavailable, analytics disabled", zap.Error(err))
		} else {
			pub = analytics.New(js, log)
		}
	}

	verifier := auth.JWTVerifier{Secret: cfg.JWTSecret}
	tok := tokens.Service{Secret: cfg.JWTSecret, AccessTokenTTL: 24 * time.Hour}
	adminEmails := splitList(os.Getenv("ADMIN_EMAILS"))

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: ready})

	// Public routes
	r.Get("/v1/reviews", handlers.ListReviews(reviews))
	r.Get("/v1/recent-reviews", handlers.RecentReviews(reviews))
	r.Get("/v1/songs/{song_id}/reviews-summary", handlers.ReviewSummary(summarizer, pub))
	r.Get("/v1/users/{user_id}", handlers.UserProfile(users))
	if catalog != nil {
		r.Get("/v1/track/{id}", handlers.GetTrack(catalog))
		r.Get("/v1/search", handlers.SearchTracks(catalog, pub))
		r.Get("/v1/new-releases", handlers.NewReleases(catalog))
	}
	if authn != nil {
		r.Get("/v1/auth/login", handlers.Login(authn))
		r.Get("/v1/auth/callback", handlers.Callback(authn, users, tok, adminEmails, pub, log))
	}

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Get("/v1/me", handlers.Me(users))
		r.Post("/v1/reviews", handlers.SubmitReview(reviews, users, pub))
		r.Get("/v1/user/reviews", handlers.UserReviews(reviews, catalog, log))
		r.Get("/v1/user/stats", handlers.UserStats(reviews, users))
		r.Post("/v1/favorites", handlers.ManageFavorites(users, pub))
		r.Get("/v1/favorites", handlers.ListFavorites(users))
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(verifier))
		r.Use(auth.RequireAdmin)
		r.Post("/v1/admin/toggle-verified", handlers.ToggleVerified(reviews))
		r.Get("/v1/admin/toggle-verified", handlers.VerifiedStatus(reviews))
		r.Post("/v1/admin/seed-reviews", handlers.SeedReviews(reviews))
		r.Delete("/v1/admin/seed-reviews", handlers.ClearTestReviews(reviews))
		r.Get("/v1/admin/seed-reviews", handlers.ReviewStats(reviews))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, ServiceName: cfg.ServiceName, Logger: log, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}

// initStores selects the persistence backend. In production
// (APP_ENV=production) a working Postgres connection is mandatory and the
// process terminates without one.
func initStores(log *zap.Logger) (store.ReviewStore, store.UserStore, func() error, func()) {
	isProd := strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "production")

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		if isProd {
			log.Error("DATABASE_URL is required in production")
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("DATABASE_URL not set, using in-memory stores (development only)")
		return store.NewInMemoryReviewStore(), store.NewInMemoryUserStore(), nil, nil
	}

	pool, err := db.Open(context.Background())
	if err != nil {
		if isProd {
			log.Error("postgres is required in production but unavailable", zap.Error(err))
			_ = log.Sync()
			os.Exit(1)
		}
		log.Warn("postgres unavailable, falling back to in-memory stores", zap.Error(err))
		return store.NewInMemoryReviewStore(), store.NewInMemoryUserStore(), nil, nil
	}

	ready := func() error { return pool.Ping(context.Background()) }
	log.Info("stores: postgres")
	return store.NewPostgresReviewStore(pool), store.NewPostgresUserStore(pool), ready, pool.Close
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
