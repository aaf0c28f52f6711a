package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/config"
	"github.com/MykolaZahanych/we-watch/internal/database"
	"github.com/MykolaZahanych/we-watch/internal/handler"
	"github.com/MykolaZahanych/we-watch/internal/linkpreview"
	"github.com/MykolaZahanych/we-watch/internal/movie"
	"github.com/MykolaZahanych/we-watch/internal/profile"
	"github.com/MykolaZahanych/we-watch/internal/ratelimit"
	"github.com/MykolaZahanych/we-watch/internal/server"
	"github.com/MykolaZahanych/we-watch/internal/user"
)

type App struct {
	Config      *config.Config
	DB          *database.DB
	Server      *server.Server
	RateLimiter *ratelimit.Limiter
}

func New(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Repositories
	userRepo := user.NewRepository(db.DB)
	movieRepo := movie.NewRepository(db.DB)
	profileRepo := profile.NewRepository(db.DB)

	// Services
	authService := auth.NewService(userRepo, cfg.Auth.BcryptCost)
	tokenIssuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	fetcher := linkpreview.NewFetcher(cfg.Preview.UserAgent, cfg.Preview.FetchTimeout)
	previewService := linkpreview.NewService(movieRepo, fetcher)

	h := handler.New(handler.Dependencies{
		AuthService:    authService,
		TokenIssuer:    tokenIssuer,
		UserRepo:       userRepo,
		MovieRepo:      movieRepo,
		ProfileRepo:    profileRepo,
		PreviewService: previewService,
	})

	// Build rate limiter (nil if disabled)
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewLimiter([]ratelimit.Rule{
			{Method: "POST", Path: "/api/auth/login", Limit: cfg.RateLimit.Login.Limit, Window: cfg.RateLimit.Login.Window},
			{Method: "POST", Path: "/api/auth/register", Limit: cfg.RateLimit.Register.Limit, Window: cfg.RateLimit.Register.Window},
		})
	}

	router := server.NewRouter(h, tokenIssuer, limiter, cfg.Server.AllowedOrigins)

	tlsOpts := server.TLSOptions{
		Mode:     cfg.Server.TLS.Mode,
		CertFile: cfg.Server.TLS.CertFile,
		KeyFile:  cfg.Server.TLS.KeyFile,
		Domain:   cfg.Server.TLS.Auto.Domain,
		Email:    cfg.Server.TLS.Auto.Email,
		CacheDir: cfg.Server.TLS.Auto.CacheDir,
	}
	if tlsOpts.Mode == "auto" {
		if err := os.MkdirAll(tlsOpts.CacheDir, 0o700); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating TLS cache directory: %w", err)
		}
	}

	srv := server.New(cfg.Server.Host, cfg.Server.Port, router, tlsOpts)

	return &App{
		Config:      cfg,
		DB:          db,
		Server:      srv,
		RateLimiter: limiter,
	}, nil
}

func (a *App) Start(ctx context.Context) error {
	// Periodic rate-limiter cleanup
	if a.RateLimiter != nil {
		go func() {
			ticker := time.NewTicker(10 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					a.RateLimiter.Cleanup()
				}
			}
		}()
	}

	slog.Info("starting we-watch backend",
		"addr", a.Server.Addr(),
		"database", a.Config.Database.Path,
		"tls", a.Server.TLSMode(),
	)

	return a.Server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.Server.Shutdown(ctx); err != nil {
		return err
	}
	return a.DB.Close()
}
