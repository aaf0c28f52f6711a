package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/handler"
	"github.com/MykolaZahanych/we-watch/internal/ratelimit"
)

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(h *handler.Handler, tokenIssuer *auth.TokenIssuer, limiter *ratelimit.Limiter, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         86400,
		}))
	}

	r.Use(ratelimit.Middleware(limiter))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// The preview endpoint is unauthenticated: it leaks nothing
		// user-specific and the frontend may resolve images before login
		// state settles.
		r.Get("/link-preview", h.LinkPreview)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokenIssuer))

			r.Get("/movies", h.ListMovies)
			r.Post("/movies", h.CreateMovie)
			r.Get("/movies/{id}", h.GetMovie)
			r.Put("/movies/{id}", h.UpdateMovie)
			r.Delete("/movies/{id}", h.DeleteMovie)

			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
		})
	})

	return r
}
