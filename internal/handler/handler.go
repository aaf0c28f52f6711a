package handler

import (
	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/linkpreview"
	"github.com/MykolaZahanych/we-watch/internal/movie"
	"github.com/MykolaZahanych/we-watch/internal/profile"
	"github.com/MykolaZahanych/we-watch/internal/user"
)

// Handler holds all HTTP route handlers and their dependencies.
type Handler struct {
	authService    *auth.Service
	tokenIssuer    *auth.TokenIssuer
	userRepo       *user.Repository
	movieRepo      *movie.Repository
	profileRepo    *profile.Repository
	previewService *linkpreview.Service
}

// Dependencies holds all dependencies for the Handler.
type Dependencies struct {
	AuthService    *auth.Service
	TokenIssuer    *auth.TokenIssuer
	UserRepo       *user.Repository
	MovieRepo      *movie.Repository
	ProfileRepo    *profile.Repository
	PreviewService *linkpreview.Service
}

// New creates a Handler with all dependencies.
func New(deps Dependencies) *Handler {
	return &Handler{
		authService:    deps.AuthService,
		tokenIssuer:    deps.TokenIssuer,
		userRepo:       deps.UserRepo,
		movieRepo:      deps.MovieRepo,
		profileRepo:    deps.ProfileRepo,
		previewService: deps.PreviewService,
	}
}
