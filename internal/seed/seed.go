package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/movie"
	"github.com/MykolaZahanych/we-watch/internal/profile"
	"github.com/MykolaZahanych/we-watch/internal/user"
)

// Run populates the database with seed data for development.
// It is idempotent — if data already exists, it logs and returns nil.
func Run(ctx context.Context, db *sql.DB) error {
	// Idempotency check
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = 'alice@example.com'`).Scan(&count); err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	slog.Info("seeding database...")

	userRepo := user.NewRepository(db)
	movieRepo := movie.NewRepository(db)
	profileRepo := profile.NewRepository(db)

	// Hash password once (bcrypt cost 4 for speed)
	hash, err := auth.HashPassword("password1!", 4)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	type seedUser struct {
		email    string
		nickname string
		members  []string
	}
	seedUsers := []seedUser{
		{"alice@example.com", "Alice", []string{"Alice", "Tom"}},
		{"bob@example.com", "Bob", []string{"Bob"}},
	}

	users := make([]*user.User, len(seedUsers))
	for i, su := range seedUsers {
		u, err := userRepo.Create(ctx, user.CreateUserInput{
			Email:        su.email,
			PasswordHash: hash,
			Nickname:     su.nickname,
		})
		if err != nil {
			return fmt.Errorf("creating user %s: %w", su.email, err)
		}
		if _, err := profileRepo.Create(ctx, u.ID, su.members); err != nil {
			return fmt.Errorf("creating profile for %s: %w", su.email, err)
		}
		users[i] = u
	}

	type seedMovie struct {
		owner      int
		name       string
		link       string
		status     string
		rating     *int
		selectedBy *string
	}
	nine := 9
	alice := "Alice"
	tom := "Tom"
	seedMovies := []seedMovie{
		{0, "The Grand Budapest Hotel", "https://www.imdb.com/title/tt2278388/", movie.StatusCompleted, &nine, &alice},
		{0, "Dune: Part Two", "https://www.imdb.com/title/tt15239678/", movie.StatusNeedToWatch, nil, &tom},
		{0, "Cats", "https://www.imdb.com/title/tt5697572/", movie.StatusRejected, nil, nil},
		// Same link as Alice's entry: exercises the shared preview cache.
		{1, "Dune: Part Two", "https://www.imdb.com/title/tt15239678/", movie.StatusNeedToWatch, nil, nil},
	}

	for _, sm := range seedMovies {
		if _, err := movieRepo.Create(ctx, users[sm.owner].ID, movie.CreateMovieInput{
			Name:       sm.name,
			Link:       sm.link,
			Status:     sm.status,
			Rating:     sm.rating,
			SelectedBy: sm.selectedBy,
		}); err != nil {
			return fmt.Errorf("creating movie %s: %w", sm.name, err)
		}
	}

	slog.Info("seeded database", "users", len(seedUsers), "movies", len(seedMovies))
	return nil
}
