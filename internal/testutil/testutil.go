package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MykolaZahanych/we-watch/internal/database"
)

// TestDB creates an in-memory SQLite database with migrations applied.
// The database is automatically closed when the test completes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("running migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db.DB
}

// hashPassword creates a bcrypt hash with low cost for tests.
func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 4)
	return string(hash)
}

// TestUser represents a test user.
type TestUser struct {
	ID           int64
	Email        string
	PasswordHash string
	Nickname     string
}

// CreateTestUser creates a user directly in the database without using the
// user package.
func CreateTestUser(t *testing.T, db *sql.DB, email, nickname string) *TestUser {
	t.Helper()

	hash := hashPassword("password1!")
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := db.ExecContext(context.Background(), `
		INSERT INTO users (email, password_hash, nickname, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, email, hash, nickname, now, now)
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading test user id: %v", err)
	}

	return &TestUser{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
	}
}

// TestMovie represents a test movie.
type TestMovie struct {
	ID     int64
	UserID int64
	Name   string
	Link   string
	Status string
}

// CreateTestMovie creates a movie directly in the database. previewImage may
// be empty for a row without a resolved preview.
func CreateTestMovie(t *testing.T, db *sql.DB, userID int64, name, link, previewImage string) *TestMovie {
	t.Helper()

	now := time.Now().UTC().Format(time.RFC3339)

	var preview any
	if previewImage != "" {
		preview = previewImage
	}

	res, err := db.ExecContext(context.Background(), `
		INSERT INTO movies (user_id, name, link, status, preview_image_url, created_at, updated_at)
		VALUES (?, ?, ?, 'NEED_TO_WATCH', ?, ?, ?)
	`, userID, name, link, preview, now, now)
	if err != nil {
		t.Fatalf("creating test movie: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading test movie id: %v", err)
	}

	return &TestMovie{
		ID:     id,
		UserID: userID,
		Name:   name,
		Link:   link,
		Status: "NEED_TO_WATCH",
	}
}
