package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/MykolaZahanych/we-watch/internal/testutil"
)

type movieBody struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	Name            string  `json:"name"`
	Link            string  `json:"link"`
	Comments        *string `json:"comments"`
	Rating          *int    `json:"rating"`
	Status          string  `json:"status"`
	SelectedBy      *string `json:"selectedBy"`
	PreviewImageURL *string `json:"previewImageUrl"`
}

func TestCreateMovie(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	token := env.tokenFor(t, u)

	rec := env.do(t, http.MethodPost, "/api/movies", token, map[string]any{
		"name":       "  Dune: Part Two  ",
		"link":       "https://example.com/dune-2",
		"comments":   "rewatch candidate",
		"rating":     9,
		"status":     "COMPLETED",
		"selectedBy": "alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var m movieBody
	decode(t, rec, &m)
	if m.Name != "Dune: Part Two" {
		t.Errorf("name = %q, want trimmed", m.Name)
	}
	if m.UserID != u.ID {
		t.Errorf("userId = %d, want %d", m.UserID, u.ID)
	}
	if m.Rating == nil || *m.Rating != 9 {
		t.Errorf("rating = %v, want 9", m.Rating)
	}
	if m.PreviewImageURL != nil {
		t.Errorf("previewImageUrl = %v on fresh movie, want null", *m.PreviewImageURL)
	}
}

func TestCreateMovieValidation(t *testing.T) {
	env := newTestEnv(t)
	u := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	token := env.tokenFor(t, u)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"link": "https://example.com/x", "status": "NEED_TO_WATCH"}},
		{"blank name", map[string]any{"name": "   ", "link": "https://example.com/x", "status": "NEED_TO_WATCH"}},
		{"missing link", map[string]any{"name": "Dune", "status": "NEED_TO_WATCH"}},
		{"invalid status", map[string]any{"name": "Dune", "link": "https://example.com/x", "status": "WATCHING"}},
		{"missing status", map[string]any{"name": "Dune", "link": "https://example.com/x"}},
		{"rating too high", map[string]any{"name": "Dune", "link": "https://example.com/x", "status": "NEED_TO_WATCH", "rating": 11}},
		{"rating negative", map[string]any{"name": "Dune", "link": "https://example.com/x", "status": "NEED_TO_WATCH", "rating": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/movies", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListMovies(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	bob := testutil.CreateTestUser(t, env.db, "bob@example.com", "bob")
	token := env.tokenFor(t, alice)

	// Empty list serializes as [], not null.
	rec := env.do(t, http.MethodGet, "/api/movies", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("empty list body = %q, want []", body)
	}

	testutil.CreateTestMovie(t, env.db, alice.ID, "Dune", "https://example.com/dune", "")
	testutil.CreateTestMovie(t, env.db, alice.ID, "Arrival", "https://example.com/arrival", "")
	testutil.CreateTestMovie(t, env.db, bob.ID, "Tenet", "https://example.com/tenet", "")

	rec = env.do(t, http.MethodGet, "/api/movies", token, nil)
	var movies []movieBody
	decode(t, rec, &movies)
	if len(movies) != 2 {
		t.Fatalf("alice sees %d movies, want 2", len(movies))
	}
	for _, m := range movies {
		if m.UserID != alice.ID {
			t.Errorf("listed movie belongs to user %d, want %d", m.UserID, alice.ID)
		}
	}
}

func TestGetMovieScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	bob := testutil.CreateTestUser(t, env.db, "bob@example.com", "bob")
	m := testutil.CreateTestMovie(t, env.db, alice.ID, "Dune", "https://example.com/dune", "")

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/movies/%d", m.ID), env.tokenFor(t, alice), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner status = %d, want 200", rec.Code)
	}

	// Another user's movie is indistinguishable from a missing one.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/movies/%d", m.ID), env.tokenFor(t, bob), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("non-owner status = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/movies/abc", env.tokenFor(t, alice), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestUpdateMovie(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	token := env.tokenFor(t, alice)
	created := testutil.CreateTestMovie(t, env.db, alice.ID, "Dune", "https://example.com/dune", "")
	path := fmt.Sprintf("/api/movies/%d", created.ID)

	rec := env.do(t, http.MethodPut, path, token, map[string]any{
		"status": "COMPLETED",
		"rating": 8,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var m movieBody
	decode(t, rec, &m)
	if m.Status != "COMPLETED" {
		t.Errorf("status = %q, want COMPLETED", m.Status)
	}
	if m.Rating == nil || *m.Rating != 8 {
		t.Errorf("rating = %v, want 8", m.Rating)
	}
	if m.Name != "Dune" {
		t.Errorf("name = %q, untouched field changed", m.Name)
	}
}

func TestUpdateMovieNullClearsField(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	token := env.tokenFor(t, alice)
	created := testutil.CreateTestMovie(t, env.db, alice.ID, "Dune", "https://example.com/dune", "")
	path := fmt.Sprintf("/api/movies/%d", created.ID)

	env.do(t, http.MethodPut, path, token, map[string]any{"rating": 8, "comments": "great"})

	// An explicit null clears; an absent field is left alone.
	rec := env.do(t, http.MethodPut, path, token, json.RawMessage(`{"rating":null}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var m movieBody
	decode(t, rec, &m)
	if m.Rating != nil {
		t.Errorf("rating = %v after explicit null, want nil", *m.Rating)
	}
	if m.Comments == nil || *m.Comments != "great" {
		t.Errorf("comments = %v, absent field was changed", m.Comments)
	}
}

func TestUpdateMovieValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	token := env.tokenFor(t, alice)
	created := testutil.CreateTestMovie(t, env.db, alice.ID, "Dune", "https://example.com/dune", "")
	path := fmt.Sprintf("/api/movies/%d", created.ID)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"blank name", map[string]any{"name": "  "}},
		{"blank link", map[string]any{"link": ""}},
		{"invalid status", map[string]any{"status": "WATCHING"}},
		{"rating out of range", map[string]any{"rating": 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, path, token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}

	rec := env.do(t, http.MethodPut, "/api/movies/9999", token, map[string]any{"name": "X"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing movie status = %d, want 404", rec.Code)
	}
}

func TestDeleteMovie(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateTestUser(t, env.db, "alice@example.com", "alice")
	bob := testutil.CreateTestUser(t, env.db, "bob@example.com", "bob")
	created := testutil.CreateTestMovie(t, env.db, alice.ID, "Dune", "https://example.com/dune", "")
	path := fmt.Sprintf("/api/movies/%d", created.ID)

	rec := env.do(t, http.MethodDelete, path, env.tokenFor(t, bob), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("non-owner delete status = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, path, env.tokenFor(t, alice), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", rec.Code)
	}

	rec = env.do(t, http.MethodGet, path, env.tokenFor(t, alice), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", rec.Code)
	}
}
