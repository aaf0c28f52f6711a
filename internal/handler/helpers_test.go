package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/handler"
	"github.com/MykolaZahanych/we-watch/internal/linkpreview"
	"github.com/MykolaZahanych/we-watch/internal/movie"
	"github.com/MykolaZahanych/we-watch/internal/profile"
	"github.com/MykolaZahanych/we-watch/internal/ratelimit"
	"github.com/MykolaZahanych/we-watch/internal/server"
	"github.com/MykolaZahanych/we-watch/internal/testutil"
	"github.com/MykolaZahanych/we-watch/internal/user"
)

const testSecret = "test-secret-at-least-32-characters-long"

// testEnv wires a full API over an in-memory database. The preview fetcher
// points at fetchClient so tests can stand in for external pages with
// httptest servers.
type testEnv struct {
	db      *sql.DB
	router  http.Handler
	issuer  *auth.TokenIssuer
	fetched *int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.TestDB(t)

	userRepo := user.NewRepository(db)
	movieRepo := movie.NewRepository(db)
	profileRepo := profile.NewRepository(db)

	authService := auth.NewService(userRepo, 4)
	issuer := auth.NewTokenIssuer(testSecret, time.Hour)

	fetched := 0
	fetcher := linkpreview.NewFetcherWithClient("", &http.Client{
		Timeout: 5 * time.Second,
		Transport: countingTransport{
			inner: http.DefaultTransport,
			count: &fetched,
		},
	})
	previewService := linkpreview.NewService(movieRepo, fetcher)

	h := handler.New(handler.Dependencies{
		AuthService:    authService,
		TokenIssuer:    issuer,
		UserRepo:       userRepo,
		MovieRepo:      movieRepo,
		ProfileRepo:    profileRepo,
		PreviewService: previewService,
	})

	return &testEnv{
		db:      db,
		router:  server.NewRouter(h, issuer, ratelimit.NewLimiter(nil), nil),
		issuer:  issuer,
		fetched: &fetched,
	}
}

type countingTransport struct {
	inner http.RoundTripper
	count *int
}

func (t countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	*t.count++
	return t.inner.RoundTrip(r)
}

// tokenFor issues a valid access token for the given test user.
func (e *testEnv) tokenFor(t *testing.T, u *testutil.TestUser) string {
	t.Helper()
	token, err := e.issuer.Issue(auth.TokenClaims{UserID: u.ID, Email: u.Email, Nickname: u.Nickname})
	if err != nil {
		t.Fatalf("issuing test token: %v", err)
	}
	return token
}

// do performs a request against the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// errorMessage extracts the message from the API's error shape.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error
}
