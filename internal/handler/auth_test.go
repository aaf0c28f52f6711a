package handler_test

import (
	"net/http"
	"testing"
)

type authBody struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Nickname string `json:"nickname"`
	} `json:"user"`
}

func validRegistration() map[string]string {
	return map[string]string{
		"email":          "carol@example.com",
		"password":       "password1!",
		"repeatPassword": "password1!",
		"nickname":       "carol",
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var body authBody
	decode(t, rec, &body)
	if body.Token == "" {
		t.Error("response carries no token")
	}
	if body.User.Email != "carol@example.com" || body.User.Nickname != "carol" {
		t.Errorf("user = %+v, want registered values", body.User)
	}
	if body.User.ID == 0 {
		t.Error("user id is zero")
	}

	// The returned token is immediately usable.
	claims, err := env.issuer.Verify(body.Token)
	if err != nil {
		t.Fatalf("verifying issued token: %v", err)
	}
	if claims.UserID != body.User.ID {
		t.Errorf("token subject = %d, want %d", claims.UserID, body.User.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(m map[string]string)
	}{
		{"missing email", func(m map[string]string) { m["email"] = "" }},
		{"missing nickname", func(m map[string]string) { m["nickname"] = "" }},
		{"password mismatch", func(m map[string]string) { m["repeatPassword"] = "different1!" }},
		{"password too short", func(m map[string]string) { m["password"] = "a1!"; m["repeatPassword"] = "a1!" }},
		{"password without digit", func(m map[string]string) { m["password"] = "password!"; m["repeatPassword"] = "password!" }},
		{"password without special char", func(m map[string]string) { m["password"] = "password1"; m["repeatPassword"] = "password1" }},
		{"malformed email", func(m map[string]string) { m["email"] = "not-an-email" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration()
			tt.mutate(req)
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(t, http.MethodPost, "/api/auth/register", "", validRegistration()); rec.Code != http.StatusCreated {
		t.Fatalf("first registration status = %d, want 201", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "User with this email already exists" {
		t.Errorf("error = %q", msg)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "password1!",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body authBody
	decode(t, rec, &body)
	if body.Token == "" {
		t.Error("response carries no token")
	}
	if body.User.Email != "carol@example.com" {
		t.Errorf("user email = %q", body.User.Email)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/auth/register", "", validRegistration())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "carol@example.com", "wrong-password1!"},
		{"unknown email", "nobody@example.com", "password1!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			// The message must not reveal whether the account exists.
			if msg := errorMessage(t, rec); msg != "Invalid email or password" {
				t.Errorf("error = %q", msg)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/movies", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Access token required" {
		t.Errorf("error = %q", msg)
	}

	rec = env.do(t, http.MethodGet, "/api/movies", "not-a-valid-token", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status with bad token = %d, want 403", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Invalid or expired token" {
		t.Errorf("error = %q", msg)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}
