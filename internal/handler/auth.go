package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/user"
)

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.authService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrFieldsRequired),
			errors.Is(err, auth.ErrPasswordMismatch),
			errors.Is(err, auth.ErrWeakPassword),
			errors.Is(err, auth.ErrInvalidEmail):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, user.ErrEmailAlreadyInUse):
			writeError(w, http.StatusBadRequest, "User with this email already exists")
		default:
			slog.Error("registering user", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	token, err := h.tokenIssuer.Issue(auth.TokenClaims{UserID: u.ID, Email: u.Email, Nickname: u.Nickname})
	if err != nil {
		slog.Error("issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    userResponse{ID: u.ID, Email: u.Email, Nickname: u.Nickname},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.authService.Login(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrFieldsRequired):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			slog.Error("logging in", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to login")
		}
		return
	}

	token, err := h.tokenIssuer.Issue(auth.TokenClaims{UserID: u.ID, Email: u.Email, Nickname: u.Nickname})
	if err != nil {
		slog.Error("issuing token", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    userResponse{ID: u.ID, Email: u.Email, Nickname: u.Nickname},
	})
}
