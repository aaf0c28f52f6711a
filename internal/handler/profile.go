package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/profile"
	"github.com/MykolaZahanych/we-watch/internal/user"
)

// GetProfile returns the household profile, lazily creating one with the
// user's nickname as the sole member. This covers accounts registered
// before the profile existed.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	p, err := h.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			slog.Error("fetching profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}

		u, err := h.userRepo.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			slog.Error("fetching user for profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}

		p, err = h.profileRepo.Create(r.Context(), userID, []string{u.Nickname})
		if err != nil {
			slog.Error("creating profile", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
			return
		}
	}

	writeJSON(w, http.StatusOK, p)
}

type updateProfileRequest struct {
	Members        []string        `json:"members"`
	AdditionalInfo json.RawMessage `json:"additionalInfo"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var input profile.UpdateProfileInput

	if req.Members != nil {
		members := make([]string, 0, len(req.Members))
		for _, m := range req.Members {
			m = strings.TrimSpace(m)
			if m == "" {
				writeError(w, http.StatusBadRequest, "Members must be non-empty strings")
				return
			}
			members = append(members, m)
		}
		if len(members) == 0 {
			writeError(w, http.StatusBadRequest, "At least one member is required")
			return
		}
		input.Members = members
	}

	if req.AdditionalInfo != nil {
		var info *string
		if err := json.Unmarshal(req.AdditionalInfo, &info); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if i := trimmedOrNil(info); i != nil {
			input.AdditionalInfo = i
		} else {
			input.ClearInfo = true
		}
	}

	p, err := h.profileRepo.Update(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		slog.Error("updating profile", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
