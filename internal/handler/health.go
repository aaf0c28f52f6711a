package handler

import (
	"net/http"

	"github.com/MykolaZahanych/we-watch/internal/version"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "We Watch API is running",
		"version": version.Version,
	})
}
