package handler

import (
	"log/slog"
	"net/http"
	"net/url"
)

type linkPreviewResponse struct {
	Image *string `json:"image"`
}

// LinkPreview resolves the Open Graph preview image for an external URL.
// A missing preview is a successful response with a null image, never an
// error; only a persistent-store failure is a 500.
func (h *Handler) LinkPreview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "URL parameter is required")
		return
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		writeError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}

	image, err := h.previewService.Resolve(r.Context(), raw)
	if err != nil {
		slog.Error("resolving link preview", "url", raw, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch link preview")
		return
	}

	writeJSON(w, http.StatusOK, linkPreviewResponse{Image: image})
}
