package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MykolaZahanych/we-watch/internal/auth"
	"github.com/MykolaZahanych/we-watch/internal/movie"
)

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	movies, err := h.movieRepo.ListByUser(r.Context(), userID)
	if err != nil {
		slog.Error("listing movies", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch movies")
		return
	}
	if movies == nil {
		movies = []*movie.Movie{}
	}

	writeJSON(w, http.StatusOK, movies)
}

func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	id, err := movieID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	m, err := h.movieRepo.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		slog.Error("fetching movie", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch movie")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

type createMovieRequest struct {
	Name       string  `json:"name"`
	Link       string  `json:"link"`
	Comments   *string `json:"comments"`
	Rating     *int    `json:"rating"`
	Status     string  `json:"status"`
	SelectedBy *string `json:"selectedBy"`
}

func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	var req createMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Movie name is required")
		return
	}
	link := strings.TrimSpace(req.Link)
	if link == "" {
		writeError(w, http.StatusBadRequest, "Movie link is required")
		return
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		writeError(w, http.StatusBadRequest, "Rating must be a number between 0 and 10")
		return
	}
	if !movie.IsValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Status is required and must be one of: %s", strings.Join(movie.ValidStatuses, ", ")))
		return
	}

	m, err := h.movieRepo.Create(r.Context(), userID, movie.CreateMovieInput{
		Name:       name,
		Link:       link,
		Comments:   trimmedOrNil(req.Comments),
		Rating:     req.Rating,
		Status:     req.Status,
		SelectedBy: trimmedOrNil(req.SelectedBy),
	})
	if err != nil {
		slog.Error("creating movie", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create movie")
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// updateMovieRequest distinguishes absent fields from explicit nulls:
// a nil RawMessage was not sent at all, the literal "null" clears the field.
type updateMovieRequest struct {
	Name       *string         `json:"name"`
	Link       *string         `json:"link"`
	Comments   json.RawMessage `json:"comments"`
	Rating     json.RawMessage `json:"rating"`
	Status     *string         `json:"status"`
	SelectedBy json.RawMessage `json:"selectedBy"`
}

func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	id, err := movieID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	var req updateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var input movie.UpdateMovieInput

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "Movie name is required")
			return
		}
		input.Name = &name
	}
	if req.Link != nil {
		link := strings.TrimSpace(*req.Link)
		if link == "" {
			writeError(w, http.StatusBadRequest, "Movie link is required")
			return
		}
		input.Link = &link
	}

	if req.Comments != nil {
		var comments *string
		if err := json.Unmarshal(req.Comments, &comments); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if c := trimmedOrNil(comments); c != nil {
			input.Comments = c
		} else {
			input.ClearComments = true
		}
	}

	if req.Rating != nil {
		var rating *int
		if err := json.Unmarshal(req.Rating, &rating); err != nil {
			writeError(w, http.StatusBadRequest, "Rating must be a number between 0 and 10")
			return
		}
		if rating != nil {
			if *rating < 0 || *rating > 10 {
				writeError(w, http.StatusBadRequest, "Rating must be a number between 0 and 10")
				return
			}
			input.Rating = rating
		} else {
			input.ClearRating = true
		}
	}

	if req.Status != nil {
		if !movie.IsValidStatus(*req.Status) {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Invalid status. Must be one of: %s", strings.Join(movie.ValidStatuses, ", ")))
			return
		}
		input.Status = req.Status
	}

	if req.SelectedBy != nil {
		var selectedBy *string
		if err := json.Unmarshal(req.SelectedBy, &selectedBy); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if s := trimmedOrNil(selectedBy); s != nil {
			input.SelectedBy = s
		} else {
			input.ClearSelectedBy = true
		}
	}

	m, err := h.movieRepo.Update(r.Context(), id, userID, input)
	if err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		slog.Error("updating movie", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update movie")
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFrom(r.Context())

	id, err := movieID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := h.movieRepo.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, movie.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		slog.Error("deleting movie", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete movie")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Movie deleted successfully"})
}

func movieID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// trimmedOrNil trims s and converts empty strings to nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
