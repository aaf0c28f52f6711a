package movie

import "time"

// Status values a movie can hold on the shared board.
const (
	StatusNeedToWatch = "NEED_TO_WATCH"
	StatusCompleted   = "COMPLETED"
	StatusRejected    = "REJECTED"
)

// ValidStatuses lists the accepted status values in display order.
var ValidStatuses = []string{StatusNeedToWatch, StatusCompleted, StatusRejected}

// IsValidStatus reports whether s is one of the accepted status values.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Movie is a watchlist entry owned by a user. Link is intentionally not
// unique: several users (or duplicate entries) may point at the same page,
// which is what lets preview_image_url act as a shared cache keyed by link.
type Movie struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	Name            string    `json:"name"`
	Link            string    `json:"link"`
	Comments        *string   `json:"comments"`
	Rating          *int      `json:"rating"`
	Status          string    `json:"status"`
	SelectedBy      *string   `json:"selectedBy"`
	PreviewImageURL *string   `json:"previewImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateMovieInput struct {
	Name       string
	Link       string
	Comments   *string
	Rating     *int
	Status     string
	SelectedBy *string
}

// UpdateMovieInput carries partial updates; nil fields are left unchanged.
type UpdateMovieInput struct {
	Name       *string
	Link       *string
	Comments   *string
	Rating     *int
	Status     *string
	SelectedBy *string

	// ClearComments/ClearRating/ClearSelectedBy explicitly null out a field.
	ClearComments   bool
	ClearRating     bool
	ClearSelectedBy bool
}
