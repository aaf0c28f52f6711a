package movie

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrMovieNotFound = errors.New("movie not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const movieColumns = `id, user_id, name, link, comments, rating, status, selected_by, preview_image_url, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, userID int64, input CreateMovieInput) (*Movie, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO movies (user_id, name, link, comments, rating, status, selected_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, userID, input.Name, input.Link, nullString(input.Comments), nullInt(input.Rating),
		input.Status, nullString(input.SelectedBy), now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id, userID)
}

// GetByID returns the movie only if it belongs to userID.
func (r *Repository) GetByID(ctx context.Context, id, userID int64) (*Movie, error) {
	return scanMovie(r.db.QueryRowContext(ctx, `
		SELECT `+movieColumns+` FROM movies WHERE id = ? AND user_id = ?
	`, id, userID))
}

// ListByUser returns the user's movies, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]*Movie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+movieColumns+` FROM movies WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []*Movie
	for rows.Next() {
		m, err := scanMovieRows(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id, userID int64, input UpdateMovieInput) (*Movie, error) {
	existing, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		existing.Name = *input.Name
	}
	if input.Link != nil {
		existing.Link = *input.Link
	}
	if input.Comments != nil {
		existing.Comments = input.Comments
	} else if input.ClearComments {
		existing.Comments = nil
	}
	if input.Rating != nil {
		existing.Rating = input.Rating
	} else if input.ClearRating {
		existing.Rating = nil
	}
	if input.Status != nil {
		existing.Status = *input.Status
	}
	if input.SelectedBy != nil {
		existing.SelectedBy = input.SelectedBy
	} else if input.ClearSelectedBy {
		existing.SelectedBy = nil
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		UPDATE movies SET
			name = ?, link = ?, comments = ?, rating = ?, status = ?, selected_by = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, existing.Name, existing.Link, nullString(existing.Comments), nullInt(existing.Rating),
		existing.Status, nullString(existing.SelectedBy), existing.UpdatedAt.Format(time.RFC3339), id, userID)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func (r *Repository) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// FirstPreviewImageByLink returns the preview image of any movie sharing the
// exact link, or "" when no row has one yet. The lookup is deliberately not
// scoped to a user: the column is a cache shared across all holders of the link.
func (r *Repository) FirstPreviewImageByLink(ctx context.Context, link string) (string, error) {
	var image string
	err := r.db.QueryRowContext(ctx, `
		SELECT preview_image_url FROM movies
		WHERE link = ? AND preview_image_url IS NOT NULL
		LIMIT 1
	`, link).Scan(&image)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return image, nil
}

// FillMissingPreviewImage sets the preview image on every movie sharing the
// link that does not have one yet, and returns the number of rows filled.
// The fill-only-if-null predicate makes concurrent resolutions of the same
// link idempotent: a non-null value is never overwritten.
func (r *Repository) FillMissingPreviewImage(ctx context.Context, link, imageURL string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE movies SET preview_image_url = ?, updated_at = ?
		WHERE link = ? AND preview_image_url IS NULL
	`, imageURL, time.Now().UTC().Format(time.RFC3339), link)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row *sql.Row) (*Movie, error) {
	m, err := scanMovieFrom(row)
	if err == sql.ErrNoRows {
		return nil, ErrMovieNotFound
	}
	return m, err
}

func scanMovieRows(rows *sql.Rows) (*Movie, error) {
	return scanMovieFrom(rows)
}

func scanMovieFrom(s rowScanner) (*Movie, error) {
	var m Movie
	var comments, selectedBy, previewImageURL sql.NullString
	var rating sql.NullInt64
	var createdAt, updatedAt string

	err := s.Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.Link,
		&comments,
		&rating,
		&m.Status,
		&selectedBy,
		&previewImageURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if comments.Valid {
		m.Comments = &comments.String
	}
	if rating.Valid {
		v := int(rating.Int64)
		m.Rating = &v
	}
	if selectedBy.Valid {
		m.SelectedBy = &selectedBy.String
	}
	if previewImageURL.Valid {
		m.PreviewImageURL = &previewImageURL.String
	}
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
