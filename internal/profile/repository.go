package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx, `
		SELECT id, user_id, members, additional_info, created_at, updated_at
		FROM profiles WHERE user_id = ?
	`, userID))
}

// Create inserts a profile for the user with the given members.
func (r *Repository) Create(ctx context.Context, userID int64, members []string) (*Profile, error) {
	if members == nil {
		members = []string{}
	}
	encoded, err := json.Marshal(members)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, members, additional_info, created_at, updated_at)
		VALUES (?, ?, NULL, ?, ?)
	`, userID, string(encoded), now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:        id,
		UserID:    userID,
		Members:   members,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *Repository) Update(ctx context.Context, userID int64, input UpdateProfileInput) (*Profile, error) {
	existing, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Members != nil {
		existing.Members = input.Members
	}
	if input.AdditionalInfo != nil {
		existing.AdditionalInfo = input.AdditionalInfo
	} else if input.ClearInfo {
		existing.AdditionalInfo = nil
	}
	existing.UpdatedAt = time.Now().UTC()

	encoded, err := json.Marshal(existing.Members)
	if err != nil {
		return nil, err
	}

	var info sql.NullString
	if existing.AdditionalInfo != nil {
		info = sql.NullString{String: *existing.AdditionalInfo, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE profiles SET members = ?, additional_info = ?, updated_at = ?
		WHERE user_id = ?
	`, string(encoded), info, existing.UpdatedAt.Format(time.RFC3339), userID)
	if err != nil {
		return nil, err
	}

	return existing, nil
}

func scanProfile(row *sql.Row) (*Profile, error) {
	var p Profile
	var members string
	var info sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&p.ID, &p.UserID, &members, &info, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(members), &p.Members); err != nil {
		return nil, err
	}
	if p.Members == nil {
		p.Members = []string{}
	}
	if info.Valid {
		p.AdditionalInfo = &info.String
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &p, nil
}
