package profile

import "time"

// Profile is the shared household profile attached to a user account:
// the people who watch together plus free-form notes.
type Profile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	Members        []string  `json:"members"`
	AdditionalInfo *string   `json:"additionalInfo"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UpdateProfileInput carries partial updates; nil fields are left unchanged.
type UpdateProfileInput struct {
	Members        []string
	AdditionalInfo *string
	ClearInfo      bool
}
