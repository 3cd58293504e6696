package models

import (
	"time"

	"github.com/google/uuid"
)

// Photo is a single uploaded image. It belongs to exactly one user and
// stays invisible to other members until a moderator approves it. The
// "at most one main photo per user" rule is enforced in service code,
// not by a database constraint.
type Photo struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	URL        string    `db:"url" json:"url"`
	PublicID   *string   `db:"public_id" json:"public_id,omitempty"`
	IsMain     bool      `db:"is_main" json:"is_main"`
	IsApproved bool      `db:"is_approved" json:"is_approved"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	Tags []Tag `db:"-" json:"tags,omitempty"`
}

// PhotoApprovalStat is the per-user moderation report row.
type PhotoApprovalStat struct {
	Username         string `db:"username" json:"username"`
	ApprovedPhotos   int    `db:"approved_photos" json:"approved_photos"`
	UnapprovedPhotos int    `db:"unapproved_photos" json:"unapproved_photos"`
}

func NewPhoto(userID uuid.UUID, url, publicID string) *Photo {
	p := &Photo{
		ID:        uuid.New(),
		UserID:    userID,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
	if publicID != "" {
		p.PublicID = &publicID
	}
	return p
}
