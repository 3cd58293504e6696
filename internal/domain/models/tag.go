package models

import "github.com/google/uuid"

type Tag struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

// PhotoTag links a photo to a tag. The association carries nothing
// beyond the two foreign keys.
type PhotoTag struct {
	PhotoID uuid.UUID `db:"photo_id" json:"photo_id"`
	TagID   uuid.UUID `db:"tag_id" json:"tag_id"`
}
