package models

import "github.com/google/uuid"

// UserLike is a directed edge between two users, unique per ordered
// pair. Repeated toggles flip it between present and absent.
type UserLike struct {
	SourceUserID uuid.UUID `db:"source_user_id" json:"source_user_id"`
	LikedUserID  uuid.UUID `db:"liked_user_id" json:"liked_user_id"`
}
