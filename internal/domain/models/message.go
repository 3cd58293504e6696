package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users. Each side deletes its
// copy independently; the row is removed only after both sides have.
type Message struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	SenderID          uuid.UUID  `db:"sender_id" json:"sender_id"`
	SenderUsername    string     `db:"sender_username" json:"sender_username"`
	RecipientID       uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	RecipientUsername string     `db:"recipient_username" json:"recipient_username"`
	Content           string     `db:"content" json:"content"`
	DateRead          *time.Time `db:"date_read" json:"date_read,omitempty"`
	MessageSent       time.Time  `db:"message_sent" json:"message_sent"`
	SenderDeleted     bool       `db:"sender_deleted" json:"-"`
	RecipientDeleted  bool       `db:"recipient_deleted" json:"-"`
}

type MessageContainer string

const (
	ContainerInbox  MessageContainer = "inbox"
	ContainerOutbox MessageContainer = "outbox"
	ContainerUnread MessageContainer = "unread"
)
