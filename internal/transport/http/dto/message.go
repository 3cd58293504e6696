package dto

import (
	"time"

	"datespark/internal/domain/models"

	"github.com/google/uuid"
)

type CreateMessageInput struct {
	RecipientUsername string `json:"recipientUsername" validate:"required"`
	Content           string `json:"content" validate:"required,max=4000"`
}

type MessageParams struct {
	Page      int    `query:"pageNumber"`
	PageSize  int    `query:"pageSize"`
	Container string `query:"container"`
}

type MessageResponse struct {
	ID                uuid.UUID  `json:"id"`
	SenderUsername    string     `json:"senderUsername"`
	RecipientUsername string     `json:"recipientUsername"`
	Content           string     `json:"content"`
	DateRead          *time.Time `json:"dateRead,omitempty"`
	MessageSent       time.Time  `json:"messageSent"`
}

func NewMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		ID:                m.ID,
		SenderUsername:    m.SenderUsername,
		RecipientUsername: m.RecipientUsername,
		Content:           m.Content,
		DateRead:          m.DateRead,
		MessageSent:       m.MessageSent,
	}
}

func NewMessageResponses(messages []models.Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, NewMessageResponse(m))
	}
	return responses
}
