package dto

import (
	"datespark/internal/domain/models"

	"github.com/google/uuid"
)

type PhotoResponse struct {
	ID         uuid.UUID `json:"id"`
	URL        string    `json:"url"`
	IsMain     bool      `json:"isMain"`
	IsApproved bool      `json:"isApproved"`
	Tags       []string  `json:"tags,omitempty"`
}

func NewPhotoResponse(photo models.Photo) PhotoResponse {
	resp := PhotoResponse{
		ID:         photo.ID,
		URL:        photo.URL,
		IsMain:     photo.IsMain,
		IsApproved: photo.IsApproved,
	}
	for _, t := range photo.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}
	return resp
}

func NewPhotoResponses(photos []models.Photo) []PhotoResponse {
	responses := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		responses = append(responses, NewPhotoResponse(p))
	}
	return responses
}

// PhotoForModerationResponse is the moderation queue view: the photo
// plus who uploaded it.
type PhotoForModerationResponse struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Username string    `json:"username"`
}

type AssignTagsInput struct {
	Tags []string `json:"tags" validate:"dive,required,min=1,max=50"`
}
