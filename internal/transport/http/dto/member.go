package dto

import (
	"time"

	"datespark/internal/domain/models"

	"github.com/google/uuid"
)

type MemberResponse struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	KnownAs      string          `json:"knownAs"`
	Age          int             `json:"age"`
	Gender       string          `json:"gender"`
	City         string          `json:"city"`
	Country      string          `json:"country"`
	Introduction string          `json:"introduction,omitempty"`
	Interests    string          `json:"interests,omitempty"`
	LookingFor   string          `json:"lookingFor,omitempty"`
	PhotoURL     string          `json:"photoUrl,omitempty"`
	Created      time.Time       `json:"created"`
	LastActive   time.Time       `json:"lastActive"`
	Photos       []PhotoResponse `json:"photos,omitempty"`
}

func NewMemberResponse(user models.User) MemberResponse {
	resp := MemberResponse{
		ID:           user.ID,
		Username:     user.Username,
		KnownAs:      user.KnownAs,
		Age:          user.Age(),
		Gender:       user.Gender,
		City:         user.City,
		Country:      user.Country,
		Introduction: user.Introduction,
		Interests:    user.Interests,
		LookingFor:   user.LookingFor,
		Created:      user.CreatedAt,
		LastActive:   user.LastActive,
	}
	if main := user.MainPhoto(); main != nil {
		resp.PhotoURL = main.URL
	}
	for _, p := range user.Photos {
		resp.Photos = append(resp.Photos, NewPhotoResponse(p))
	}
	return resp
}

func NewMemberResponses(users []models.User) []MemberResponse {
	responses := make([]MemberResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, NewMemberResponse(u))
	}
	return responses
}

// MemberUpdateInput carries the editable profile fields.
type MemberUpdateInput struct {
	Introduction string `json:"introduction" validate:"max=2000"`
	LookingFor   string `json:"lookingFor" validate:"max=2000"`
	Interests    string `json:"interests" validate:"max=2000"`
	City         string `json:"city" validate:"max=100"`
	Country      string `json:"country" validate:"max=100"`
}

type MemberParams struct {
	Page     int    `query:"pageNumber"`
	PageSize int    `query:"pageSize"`
	Gender   string `query:"gender"`
	MinAge   int    `query:"minAge"`
	MaxAge   int    `query:"maxAge"`
	OrderBy  string `query:"orderBy"`
}
