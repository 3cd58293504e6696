package dto

import (
	"datespark/internal/domain/models"

	"github.com/google/uuid"
)

type UserWithRolesResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
}

func NewUserWithRolesResponses(users []models.User) []UserWithRolesResponse {
	responses := make([]UserWithRolesResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, UserWithRolesResponse{
			ID:       u.ID,
			Username: u.Username,
			Roles:    u.Roles,
		})
	}
	return responses
}

type CreateTagInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func NewTagResponses(tags []models.Tag) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, TagResponse{ID: t.ID, Name: t.Name})
	}
	return responses
}

type PhotoApprovalStatResponse struct {
	Username         string `json:"username"`
	ApprovedPhotos   int    `json:"approvedPhotos"`
	UnapprovedPhotos int    `json:"unapprovedPhotos"`
}

func NewPhotoApprovalStatResponses(stats []models.PhotoApprovalStat) []PhotoApprovalStatResponse {
	responses := make([]PhotoApprovalStatResponse, 0, len(stats))
	for _, s := range stats {
		responses = append(responses, PhotoApprovalStatResponse{
			Username:         s.Username,
			ApprovedPhotos:   s.ApprovedPhotos,
			UnapprovedPhotos: s.UnapprovedPhotos,
		})
	}
	return responses
}
