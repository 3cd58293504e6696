package dto

import (
	"time"

	"datespark/internal/domain/models"

	"github.com/google/uuid"
)

// RegisterInput holds the data required to create a new member account.
type RegisterInput struct {
	Username    string    `json:"username" validate:"required,min=3,max=30,alphanum"`
	KnownAs     string    `json:"knownAs" validate:"required,min=2,max=100"`
	Gender      string    `json:"gender" validate:"required,oneof=male female"`
	DateOfBirth time.Time `json:"dateOfBirth" validate:"required"`
	City        string    `json:"city" validate:"required"`
	Country     string    `json:"country" validate:"required"`
	Password    string    `json:"password" validate:"required,min=8,max=64"`
}

func (input RegisterInput) ToDomain(passwordHash []byte) models.User {
	now := time.Now().UTC()
	return models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		KnownAs:      input.KnownAs,
		Gender:       input.Gender,
		DateOfBirth:  input.DateOfBirth,
		City:         input.City,
		Country:      input.Country,
		PasswordHash: passwordHash,
		Roles:        []string{models.RoleMember},
		CreatedAt:    now,
		LastActive:   now,
	}
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AccountResponse is returned after registration and login.
type AccountResponse struct {
	Username     string `json:"username"`
	KnownAs      string `json:"knownAs"`
	Gender       string `json:"gender"`
	PhotoURL     string `json:"photoUrl,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func NewAccountResponse(user models.User, pair models.TokenPair) AccountResponse {
	resp := AccountResponse{
		Username:     user.Username,
		KnownAs:      user.KnownAs,
		Gender:       user.Gender,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
	if main := user.MainPhoto(); main != nil {
		resp.PhotoURL = main.URL
	}
	return resp
}
