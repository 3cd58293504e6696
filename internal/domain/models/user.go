package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleMember    = "Member"
	RoleModerator = "Moderator"
	RoleAdmin     = "Admin"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	KnownAs      string    `db:"known_as" json:"known_as"`
	Gender       string    `db:"gender" json:"gender"`
	DateOfBirth  time.Time `db:"date_of_birth" json:"date_of_birth"`
	City         string    `db:"city" json:"city"`
	Country      string    `db:"country" json:"country"`
	Introduction string    `db:"introduction" json:"introduction,omitempty"`
	Interests    string    `db:"interests" json:"interests,omitempty"`
	LookingFor   string    `db:"looking_for" json:"looking_for,omitempty"`
	PasswordHash []byte    `db:"password_hash" json:"-"`
	Roles        []string  `db:"roles" json:"roles"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	LastActive   time.Time `db:"last_active" json:"last_active"`

	Photos []Photo `db:"-" json:"photos,omitempty"`
}

// HasRole is the capability check used by the role-gated route groups.
// Role names are compared case-insensitively.
func (u User) HasRole(roles ...string) bool {
	return HasRole(u.Roles, roles...)
}

func HasRole(have []string, want ...string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// Age computes full years from the date of birth.
func (u User) Age() int {
	now := time.Now().UTC()
	years := now.Year() - u.DateOfBirth.Year()
	if now.YearDay() < u.DateOfBirth.YearDay() {
		years--
	}
	return years
}

// MainPhoto returns the photo flagged as main, nil when none exists.
func (u User) MainPhoto() *Photo {
	for i := range u.Photos {
		if u.Photos[i].IsMain {
			return &u.Photos[i]
		}
	}
	return nil
}
