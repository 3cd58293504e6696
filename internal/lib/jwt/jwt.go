package jwt

import (
	"errors"
	"time"

	"datespark/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by access tokens. Roles ride along so route guards do
// not need a database round-trip.
type Claims struct {
	UserID   uuid.UUID
	Username string
	Roles    []string
}

func NewToken(user models.User, secret string, duration time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["uid"] = user.ID.String()
	claims["username"] = user.Username
	claims["roles"] = user.Roles
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(duration).Unix()

	return token.SignedString([]byte(secret))
}

// ParseClaims extracts our claims from an already-verified echo-jwt token.
func ParseClaims(token *jwt.Token) (Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	rawUID, ok := mapClaims["uid"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	uid, err := uuid.Parse(rawUID)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	username, ok := mapClaims["username"].(string)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var roles []string
	if rawRoles, ok := mapClaims["roles"].([]interface{}); ok {
		for _, r := range rawRoles {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
	}

	return Claims{UserID: uid, Username: username, Roles: roles}, nil
}
