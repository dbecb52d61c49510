package pkg

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/models"
)

type accessClaims struct {
	UserID   string          `json:"user_id"`
	UserType models.UserType `json:"user_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed JWT carrying the user ID and type.
func GenerateAccessToken(secret string, userID uuid.UUID, userType models.UserType, ttl time.Duration) (string, error) {
	claims := &accessClaims{
		UserID:   userID.String(),
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken validates the token and returns the embedded user ID and type.
func ParseAccessToken(secret, tokenString string) (uuid.UUID, models.UserType, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, "", err
	}

	if claims, ok := token.Claims.(*accessClaims); ok && token.Valid {
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return uuid.Nil, "", err
		}
		return userID, claims.UserType, nil
	}

	return uuid.Nil, "", jwt.ErrTokenInvalidClaims
}
