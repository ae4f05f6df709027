// internal/utils/jwt.go
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionClaims wraps the catalog's own session token together with the admin
// that owns it. The dashboard cookie carries this JWT.
type SessionClaims struct {
	Email    string `json:"email"`
	Upstream string `json:"upstream"`
	jwt.RegisteredClaims
}

const sessionIssuer = "commodity-admin"

var jwtSecret = []byte("change-me-session-secret")

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

func GenerateSessionToken(email, upstream string, ttlHours int) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email:    email,
		Upstream: upstream,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
			Subject:   email,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid session token")
}
