package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	ID    int
	Email string
}

// tokenClaims binds the user's id and email into the signed credential.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs a time-limited HS256 credential for the user. The
// token is verifiable without a store round-trip.
func IssueToken(userID int, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the embedded
// identity.
func ParseToken(tokenString string, secret []byte) (Identity, error) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	subject := strings.TrimSpace(claims.Subject)
	id, err := strconv.Atoi(subject)
	if err != nil || id < 1 {
		return Identity{}, errors.New("invalid subject")
	}
	return Identity{ID: id, Email: claims.Email}, nil
}
