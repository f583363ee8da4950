package main

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fuelcheck/models"
)

// tokenTTL is fixed at issue time; there is no sliding expiration. Clients
// must request a new token once this one runs out.
const tokenTTL = 7 * 24 * time.Hour

// Claims carried by every session token. SessionMarker must equal the user's
// stored marker for the token to authorize.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	SessionMarker string `json:"session_marker"`
}

// CreateToken signs a session token for u expiring in tokenTTL.
func CreateToken(u *models.User, secret []byte) (string, error) {
	return createTokenWithTTL(u, secret, tokenTTL)
}

func createTokenWithTTL(u *models.User, secret []byte, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:        u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		SessionMarker: u.SessionMarker,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies tokenString and returns its claims. It returns
// ErrTokenExpired past the embedded expiry and ErrTokenInvalid for a bad
// signature, wrong algorithm or malformed structure.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
