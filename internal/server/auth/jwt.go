// Package auth issues and validates the HS256 admin tokens that guard the
// operational endpoints (access ledger listing).
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hushdrop/hushdrop/internal/common"
)

// Claims includes the standard registered claims plus the subject of the
// admin token (an operator handle, for the audit trail).
type Claims struct {
	jwt.RegisteredClaims
	Subject string
}

// GenerateToken signs an admin token for subject, valid for
// validityDuration from now.
func GenerateToken(subject string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Subject: subject,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetSubjectFromToken parses and validates tokenString, returning its
// subject. Expired, forged or malformed tokens yield an error.
func GetSubjectFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Subject, nil
}
