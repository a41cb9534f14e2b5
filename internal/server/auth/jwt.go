// Package auth implements credential issuance and verification for the
// session authority: HS256-signed bearer tokens with an embedded expiry,
// and bcrypt password hashing.
package auth

import (
	"errors"

	"time"

	"github.com/dkarpov/reelmark/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the signed payload of a credential: the subject user id
// plus username and email, alongside the registered issued-at/expiry claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	UserName string `json:"username"`
	Email    string `json:"email"`
}

// GenerateToken signs a credential for the given user with the shared secret
// and a fixed validity window.
func GenerateToken(userID, userName, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		UserName: userName,
		Email:    email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry of a credential and returns
// its claims. Any tampering or expiry fails closed with
// common.ErrTokenExpired or common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
