package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobboard/app/database"
)

// Session tokens are valid for a fixed window from issuance. There is no
// revocation list: logout only makes the client discard the token, and role
// changes take effect when the token expires and is reissued.
const tokenValidity = 7 * 24 * time.Hour

// ErrUnauthorized is the single outcome for every verification failure so
// the caller cannot tell a bad signature from an expired or malformed token.
var ErrUnauthorized = errors.New("unauthorized")

type Claims struct {
	jwt.RegisteredClaims
	UserID int    `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func GenerateToken(user *database.User, secret string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenValidity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func VerifyToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	return claims, nil
}
