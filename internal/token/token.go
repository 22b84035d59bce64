package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims asserts a user id and nothing else. Tokens carry no expiry: the
// client keeps them until logout, and rotating the signing secret is the
// only way to invalidate them in bulk.
type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

func Sign(userID uint, secret []byte) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: userID})
	return t.SignedString(secret)
}

func Verify(tokenStr string, secret []byte) (uint, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid || claims.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
