package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/bookly/internal/apperr"
)

// LinkTTL bounds how long a mailed verification or reset link stays usable.
const LinkTTL = time.Hour

type LinkClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LinkCodec signs compact tokens for email links. It runs off its own secret
// so a leaked link can never be replayed as a session token.
type LinkCodec struct {
	Secret []byte
}

func (cd *LinkCodec) Issue(email string) (string, error) {
	now := time.Now()
	claims := LinkClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(LinkTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(cd.Secret)
}

func (cd *LinkCodec) Decode(raw string) (*LinkClaims, error) {
	t, err := jwt.ParseWithClaims(raw, &LinkClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return cd.Secret, nil
	})
	if err != nil || !t.Valid {
		return nil, apperr.ErrInvalidToken
	}

	claims, ok := t.Claims.(*LinkClaims)
	if !ok {
		return nil, apperr.ErrInvalidToken
	}

	return claims, nil
}
