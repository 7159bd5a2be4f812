package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Skotchmaster/bookly/internal/apperr"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// Claims carried by access and refresh tokens. The Refresh flag is the only
// thing telling the two apart, both are signed with the same secret.
type Claims struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
	Role    string `json:"role"`
	Refresh bool   `json:"refresh"`
	jwt.RegisteredClaims
}

type Codec struct {
	Secret []byte
}

func (cd *Codec) Issue(email, uid, role string, refresh bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:   email,
		UserUID: uid,
		Role:    role,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(cd.Secret)
}

// Decode verifies signature and expiry. Every verification failure collapses
// into ErrInvalidToken, callers never see the parser's internals.
func (cd *Codec) Decode(raw string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return cd.Secret, nil
	})
	if err != nil || !t.Valid {
		return nil, apperr.ErrInvalidToken
	}

	claims, ok := t.Claims.(*Claims)
	if !ok {
		return nil, apperr.ErrInvalidToken
	}

	return claims, nil
}
