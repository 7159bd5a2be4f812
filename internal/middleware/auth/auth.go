package auth

import (
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/apperr"
	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/token"
)

const (
	CtxClaims  = "claims"
	CtxUserUID = "user_uid"
	CtxRole    = "role"
)

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return "", apperr.ErrInvalidToken
	}
	return raw, nil
}

func setUserContext(c echo.Context, claims *token.Claims) {
	c.Set(CtxClaims, claims)
	c.Set(CtxUserUID, claims.UserUID)
	c.Set(CtxRole, claims.Role)
}

// ClaimsFromContext returns what RequireAccess/RequireRefresh stored.
func ClaimsFromContext(c echo.Context) *token.Claims {
	claims, _ := c.Get(CtxClaims).(*token.Claims)
	return claims
}

// RequireAccess accepts an access token only if the signature holds, it is
// not expired, it is not a refresh token and its jti has not been revoked.
func RequireAccess(codec *token.Codec, list blocklist.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := codec.Decode(raw)
			if err != nil {
				return err
			}
			if claims.Refresh {
				return apperr.ErrInvalidToken
			}

			revoked, err := list.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return err
			}
			if revoked {
				return apperr.ErrInvalidToken
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}

func RequireRefresh(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims, err := codec.Decode(raw)
			if err != nil {
				return err
			}
			if !claims.Refresh {
				return apperr.ErrInvalidToken
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}

// RequireRole gates a route on the role already decoded by RequireAccess.
// Token validity and role membership fail differently on purpose.
func RequireRole(allowed []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" || !slices.Contains(allowed, role) {
				return apperr.ErrAccessDenied
			}
			return next(c)
		}
	}
}
