package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/apperr"
	"github.com/Skotchmaster/bookly/internal/blocklist"
	"github.com/Skotchmaster/bookly/internal/token"
)

func newContext(t *testing.T, bearer string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireAccess(t *testing.T) {
	codec := &token.Codec{Secret: []byte("test_secret")}
	list := blocklist.NewMemory()
	mw := RequireAccess(codec, list)(okHandler)

	raw, err := codec.Issue("a@x.com", "uid-1", "user", false, token.AccessTTL)
	require.NoError(t, err)

	c := newContext(t, raw)
	require.NoError(t, mw(c))
	require.Equal(t, "user", c.Get(CtxRole))
	require.Equal(t, "uid-1", c.Get(CtxUserUID))
}

func TestRequireAccessMissingHeader(t *testing.T) {
	codec := &token.Codec{Secret: []byte("test_secret")}
	mw := RequireAccess(codec, blocklist.NewMemory())(okHandler)

	err := mw(newContext(t, ""))
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestRequireAccessRejectsRefresh(t *testing.T) {
	codec := &token.Codec{Secret: []byte("test_secret")}
	mw := RequireAccess(codec, blocklist.NewMemory())(okHandler)

	raw, err := codec.Issue("a@x.com", "uid-1", "user", true, token.RefreshTTL)
	require.NoError(t, err)

	err = mw(newContext(t, raw))
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestRequireAccessRejectsRevokedJTI(t *testing.T) {
	codec := &token.Codec{Secret: []byte("test_secret")}
	list := blocklist.NewMemory()
	mw := RequireAccess(codec, list)(okHandler)

	raw, err := codec.Issue("a@x.com", "uid-1", "user", false, token.AccessTTL)
	require.NoError(t, err)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	require.NoError(t, list.Revoke(context.Background(), claims.ID, time.Minute))

	err = mw(newContext(t, raw))
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestRequireRefreshRejectsAccess(t *testing.T) {
	codec := &token.Codec{Secret: []byte("test_secret")}
	mw := RequireRefresh(codec)(okHandler)

	raw, err := codec.Issue("a@x.com", "uid-1", "user", false, token.AccessTTL)
	require.NoError(t, err)

	err = mw(newContext(t, raw))
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole([]string{"admin"})(okHandler)

	c := newContext(t, "")
	c.Set(CtxRole, "user")
	require.ErrorIs(t, mw(c), apperr.ErrAccessDenied)

	c = newContext(t, "")
	c.Set(CtxRole, "admin")
	require.NoError(t, mw(c))

	// a valid token with no role at all is still denied
	c = newContext(t, "")
	require.ErrorIs(t, mw(c), apperr.ErrAccessDenied)
}
