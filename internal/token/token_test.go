package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/apperr"
)

func TestIssueDecodeRoundTrip(t *testing.T) {
	codec := &Codec{Secret: []byte("test_secret")}

	raw, err := codec.Issue("a@x.com", "uid-1", "user", false, AccessTTL)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "uid-1", claims.UserUID)
	require.Equal(t, "user", claims.Role)
	require.False(t, claims.Refresh)
	require.NotEmpty(t, claims.ID, "jti must be set")
	require.NotNil(t, claims.ExpiresAt)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestFreshJTIPerIssue(t *testing.T) {
	codec := &Codec{Secret: []byte("test_secret")}

	first, err := codec.Issue("a@x.com", "uid-1", "user", false, AccessTTL)
	require.NoError(t, err)
	second, err := codec.Issue("a@x.com", "uid-1", "user", false, AccessTTL)
	require.NoError(t, err)

	c1, err := codec.Decode(first)
	require.NoError(t, err)
	c2, err := codec.Decode(second)
	require.NoError(t, err)
	require.NotEqual(t, c1.ID, c2.ID)
}

func TestExpiredTokenFails(t *testing.T) {
	codec := &Codec{Secret: []byte("test_secret")}

	raw, err := codec.Issue("a@x.com", "uid-1", "user", false, -time.Minute)
	require.NoError(t, err)

	_, err = codec.Decode(raw)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestWrongSecretFails(t *testing.T) {
	codec := &Codec{Secret: []byte("test_secret")}
	other := &Codec{Secret: []byte("other_secret")}

	raw, err := codec.Issue("a@x.com", "uid-1", "user", false, AccessTTL)
	require.NoError(t, err)

	_, err = other.Decode(raw)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestGarbageFails(t *testing.T) {
	codec := &Codec{Secret: []byte("test_secret")}

	_, err := codec.Decode("not.a.token")
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestRefreshFlagSurvives(t *testing.T) {
	codec := &Codec{Secret: []byte("test_secret")}

	raw, err := codec.Issue("a@x.com", "uid-1", "user", true, RefreshTTL)
	require.NoError(t, err)

	claims, err := codec.Decode(raw)
	require.NoError(t, err)
	require.True(t, claims.Refresh)
}

func TestLinkCodecRoundTrip(t *testing.T) {
	links := &LinkCodec{Secret: []byte("link_secret")}

	raw, err := links.Issue("a@x.com")
	require.NoError(t, err)

	claims, err := links.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email)
}

func TestLinkTokenRejectedAsSessionToken(t *testing.T) {
	links := &LinkCodec{Secret: []byte("link_secret")}
	sessions := &Codec{Secret: []byte("session_secret")}

	raw, err := links.Issue("a@x.com")
	require.NoError(t, err)

	_, err = sessions.Decode(raw)
	require.ErrorIs(t, err, apperr.ErrInvalidToken)
}
