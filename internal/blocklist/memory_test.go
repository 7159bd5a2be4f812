package blocklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryRevoke(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	revoked, err := m.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = m.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMemoryExpiredEntryNotRevoked(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	// non-positive ttl means the token is already past its own expiry
	require.NoError(t, m.Revoke(ctx, "jti-2", -time.Second))

	revoked, err := m.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}
