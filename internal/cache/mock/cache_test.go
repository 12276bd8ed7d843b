package mock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLock_SingleHolder(t *testing.T) {
	c := New()
	ctx := context.Background()

	token, ok, err := c.AcquireRunLock(ctx, "transcribe", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, token)

	_, ok, err = c.AcquireRunLock(ctx, "transcribe", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire on a held lock must fail")

	// A different stage is an independent lock.
	_, ok, err = c.AcquireRunLock(ctx, "edit", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunLock_ReleaseRequiresToken(t *testing.T) {
	c := New()
	ctx := context.Background()

	token, ok, err := c.AcquireRunLock(ctx, "review", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// Wrong token must not release.
	require.NoError(t, c.ReleaseRunLock(ctx, "review", "stale-token"))
	_, ok, err = c.AcquireRunLock(ctx, "review", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.ReleaseRunLock(ctx, "review", token))
	_, ok, err = c.AcquireRunLock(ctx, "review", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRunLock_ExpiresAfterTTL(t *testing.T) {
	c := New()
	ctx := context.Background()

	_, ok, err := c.AcquireRunLock(ctx, "analyze", time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)

	_, ok, err = c.AcquireRunLock(ctx, "analyze", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock should be re-acquirable")
}
