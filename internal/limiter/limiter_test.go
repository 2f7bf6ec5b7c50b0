package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewMemoryLimiter(3, 15*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "user@example.com")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, err := l.Allow(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, ok, "fourth request should be blocked")
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, 15*time.Minute)
	ctx := context.Background()

	ok, err := l.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, "b@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	l := NewMemoryLimiter(2, 15*time.Minute)
	ctx := context.Background()

	current := time.Now()
	l.now = func() time.Time { return current }

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "user@example.com")
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := l.Allow(ctx, "user@example.com")
	require.NoError(t, err)
	require.False(t, ok)

	// after the window passes, earlier requests no longer count
	current = current.Add(16 * time.Minute)
	ok, err = l.Allow(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLimiter_DropsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter(3, 15*time.Minute)
	ctx := context.Background()

	current := time.Now()
	l.now = func() time.Time { return current }

	_, err := l.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	_, err = l.Allow(ctx, "b@example.com")
	require.NoError(t, err)

	// only a@ comes back after the window; b@ must not linger in the map
	current = current.Add(16 * time.Minute)
	ok, err := l.Allow(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.requests, 1)
	assert.NotContains(t, l.requests, "b@example.com")
}
