package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_WindowResets(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		ok, _, err := l.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	now = now.Add(20 * time.Second)
	ok, retry, err := l.Allow(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	ok, _, _ = l.Allow(context.Background(), "5.6.7.8")
	assert.True(t, ok, "other clients have their own bucket")

	now = now.Add(40 * time.Second)
	ok, _, _ = l.Allow(context.Background(), "1.2.3.4")
	assert.True(t, ok, "a new window starts once the old one ends")
}

func TestMemoryLimiter_Evict(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	_, _, _ = l.Allow(context.Background(), "a")
	now = now.Add(30 * time.Second)
	_, _, _ = l.Allow(context.Background(), "b")

	now = now.Add(45 * time.Second)
	l.evict()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.buckets, "a")
	assert.Contains(t, l.buckets, "b")
}
