package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryExpiresEntries(t *testing.T) {
	now := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(got))

	got[0] = 'x'
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "v", string(again))

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryWithoutTTLKeepsEntry(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	_, ok, _ := c.Get(context.Background(), "k")
	assert.True(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ml:recommend:u-1", Key("ml", "recommend", "u-1"))
	assert.Equal(t, "ml:popular", Key("ml", "popular", ""))
}

func TestNewRedisRequiresAddress(t *testing.T) {
	_, err := NewRedis(context.Background(), " ")
	require.Error(t, err)
}
