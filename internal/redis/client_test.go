package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := NewClient(&Config{
		Address:  mr.Addr(),
		PoolSize: 10,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewClient(nil)
		assert.Error(t, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = NewClient(&Config{Address: addr})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to connect to Redis")
	})

	t.Run("fills pool size", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		config := &Config{Address: mr.Addr()}
		client, err := NewClient(config)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, 10, config.PoolSize)
	})
}

func TestClient_Health(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := NewClient(&Config{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Health())

	mr.Close()
	assert.Error(t, client.Health())
}

func TestClient_CheckRateLimit(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, count, err := client.CheckRateLimit(ctx, "ratelimit:client", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "hit %d", i)
		assert.Equal(t, i, count)
	}

	allowed, count, err := client.CheckRateLimit(ctx, "ratelimit:client", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 3, count)

	assert.True(t, mr.Exists("ratelimit:client"))
	assert.Greater(t, mr.TTL("ratelimit:client"), time.Duration(0))
}

func TestClient_CheckRateLimitSlidingWindow(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		_, _, err := client.CheckRateLimit(ctx, "k", 2, time.Minute)
		require.NoError(t, err)
	}

	allowed, _, err := client.CheckRateLimit(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(61 * time.Second)
	allowed, count, err := client.CheckRateLimit(ctx, "k", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, count)
}

func TestClient_CheckRateLimitKeysAreIndependent(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	allowed, _, err := client.CheckRateLimit(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = client.CheckRateLimit(ctx, "b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = client.CheckRateLimit(ctx, "a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
