package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLimiter(t *testing.T) {
	config := Config{
		Limit:   5,
		Window:  time.Minute,
		Enabled: true,
		Type:    BackendLocal,
	}

	limiter, err := NewLocalLimiter(config)
	require.NoError(t, err)

	// Should allow requests up to the limit immediately
	for i := 0; i < config.Limit; i++ {
		assert.True(t, limiter.Allow("client"), "request %d should be allowed", i)
	}

	assert.False(t, limiter.Allow("client"), "request should be denied after limit exhausted")
}

func TestLocalLimiterKeyBased(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Limit: 2, Window: time.Minute, Enabled: true})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	}

	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.2"))
}

func TestLocalLimiterRefills(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Limit: 2, Window: time.Minute, Enabled: true})
	require.NoError(t, err)

	local := limiter.(*localLimiter)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	local.now = func() time.Time { return now }
	local.lastCleanup = now

	assert.True(t, limiter.Allow("k"))
	assert.True(t, limiter.Allow("k"))
	assert.False(t, limiter.Allow("k"))

	now = now.Add(30 * time.Second)
	assert.True(t, limiter.Allow("k"), "one token refills every window/limit")
	assert.False(t, limiter.Allow("k"))
}

func TestLocalLimiterDisabled(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Limit: 1, Enabled: false})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("k"))
	}
}

func TestLocalLimiterCleanup(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Limit: 1, Window: time.Minute, Enabled: true, CleanupPeriod: time.Minute})
	require.NoError(t, err)

	local := limiter.(*localLimiter)
	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	local.now = func() time.Time { return now }
	local.lastCleanup = now

	limiter.Allow("old")
	now = now.Add(2 * time.Minute)
	limiter.Allow("new")

	assert.Equal(t, 1, limiter.Stats()["active_keys"])
}

func TestConfigValidate(t *testing.T) {
	c := Config{Enabled: true}
	require.NoError(t, c.Validate())
	assert.Equal(t, 60, c.Limit)
	assert.Equal(t, time.Minute, c.Window)
	assert.Equal(t, BackendLocal, c.Type)
	assert.Equal(t, 10000, c.MaxKeys)

	r := Config{Enabled: true, Type: BackendRedis}
	require.NoError(t, r.Validate())
	assert.Equal(t, "ratelimit:", r.KeyPrefix)

	bad := Config{Enabled: true, Type: "memcached"}
	assert.Error(t, bad.Validate())
}
