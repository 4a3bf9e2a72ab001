package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// localLimiter keeps a token bucket per key. A bucket holds Limit tokens
// and refills at Limit per Window.
type localLimiter struct {
	mu       sync.Mutex
	config   Config
	limiters map[string]*limiterEntry

	lastCleanup time.Time
	now         func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewLocalLimiter creates an in-process limiter
func NewLocalLimiter(config Config) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &localLimiter{
		config:      config,
		limiters:    make(map[string]*limiterEntry),
		lastCleanup: time.Now(),
		now:         time.Now,
	}, nil
}

func (rl *localLimiter) Allow(key string) bool {
	if !rl.config.Enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	return rl.limiterFor(key, now).AllowN(now, 1)
}

// limiterFor gets or creates the bucket for key. Callers hold mu.
func (rl *localLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	if now.Sub(rl.lastCleanup) > rl.config.CleanupPeriod {
		rl.cleanup(now)
	}

	entry, exists := rl.limiters[key]
	if !exists {
		every := rl.config.Window / time.Duration(rl.config.Limit)
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Every(every), rl.config.Limit)}
		rl.limiters[key] = entry

		if len(rl.limiters) > rl.config.MaxKeys {
			rl.cleanup(now)
		}
	}
	entry.lastUsed = now

	return entry.limiter
}

// cleanup removes buckets that haven't been used recently
func (rl *localLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-rl.config.CleanupPeriod)

	for key, entry := range rl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}

	rl.lastCleanup = now
}

func (rl *localLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"type":        "local",
		"enabled":     rl.config.Enabled,
		"limit":       rl.config.Limit,
		"window":      rl.config.Window.String(),
		"active_keys": len(rl.limiters),
		"max_keys":    rl.config.MaxKeys,
	}
}

// Health always succeeds for the in-process limiter
func (rl *localLimiter) Health() error {
	return nil
}
