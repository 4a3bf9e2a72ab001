package ratelimit

import (
	"context"
	"fmt"
	"time"

	"task-logger/internal/common/logging"
)

// distributedLimiter counts requests in a Redis sliding window so every
// replica shares one budget per key
type distributedLimiter struct {
	config      Config
	redisClient RedisInterface
	timeout     time.Duration
}

// NewDistributedLimiter creates a Redis-backed limiter
func NewDistributedLimiter(config Config, redisClient RedisInterface) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if redisClient == nil {
		return nil, fmt.Errorf("redis client is required for distributed rate limiter")
	}

	return &distributedLimiter{
		config:      config,
		redisClient: redisClient,
		timeout:     2 * time.Second,
	}, nil
}

// Allow admits the request when Redis is unreachable.
func (rl *distributedLimiter) Allow(key string) bool {
	if !rl.config.Enabled {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), rl.timeout)
	defer cancel()

	allowed, _, err := rl.redisClient.CheckRateLimit(ctx, rl.config.KeyPrefix+key, rl.config.Limit, rl.config.Window)
	if err != nil {
		logging.Warn("Rate limit check failed, allowing request",
			logging.Field{Key: "key", Value: key},
			logging.Field{Key: "error", Value: err.Error()},
		)
		return true
	}

	return allowed
}

func (rl *distributedLimiter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"type":       "distributed",
		"enabled":    rl.config.Enabled,
		"limit":      rl.config.Limit,
		"window":     rl.config.Window.String(),
		"backend":    "redis",
		"key_prefix": rl.config.KeyPrefix,
	}
}

// Health checks if the distributed rate limiter is working
func (rl *distributedLimiter) Health() error {
	return rl.redisClient.Health()
}
