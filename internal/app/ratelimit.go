package app

import (
	"net/http"
	"strconv"
	"time"

	"task-logger/internal/common/logging"
	"task-logger/internal/common/ratelimit"
)

// InitializeRateLimiter returns the /add_task limiter, or nil when rate
// limiting is disabled. Redis is used when connected.
func (app *App) InitializeRateLimiter() ratelimit.Limiter {
	if !app.Config.RateLimitEnabled {
		return nil
	}

	limit, _ := strconv.Atoi(app.Config.RateLimitDefault)
	if limit <= 0 {
		limit = 60
	}

	window, _ := time.ParseDuration(app.Config.RateLimitWindow)
	if window <= 0 {
		window = time.Minute
	}

	rateLimitConfig := ratelimit.Config{
		Limit:     limit,
		Window:    window,
		Enabled:   true,
		Type:      ratelimit.BackendLocal,
		KeyPrefix: "task-logger:",
	}

	var limiter ratelimit.Limiter
	var err error
	if app.RedisClient != nil {
		rateLimitConfig.Type = ratelimit.BackendRedis
		limiter, err = ratelimit.New(rateLimitConfig, app.RedisClient)
	}
	if limiter == nil || err != nil {
		// Fall back to local limiter
		rateLimitConfig.Type = ratelimit.BackendLocal
		limiter, err = ratelimit.NewLocalLimiter(rateLimitConfig)
		if err != nil {
			app.Logger.Error("Failed to create rate limiter", err)
			return nil
		}
	}

	app.Logger.Info("Rate Limiting: Enabled",
		logging.Field{Key: "limit", Value: limit},
		logging.Field{Key: "window", Value: window.String()},
		logging.Field{Key: "backend", Value: string(rateLimitConfig.Type)},
	)
	return limiter
}

// rateLimitKey picks how clients are identified. Forwarding headers are
// trusted only when RATE_LIMIT_TRUST_PROXY is set.
func (app *App) rateLimitKey() func(*http.Request) string {
	if app.Config.RateLimitTrustProxy {
		return ratelimit.ForwardedIPKey
	}
	return ratelimit.IPKey
}
