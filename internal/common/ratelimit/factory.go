package ratelimit

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"task-logger/internal/common/errors"
)

// New creates a new rate limiter based on the configuration
func New(config Config, redisClient RedisInterface) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case BackendLocal:
		return NewLocalLimiter(config)
	case BackendRedis:
		return NewDistributedLimiter(config, redisClient)
	default:
		return nil, fmt.Errorf("unsupported rate limiter backend type: %s", config.Type)
	}
}

// HTTPMiddleware rejects requests over the limit with 429 and a JSON
// detail body
func HTTPMiddleware(limiter Limiter, keyFunc func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			stats := limiter.Stats()
			if limit, ok := stats["limit"].(int); ok {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
			}
			w.Header().Set("Retry-After", "1")

			err := errors.RateLimitError(key)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(errors.HTTPStatus(err))
			json.NewEncoder(w).Encode(map[string]string{"detail": err.Message})
		})
	}
}

// IPKey keys requests by the peer address. Forwarding headers are ignored
// since any client can set them.
func IPKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ForwardedIPKey prefers the first X-Forwarded-For hop, then X-Real-IP.
// Use it only behind a proxy that overwrites those headers.
func ForwardedIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return IPKey(r)
}
