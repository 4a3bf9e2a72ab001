// Package auth implements the static bearer-token check guarding the
// write endpoint.
package auth

import (
	"crypto/subtle"
	"strings"

	"task-logger/internal/common/errors"
)

const bearerPrefix = "Bearer "

// BearerAuth validates Authorization headers against a configured API key.
// An empty key puts the service in open mode.
type BearerAuth struct {
	apiKey []byte
}

// New creates a BearerAuth for apiKey
func New(apiKey string) *BearerAuth {
	return &BearerAuth{apiKey: []byte(apiKey)}
}

// Enabled reports whether a token is required
func (a *BearerAuth) Enabled() bool {
	return len(a.apiKey) > 0
}

// Authorize checks the raw Authorization header value. A missing header or
// a non-Bearer scheme is an authentication error (401); a token that does
// not match is an authorization error (403).
func (a *BearerAuth) Authorize(header string) error {
	if !a.Enabled() {
		return nil
	}

	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return errors.AuthError("Missing bearer token")
	}

	token := header[len(bearerPrefix):]
	if subtle.ConstantTimeCompare([]byte(token), a.apiKey) != 1 {
		return errors.ForbiddenError("Invalid token")
	}

	return nil
}
