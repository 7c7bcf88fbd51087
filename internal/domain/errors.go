package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy for an export run. Unauthorized, Forbidden, mount timeouts
// and unexpected HTTP statuses are fatal; per-item extraction failures are
// absorbed by the extractor and never surface here.
var (
	// ErrUnauthorized means the token was rejected outright (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized: invalid token")

	// ErrForbidden means the token lacks access to the channel (HTTP 403).
	ErrForbidden = errors.New("forbidden: token lacks access to this channel")

	// ErrMountTimeout means no candidate URL produced a mounted chat UI.
	ErrMountTimeout = errors.New("chat UI did not mount on any candidate URL")

	// ErrNoToken means no credential was found in config or environment.
	ErrNoToken = errors.New("no token set (config discord.token or DISCORD_TOKEN)")
)

// StatusError is returned for unexpected, non-retryable HTTP responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP %d: %s", e.Code, e.Body)
}
