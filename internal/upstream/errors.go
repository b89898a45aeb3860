package upstream

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnauthorized is returned when the fitness backend rejects the bearer
	// token. The session the call was made for is expired at that point.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnexpected covers transport and decoding failures.
	ErrUnexpected = errors.New("unexpected error")
)

// ValidationError is a 400/422 answer, with per-field messages when the backend sent them.
type ValidationError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	var parts []string
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	return fmt.Sprintf("validation failed: %s [%s]", e.Message, strings.Join(parts, "; "))
}

// RateLimitedError is a 429 answer.
type RateLimitedError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// ServerError is any other non-2xx answer.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error [%d]: %s", e.Status, e.Message)
}
