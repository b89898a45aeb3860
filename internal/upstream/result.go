package upstream

import (
	"errors"
	"math"
	"net/http"
)

const (
	msgOK           = "ok"
	msgUnauthorized = "your session has expired, please log in again"
	msgUnexpected   = "an unexpected error occurred, please try again"
	msgRateLimited  = "too many requests, please wait before trying again"
)

// Result is the uniform outcome of activity and auth calls.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// RetryAfter is set in seconds for rate limited calls.
	RetryAfter *int                `json:"retry_after,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
}

func OK(status int) Result {
	return Result{Success: true, Message: msgOK, Status: status}
}

// ToResult maps a call error onto the uniform result. A nil error is a 200 success.
func ToResult(err error) Result {
	if err == nil {
		return OK(http.StatusOK)
	}

	var (
		validationErr  *ValidationError
		rateLimitedErr *RateLimitedError
		serverErr      *ServerError
	)
	switch {
	case errors.Is(err, ErrUnauthorized):
		return Result{Message: msgUnauthorized, Status: http.StatusUnauthorized}
	case errors.As(err, &validationErr):
		msg := validationErr.Message
		if msg == "" {
			msg = "validation failed"
		}
		return Result{Message: msg, Status: validationErr.Status, Errors: validationErr.Fields}
	case errors.As(err, &rateLimitedErr):
		secs := int(math.Ceil(rateLimitedErr.RetryAfter.Seconds()))
		msg := rateLimitedErr.Message
		if msg == "" {
			msg = msgRateLimited
		}
		return Result{Message: msg, Status: http.StatusTooManyRequests, RetryAfter: &secs}
	case errors.As(err, &serverErr):
		msg := serverErr.Message
		if msg == "" {
			msg = http.StatusText(serverErr.Status)
		}
		return Result{Message: msg, Status: serverErr.Status}
	default:
		return Result{Message: msgUnexpected}
	}
}

// HTTPStatus is the status a handler should answer with for this result.
func (r Result) HTTPStatus() int {
	if r.Status == 0 {
		return http.StatusBadGateway
	}
	return r.Status
}
