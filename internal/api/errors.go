package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrRateLimit indicates the API returned 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates a body that is not a well-formed envelope.
type ErrInvalidResponse struct {
	Body json.RawMessage
	Err  error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid API response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrStatus is a non-retryable HTTP status the client does not map to a
// source error.
type ErrStatus struct {
	Code int
	URL  string
}

func (e *ErrStatus) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Code, e.URL)
}
