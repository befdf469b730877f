package service

import (
	"errors"
	"fmt"
)

// NonRetryableError marks a deterministic failure that retrying cannot fix:
// malformed payloads, orders with no resolvable products, bad price data.
// The orchestrator absorbs these after recording them; only retryable errors
// (transport, persistence) cross the orchestrator boundary.
type NonRetryableError struct {
	Reason string
}

func (e *NonRetryableError) Error() string {
	return e.Reason
}

func nonRetryablef(format string, args ...interface{}) error {
	return &NonRetryableError{Reason: fmt.Sprintf(format, args...)}
}

// IsNonRetryable reports whether err is (or wraps) a NonRetryableError
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}
