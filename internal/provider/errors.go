package provider

import (
	"errors"
	"fmt"
)

// FatalError means the run cannot continue: bad credentials, the
// service closed entirely, a blacklisted client, or quota exhaustion.
// The caller should stop scraping this platform (and likely the run).
type FatalError struct {
	StatusCode int
	Message    string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal provider error (HTTP %d): %s", e.StatusCode, e.Message)
}

// RetryableError means the request should be retried after a backoff:
// server overload or a concurrent-thread limit.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable provider error (HTTP %d): %s", e.StatusCode, e.Message)
}

// NotFoundError means the specific ROM/search has no answer: the item
// should be skipped, not retried.
type NotFoundError struct {
	StatusCode int
	Message    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("provider reported not-found (HTTP %d): %s", e.StatusCode, e.Message)
}

// statusMessages mirrors ScreenScraper's documented status codes.
var statusMessages = map[int]string{
	200: "success",
	400: "malformed request",
	401: "API closed for non-members (server overload)",
	403: "invalid credentials",
	404: "game not found",
	423: "API fully closed",
	426: "software blacklisted",
	429: "thread limit reached",
	430: "daily quota exceeded",
	431: "too many not-found requests",
}

// classifyStatus converts an HTTP status code into the matching error
// taxonomy member. Status 200 returns nil: the caller still has to
// validate the body. Any status not named below is treated as retryable.
func classifyStatus(statusCode int) error {
	msg, ok := statusMessages[statusCode]
	if !ok {
		msg = fmt.Sprintf("unexpected status %d", statusCode)
	}
	switch statusCode {
	case 200:
		return nil
	case 403, 423, 426, 430:
		return &FatalError{StatusCode: statusCode, Message: msg}
	case 401, 429:
		return &RetryableError{StatusCode: statusCode, Message: msg}
	case 400, 404, 431:
		return &NotFoundError{StatusCode: statusCode, Message: msg}
	default:
		return &RetryableError{StatusCode: statusCode, Message: msg}
	}
}

// IsFatal reports whether err (or something it wraps) is a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// IsRetryable reports whether err (or something it wraps) is a
// RetryableError, including network-transport errors that aren't HTTP
// status failures at all (timeouts, connection resets).
func IsRetryable(err error) bool {
	var re *RetryableError
	if errors.As(err, &re) {
		return true
	}
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound reports whether err (or something it wraps) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// TransportError wraps network-level failures (timeouts, connection
// errors, malformed response bodies on a 200) that are retryable up to
// a bound, then demoted to not-found by the caller.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
