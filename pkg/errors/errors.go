// Package errors provides structured error types for photowall.
//
// Codes group failures by how the gallery reacts to them:
//   - CONFIG: fatal, reported once at startup
//   - NETWORK, RATE_LIMITED, UNAUTHORIZED: page fetch failures, shown as a
//     retryable status under the grid
//   - IMAGE_LOAD: a probe failed; the cell keeps default geometry
//   - INVALID_INPUT: caller mistakes (negative page, bad flag values)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "no access key configured")
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // abort startup
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetch page %d", page)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidQuery  Code = "INVALID_QUERY"

	ErrCodeConfig Code = "CONFIG"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeRateLimited  Code = "RATE_LIMITED"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	ErrCodeImageLoad Code = "IMAGE_LOAD"

	ErrCodeClosed   Code = "CLOSED"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a [Code] with a message and, for wrapped failures, a cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an *Error recording cause. Passing a nil cause is the same
// as calling [New].
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
// A [RateLimitedError] counts as RATE_LIMITED.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or of a
// [RateLimitedError]. It is empty for uncoded errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.Code()
	}
	return ""
}

// UserMessage strips the code prefix and cause from a coded error. Other
// errors are returned as their plain text.
func UserMessage(err error) string {
	var e *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &e):
		return e.Message
	default:
		return err.Error()
	}
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Limit      int // Requests allowed per window, from X-Ratelimit-Limit
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	if e.Limit > 0 {
		return fmt.Sprintf("rate limited: hourly limit of %d requests used up", e.Limit)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
