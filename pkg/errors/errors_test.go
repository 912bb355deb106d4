package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorText(t *testing.T) {
	reset := errors.New("connection reset")
	tests := []struct {
		name  string
		err   *Error
		code  Code
		text  string
		msg   string
		cause error
	}{
		{"new", New(ErrCodeInvalidInput, "scroll offset %q", "abc"), ErrCodeInvalidInput,
			`INVALID_INPUT: scroll offset "abc"`, `scroll offset "abc"`, nil},
		{"wrap", Wrap(ErrCodeNetwork, reset, "fetch page %d", 3), ErrCodeNetwork,
			"NETWORK_ERROR: fetch page 3: connection reset", "fetch page 3", reset},
		{"wrap nil cause", Wrap(ErrCodeConfig, nil, "no key"), ErrCodeConfig,
			"CONFIG: no key", "no key", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if got := tt.err.Error(); got != tt.text {
				t.Errorf("Error() = %q, want %q", got, tt.text)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
			if got := errors.Unwrap(tt.err); got != tt.cause {
				t.Errorf("Unwrap() = %v, want %v", got, tt.cause)
			}
			if tt.cause != nil && !errors.Is(tt.err, tt.cause) {
				t.Error("errors.Is should find the cause")
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeConfig, "x"), ErrCodeConfig, true},
		{"non-matching code", New(ErrCodeConfig, "x"), ErrCodeNetwork, false},
		{"wrapped outer code", Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeNetwork, true},
		{"fmt wrapped", fmt.Errorf("page 2: %w", New(ErrCodeUnauthorized, "bad key")), ErrCodeUnauthorized, true},
		{"rate limited type", fmt.Errorf("x: %w", &RateLimitedError{RetryAfter: 5}), ErrCodeRateLimited, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeImageLoad, "x"), ErrCodeImageLoad},
		{"rate limited", &RateLimitedError{}, ErrCodeRateLimited},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeConfig, "set UNSPLASH_ACCESS_KEY"), "set UNSPLASH_ACCESS_KEY"},
		{"plain error", errors.New("plain error"), "plain error"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRateLimitedError(t *testing.T) {
	tests := []struct {
		err  *RateLimitedError
		want string
	}{
		{&RateLimitedError{RetryAfter: 60}, "rate limited: retry after 60 seconds"},
		{&RateLimitedError{Limit: 50}, "rate limited: hourly limit of 50 requests used up"},
		{&RateLimitedError{}, "rate limited"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if tt.err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %v, want %v", tt.err.Code(), ErrCodeRateLimited)
		}
	}
}
