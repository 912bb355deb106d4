package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const httpTimeout = 15 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized is returned for 401/403 responses that are not rate
	// limits. For the photo API this almost always means a wrong access key.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited is returned when the API refuses a request because the
	// hourly budget is spent.
	ErrRateLimited = errors.New("rate limited")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// RateLimit holds the X-Ratelimit-* headers of a response. Zero values mean
// the header was absent.
type RateLimit struct {
	Limit     int
	Remaining int
	Present   bool
}

// ParseRateLimit reads X-Ratelimit-Limit and X-Ratelimit-Remaining.
func ParseRateLimit(h http.Header) RateLimit {
	limit, errL := strconv.Atoi(h.Get("X-Ratelimit-Limit"))
	remaining, errR := strconv.Atoi(h.Get("X-Ratelimit-Remaining"))
	if errL != nil && errR != nil {
		return RateLimit{}
	}
	return RateLimit{Limit: limit, Remaining: remaining, Present: true}
}

// ParseRetryAfter reads a Retry-After header given in seconds.
// HTTP-date values are not used by the photo API and yield 0.
func ParseRetryAfter(h http.Header) time.Duration {
	s := strings.TrimSpace(h.Get("Retry-After"))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

// BuildURL joins base and path and encodes query, skipping empty values.
func BuildURL(base, path string, query map[string]string) string {
	u := strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
	q := url.Values{}
	for k, v := range query {
		if v != "" {
			q.Set(k, v)
		}
	}
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
