package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/httputil"
	"github.com/matzehuels/photowall/pkg/observability"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// Client provides shared HTTP functionality for API clients.
// It handles default headers, status mapping, and hook emission.
//
// Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with default headers applied to every request.
// Pass nil for headers if no default headers are needed.
func NewClient(headers map[string]string) *Client {
	return &Client{
		http:    NewHTTPClient(),
		headers: headers,
	}
}

// SetHTTPClient replaces the underlying http.Client (tests use the httptest
// server's client).
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	_, err := c.GetWithHeaders(ctx, url, nil, v)
	return err
}

// GetWithHeaders performs an HTTP GET with additional headers merged with
// defaults and returns the response headers. Request-specific headers
// override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) (http.Header, error) {
	resp, err := c.Do(ctx, http.MethodGet, url, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.Header, fmt.Errorf("decode %s: %w", redact(url), err)
	}
	return resp.Header, nil
}

// Do sends a request and returns the response when the status is 2xx. The
// caller must close the body. Non-2xx responses are mapped to the package
// sentinel errors; transient ones are wrapped as retryable.
func (c *Client) Do(ctx context.Context, method, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	if rl := ParseRateLimit(resp.Header); rl.Present {
		hooks.OnRateLimit(ctx, host, rl.Remaining, rl.Limit)
	}

	if err := checkResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkResponse(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	msg := errorMessage(resp.Body)
	rl := ParseRateLimit(resp.Header)
	switch {
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case code == http.StatusTooManyRequests, code == http.StatusForbidden && rl.Present && rl.Remaining == 0:
		after := ParseRetryAfter(resp.Header)
		rlErr := &perrors.RateLimitedError{RetryAfter: int(after / time.Second), Limit: rl.Limit, Message: msg}
		err := fmt.Errorf("%w: %w", ErrRateLimited, rlErr)
		if after > 0 {
			return httputil.RetryAfter(err, after)
		}
		return err
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrUnauthorized, code, msg)
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrNetwork, code, msg)
	}
}

// errorMessage extracts {"errors": [...]} bodies, falling back to the raw
// (truncated) text.
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && len(payload.Errors) > 0 {
		return strings.Join(payload.Errors, "; ")
	}
	return strings.TrimSpace(string(data))
}

// redact strips query strings, which may carry client ids, from URLs placed
// in error messages.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<url>"
	}
	u.RawQuery = ""
	return u.String()
}

// Classify maps a client error onto the structured error codes used by the
// rest of the application.
func Classify(err error) perrors.Code {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return perrors.ErrCodeTimeout
	case errors.Is(err, ErrRateLimited):
		return perrors.ErrCodeRateLimited
	case errors.Is(err, ErrUnauthorized):
		return perrors.ErrCodeUnauthorized
	case errors.Is(err, ErrNotFound):
		return perrors.ErrCodeNotFound
	default:
		return perrors.ErrCodeNetwork
	}
}
