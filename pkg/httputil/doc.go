// Package httputil provides HTTP helpers shared by the photo API client.
//
// [Retry] wraps a request with automatic retry for transient failures:
//
//   - network errors
//   - 5xx server errors
//   - 429 / exhausted rate limit responses
//
// Only errors wrapped with [Retryable] (or a [RetryableError] literal) are
// retried; everything else is returned on the first attempt. A
// RetryableError may carry a server-provided delay (Retry-After) which
// replaces the exponential backoff for that attempt.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.Get(ctx, url, &out)
//	})
package httputil
