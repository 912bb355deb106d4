// Package integrations provides HTTP clients for remote photo APIs.
//
// The [Client] type carries the shared plumbing: default headers, context-
// aware requests, mapping of HTTP statuses onto [ErrNotFound], [ErrNetwork],
// [ErrUnauthorized] and [ErrRateLimited], and emission of observability
// hooks (including X-Ratelimit-* headers). Transient failures are wrapped
// with [httputil.RetryableError] so callers can hand the request to
// [httputil.RetryWithBackoff].
//
// Service-specific clients live in subpackages:
//
//   - [unsplash]: the Unsplash photo list and search endpoints
//
// [unsplash]: github.com/matzehuels/photowall/pkg/integrations/unsplash
package integrations
