// Package observability exposes event hooks for logging and metrics.
//
// The gallery, the HTTP client and the size cache report through the
// package-level registries below. Until a command installs its own hooks
// (photowall does so for --verbose) every call is a no-op.
//
//	observability.SetGalleryHooks(verboseHooks{log})
//	...
//	observability.Gallery().OnFetchComplete(ctx, page, n, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// GalleryHooks receives events from the fetch coordinator and the size
// measurement adapter.
type GalleryHooks interface {
	OnFetchStart(ctx context.Context, page int)
	OnFetchComplete(ctx context.Context, page, count int, duration time.Duration, err error)

	// OnFetchSkipped records a trigger that issued no request (in flight,
	// exhausted, closed, or failure budget spent). reason is a short slug.
	OnFetchSkipped(ctx context.Context, page int, reason string)

	OnMeasure(ctx context.Context, id string, width, height int, duration time.Duration, err error)
}

// CacheHooks receives cache lookups. keyType names what is cached ("size").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the shared Unsplash HTTP client.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)

	// OnRateLimit reports the X-Ratelimit-* headers of a response.
	OnRateLimit(ctx context.Context, host string, remaining, limit int)
}

// Noop implementations, installed until something is registered.
type NoopGalleryHooks struct{}

func (NoopGalleryHooks) OnFetchStart(context.Context, int)                                 {}
func (NoopGalleryHooks) OnFetchComplete(context.Context, int, int, time.Duration, error)   {}
func (NoopGalleryHooks) OnFetchSkipped(context.Context, int, string)                       {}
func (NoopGalleryHooks) OnMeasure(context.Context, string, int, int, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
func (NoopHTTPHooks) OnRateLimit(context.Context, string, int, int)                          {}

// slot holds one registered hook set. Setting nil is ignored.
type slot[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newSlot[T any](noop T) *slot[T] { return &slot[T]{cur: noop, noop: noop} }

func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	galleryHooks = newSlot[GalleryHooks](NoopGalleryHooks{})
	cacheHooks   = newSlot[CacheHooks](NoopCacheHooks{})
	httpHooks    = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetGalleryHooks registers gallery hooks, normally once at startup.
func SetGalleryHooks(h GalleryHooks) { galleryHooks.set(h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { cacheHooks.set(h) }

// SetHTTPHooks registers HTTP client hooks.
func SetHTTPHooks(h HTTPHooks) { httpHooks.set(h) }

// Gallery returns the registered gallery hooks.
func Gallery() GalleryHooks { return galleryHooks.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheHooks.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpHooks.get() }

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	galleryHooks.reset()
	cacheHooks.reset()
	httpHooks.reset()
}
