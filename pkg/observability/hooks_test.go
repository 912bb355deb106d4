package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGalleryHooks{}
	g.OnFetchStart(ctx, 1)
	g.OnFetchComplete(ctx, 1, 10, time.Second, nil)
	g.OnFetchSkipped(ctx, 2, "in_flight")
	g.OnMeasure(ctx, "abc", 400, 300, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "size")
	c.OnCacheMiss(ctx, "size")
	c.OnCacheSet(ctx, "size", 32)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.unsplash.com", "/photos")
	h.OnResponse(ctx, "GET", "api.unsplash.com", "/photos", 200, time.Second)
	h.OnError(ctx, "GET", "api.unsplash.com", "/photos", nil)
	h.OnRateLimit(ctx, "api.unsplash.com", 49, 50)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Gallery().(NoopGalleryHooks); !ok {
		t.Error("Gallery() should return NoopGalleryHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customGallery := &testGalleryHooks{}
	SetGalleryHooks(customGallery)
	if Gallery() != customGallery {
		t.Error("SetGalleryHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Gallery().(NoopGalleryHooks); !ok {
		t.Error("Reset() should restore NoopGalleryHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testGalleryHooks{}
	SetGalleryHooks(custom)
	SetGalleryHooks(nil)

	if Gallery() != custom {
		t.Error("SetGalleryHooks(nil) should be ignored")
	}
}

type testGalleryHooks struct{ NoopGalleryHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
