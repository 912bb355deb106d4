package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photowall/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded 3 pages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// registerHooks routes library events to the debug log.
func registerHooks(l *log.Logger) {
	h := &logHooks{log: l.WithPrefix("hooks")}
	observability.SetGalleryHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
}

// logHooks implements every observability hook interface on top of a logger.
type logHooks struct {
	log *log.Logger
}

func (h *logHooks) OnFetchStart(_ context.Context, page int) {
	h.log.Debug("fetch start", "page", page)
}

func (h *logHooks) OnFetchComplete(_ context.Context, page, count int, d time.Duration, err error) {
	if err != nil {
		h.log.Warn("fetch failed", "page", page, "duration", d.Round(time.Millisecond), "err", err)
		return
	}
	h.log.Debug("fetch complete", "page", page, "count", count, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnFetchSkipped(_ context.Context, page int, reason string) {
	h.log.Debug("fetch skipped", "page", page, "reason", reason)
}

func (h *logHooks) OnMeasure(_ context.Context, id string, width, height int, d time.Duration, err error) {
	if err != nil {
		h.log.Debug("measure failed", "id", id, "err", err)
		return
	}
	h.log.Debug("measured", "id", id, "size", [2]int{width, height}, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.log.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.log.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.log.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h *logHooks) OnRateLimit(_ context.Context, host string, remaining, limit int) {
	if remaining == 0 {
		h.log.Warn("rate limit exhausted", "host", host, "limit", limit)
		return
	}
	h.log.Debug("rate limit", "host", host, "remaining", remaining, "limit", limit)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.log.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.log.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.log.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ observability.GalleryHooks = (*logHooks)(nil)
	_ observability.HTTPHooks    = (*logHooks)(nil)
	_ observability.CacheHooks   = (*logHooks)(nil)
)
