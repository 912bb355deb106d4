package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photowall/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  log.Level
		want  bool
	}{
		{log.InfoLevel, log.InfoLevel, true},
		{log.InfoLevel, log.DebugLevel, false},
		{log.InfoLevel, log.WarnLevel, true},
		{log.DebugLevel, log.DebugLevel, true},
		{log.WarnLevel, log.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.emit.String(), func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf, tt.level).Log(tt.emit, "page loaded")
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("loaded 3 pages")

	if !strings.Contains(buf.String(), "loaded 3 pages") {
		t.Errorf("progress output %q should contain message", buf.String())
	}
}

func TestRegisterHooks(t *testing.T) {
	defer observability.Reset()

	var buf bytes.Buffer
	registerHooks(newLogger(&buf, log.DebugLevel))

	ctx := context.Background()
	observability.Gallery().OnFetchStart(ctx, 2)
	observability.Gallery().OnFetchComplete(ctx, 2, 0, time.Millisecond, errors.New("boom"))
	observability.HTTP().OnRateLimit(ctx, "api.unsplash.com", 0, 50)
	observability.Cache().OnCacheHit(ctx, "size")

	out := buf.String()
	for _, want := range []string{"fetch start", "fetch failed", "boom", "rate limit exhausted", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}
}
