package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/integrations"
)

func mountGallery(t *testing.T, src Source, opts ...Option) *Gallery {
	t.Helper()
	opts = append([]Option{
		WithPerPage(9),
		WithRetryPolicy(1, time.Millisecond),
		WithProber(&sizeProber{size: Size{400, 300}}),
	}, opts...)
	g := New(src, opts...)
	if err := g.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	t.Cleanup(g.Unmount)
	waitIdle(t, g)
	return g
}

func waitIdle(t *testing.T, g *Gallery) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle() error: %v", err)
	}
}

func TestGallery_MountLoadsFirstPage(t *testing.T) {
	src := newFakeSource()
	g := mountGallery(t, src)

	f := g.Frame()
	if f.Items != 9 {
		t.Fatalf("Items = %d, want 9", f.Items)
	}
	if calls := src.Calls(); len(calls) != 1 || calls[0] != 1 {
		t.Errorf("calls = %v, want [1]", calls)
	}
	if f.Title != "Photo Search" || f.Loading || f.Status != "" {
		t.Errorf("frame header = %q loading=%v status=%q", f.Title, f.Loading, f.Status)
	}
	if f.Page != 2 {
		t.Errorf("next page = %d, want 2", f.Page)
	}
	// 9 cells of 150 in 3 columns: 3 rows of 160.
	if f.GridHeight != 480 {
		t.Errorf("GridHeight = %v, want 480", f.GridHeight)
	}
	if f.Cells[0].Key != "p1-0-0" {
		t.Errorf("first key = %q", f.Cells[0].Key)
	}
}

func TestGallery_ScrollDownLoadsNextPage(t *testing.T) {
	src := newFakeSource()
	g := mountGallery(t, src, WithPerPage(30))

	// 30 cells of 150: 10 rows of 160, grid 1600, sentinel at 1630.
	g.Scroll(400)
	waitIdle(t, g)
	if n := len(src.Calls()); n != 1 {
		t.Fatalf("scrolling short of the sentinel loaded pages: %v", src.Calls())
	}

	g.Scroll(1200) // clamped to 1160; sentinel at 470..570 in a 600 viewport
	waitIdle(t, g)
	if calls := src.Calls(); len(calls) != 2 || calls[1] != 2 {
		t.Fatalf("calls = %v, want [1 2]", calls)
	}
	if f := g.Frame(); f.Items != 60 {
		t.Errorf("Items = %d, want 60", f.Items)
	}

	g.Scroll(0)
	waitIdle(t, g)
	if n := len(src.Calls()); n != 2 {
		t.Errorf("scrolling up loaded a page: %v", src.Calls())
	}
}

func TestGallery_FrameIsVirtualized(t *testing.T) {
	g := mountGallery(t, newFakeSource(), WithPerPage(30))
	f := g.Frame()
	if len(f.Cells) == 0 || len(f.Cells) >= 30 {
		t.Errorf("visible cells = %d, want a window of the 30", len(f.Cells))
	}
	for _, c := range f.Cells {
		if c.Y > 600+DefaultOverscan {
			t.Errorf("cell %d at y=%v is outside the window", c.Index, c.Y)
		}
	}
	if all := g.Snapshot(); len(all.Cells) != 30 {
		t.Errorf("Snapshot() cells = %d, want 30", len(all.Cells))
	}
}

func TestGallery_FailureSurfacesRetry(t *testing.T) {
	src := newFakeSource()
	src.setFailure(1, integrations.ErrUnauthorized)
	g := mountGallery(t, src, WithMaxFailures(1))

	f := g.Frame()
	if f.State != "failed" || f.Loading {
		t.Fatalf("state = %s loading = %v", f.State, f.Loading)
	}
	if !strings.Contains(f.Status, "Retry") {
		t.Errorf("Status = %q, want a retry hint", f.Status)
	}
	if f.ErrorCode != string(perrors.ErrCodeUnauthorized) {
		t.Errorf("ErrorCode = %q", f.ErrorCode)
	}
	if g.LoadMore() {
		t.Error("automatic loading should stop after the failure budget")
	}

	src.setFailure(1, nil)
	if !g.Retry() {
		t.Fatal("Retry() refused")
	}
	waitIdle(t, g)
	if f := g.Frame(); f.Items != 9 || f.Error != "" {
		t.Errorf("after retry: items=%d error=%q", f.Items, f.Error)
	}
}

func TestGallery_EndOfResults(t *testing.T) {
	src := newFakeSource()
	src.totalPages = 1
	g := mountGallery(t, src)

	f := g.Frame()
	if f.Status != "End of results" {
		t.Errorf("Status = %q", f.Status)
	}
	if g.LoadMore() {
		t.Error("LoadMore() after the last page")
	}
}

func TestGallery_ReflowsWhenSizesResolve(t *testing.T) {
	prober := &sizeProber{size: Size{400, 300}, gate: make(chan struct{})}
	g := New(newFakeSource(), WithPerPage(3), WithRetryPolicy(1, time.Millisecond), WithProber(prober))
	if err := g.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer g.Unmount()

	waitFor(t, "first page", func() bool { return g.Frame().Items == 3 })
	if h := g.Frame().Cells[0].Height; h != 250 {
		t.Errorf("pending height = %v, want 250", h)
	}

	close(prober.gate)
	waitIdle(t, g)
	f := g.Frame()
	if h := f.Cells[0].Height; h != 150 {
		t.Errorf("resolved height = %v, want 150", h)
	}
	if f.Cells[0].Measured != Resolved {
		t.Errorf("Measured = %v", f.Cells[0].Measured)
	}
}

func TestGallery_Subscribe(t *testing.T) {
	src := newFakeSource()
	g := New(src, WithPerPage(3), WithRetryPolicy(1, time.Millisecond), WithProber(&sizeProber{size: Size{1, 1}}))

	var mu sync.Mutex
	var kinds []EventKind
	unsub := g.Subscribe(func(e Event) {
		mu.Lock()
		kinds = append(kinds, e.Kind)
		mu.Unlock()
	})
	if err := g.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer g.Unmount()
	waitIdle(t, g)

	mu.Lock()
	got := append([]EventKind(nil), kinds...)
	mu.Unlock()
	if len(got) == 0 || got[0] != EventPageLoaded {
		t.Errorf("events = %v, want page_loaded first", got)
	}

	unsub()
	g.LoadMore()
	waitIdle(t, g)
	mu.Lock()
	defer mu.Unlock()
	if len(kinds) != len(got) {
		t.Errorf("events after unsubscribe: %v", kinds[len(got):])
	}
}

func TestGallery_UnmountStopsEverything(t *testing.T) {
	src := newFakeSource()
	src.gate = make(chan struct{})
	src.started = make(chan int, 1)
	g := New(src, WithPerPage(3), WithProber(&sizeProber{size: Size{1, 1}}))

	var mu sync.Mutex
	events := 0
	g.Subscribe(func(Event) {
		mu.Lock()
		events++
		mu.Unlock()
	})
	if err := g.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-src.started

	g.Unmount()
	close(src.gate)

	f := g.Frame()
	if f.Items != 0 || f.State != "closed" {
		t.Errorf("frame after Unmount = items %d state %s", f.Items, f.State)
	}
	mu.Lock()
	if events != 0 {
		t.Errorf("events delivered after Unmount: %d", events)
	}
	mu.Unlock()

	g.Scroll(5000)
	if g.LoadMore() || g.Retry() {
		t.Error("unmounted gallery issued requests")
	}
	if n := len(src.Calls()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
	if err := g.Mount(context.Background()); !perrors.Is(err, perrors.ErrCodeClosed) {
		t.Errorf("remount error = %v, want CLOSED", err)
	}
}

func TestGallery_MountTwice(t *testing.T) {
	g := mountGallery(t, newFakeSource())
	if err := g.Mount(context.Background()); err == nil {
		t.Error("second Mount() should fail")
	}
}

func TestGallery_CanceledParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := SourceFunc(func(ctx context.Context, page, perPage int) (Page, error) {
		<-ctx.Done()
		return Page{}, ctx.Err()
	})
	g := New(src, WithRetryPolicy(1, time.Millisecond))
	if err := g.Mount(ctx); err != nil {
		t.Fatal(err)
	}
	defer g.Unmount()
	cancel()
	waitFor(t, "fetch to end", func() bool { return !g.Frame().Loading })
	if f := g.Frame(); !errors.Is(g.coord.Err(), context.Canceled) || f.Items != 0 {
		t.Errorf("state = %s err = %v", f.State, g.coord.Err())
	}
}
