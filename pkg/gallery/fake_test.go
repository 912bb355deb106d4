package gallery

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeSource serves generated pages. When gate is non-nil every request
// blocks until a value is received from it.
type fakeSource struct {
	mu         sync.Mutex
	perPage    int
	totalPages int
	lastFull   int // pages after this one are empty; 0 = unlimited
	calls      []int
	failures   map[int]error
	gate       chan struct{}
	started    chan int
}

func newFakeSource() *fakeSource {
	return &fakeSource{failures: make(map[int]error)}
}

func (s *fakeSource) Page(ctx context.Context, page, perPage int) (Page, error) {
	s.mu.Lock()
	s.calls = append(s.calls, page)
	gate, started := s.gate, s.started
	err := s.failures[page]
	total, lastFull := s.totalPages, s.lastFull
	s.mu.Unlock()

	if started != nil {
		started <- page
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Page{}, ctx.Err()
		}
	}
	if err != nil {
		return Page{}, err
	}
	if lastFull > 0 && page > lastFull {
		return Page{TotalPages: total}, nil
	}
	return Page{Photos: photosFor(page, perPage), TotalPages: total}, nil
}

func (s *fakeSource) setFailure(page int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, page)
		return
	}
	s.failures[page] = err
}

func (s *fakeSource) Calls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.calls...)
}

func photosFor(page, n int) []Photo {
	out := make([]Photo, n)
	for i := range out {
		id := fmt.Sprintf("p%d-%d", page, i)
		out[i] = Photo{
			ID:       id,
			URL:      "https://img.test/" + id,
			Alt:      "photo " + id,
			Reported: Size{Width: 400, Height: 300 + 100*(i%3)},
		}
	}
	return out
}

// sizeProber answers probes from a fixed size, counting calls.
type sizeProber struct {
	mu    sync.Mutex
	size  Size
	err   error
	calls int
	gate  chan struct{}
}

func (p *sizeProber) Probe(ctx context.Context, url string) (Size, error) {
	p.mu.Lock()
	p.calls++
	gate := p.gate
	p.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Size{}, ctx.Err()
		}
	}
	return p.size, p.err
}

func (p *sizeProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}
