package gallery

import "sync"

// Threshold is the visible ratio at which the sentinel counts as in view.
const Threshold = 1.0

// Entry is one visibility observation of the sentinel block.
type Entry struct {
	// Y is the top edge of the sentinel relative to the viewport.
	Y float64
	// Ratio is the visible fraction of the sentinel, 0 to 1.
	Ratio float64
}

// Loader is what the sentinel triggers. [Coordinator] implements it.
type Loader interface {
	LoadNext() bool
}

// Sentinel turns visibility entries into page loads. A load is requested
// when the sentinel is fully visible and has moved up the viewport since the
// previous entry, i.e. the user scrolled down.
type Sentinel struct {
	mu       sync.Mutex
	loader   Loader
	prevY    float64
	hasPrev  bool
	triggers int
}

// NewSentinel returns a sentinel that triggers loader.
func NewSentinel(loader Loader) *Sentinel {
	return &Sentinel{loader: loader}
}

// Observe handles one entry and reports whether a load was requested.
// The reference point is updated whether or not it triggers.
func (s *Sentinel) Observe(e Entry) bool {
	s.mu.Lock()
	down := s.hasPrev && e.Y < s.prevY
	s.prevY, s.hasPrev = e.Y, true
	loader := s.loader
	if !down || e.Ratio < Threshold || loader == nil {
		s.mu.Unlock()
		return false
	}
	s.triggers++
	s.mu.Unlock()

	return loader.LoadNext()
}

// Triggers returns how many times the sentinel fired.
func (s *Sentinel) Triggers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggers
}

// Close detaches the loader. Later entries are ignored.
func (s *Sentinel) Close() {
	s.mu.Lock()
	s.loader = nil
	s.mu.Unlock()
}
