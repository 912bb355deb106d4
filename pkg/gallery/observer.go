package gallery

import "sync"

// Sentinel block geometry under the grid.
const (
	SentinelHeight = 100.0
	SentinelMargin = 30.0
)

// Observer reports sentinel visibility for a scrollable viewport the way a
// browser intersection observer with a single threshold does: once when
// observation starts and then each time the sentinel crosses full
// visibility in either direction.
type Observer struct {
	mu       sync.Mutex
	viewport float64
	sink     func(Entry)
	started  bool
	full     bool
	closed   bool
}

// NewObserver observes a viewport of the given height and delivers entries
// to sink.
func NewObserver(viewportHeight float64, sink func(Entry)) *Observer {
	return &Observer{viewport: viewportHeight, sink: sink}
}

// SentinelTop returns the document Y of the sentinel block for a grid of
// the given height.
func SentinelTop(gridHeight float64) float64 {
	return gridHeight + SentinelMargin
}

// ContentHeight is the scrollable document height: grid plus the sentinel
// block and its margins.
func ContentHeight(gridHeight float64) float64 {
	return gridHeight + 2*SentinelMargin + SentinelHeight
}

// Measure computes the entry for a scroll offset without delivering it.
func (o *Observer) Measure(scrollTop, gridHeight float64) Entry {
	y := SentinelTop(gridHeight) - scrollTop
	top := max(y, 0)
	bottom := min(y+SentinelHeight, o.viewport)
	ratio := 0.0
	if bottom > top {
		ratio = (bottom - top) / SentinelHeight
	}
	return Entry{Y: y, Ratio: min(ratio, 1)}
}

// Update recomputes visibility after a scroll or a change in grid height
// and delivers an entry if a threshold was crossed. It reports whether an
// entry was delivered.
func (o *Observer) Update(scrollTop, gridHeight float64) bool {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}
	e := o.Measure(scrollTop, gridHeight)
	full := e.Ratio >= Threshold
	if o.started && full == o.full {
		o.mu.Unlock()
		return false
	}
	o.started, o.full = true, full
	sink := o.sink
	o.mu.Unlock()

	if sink != nil {
		sink(e)
	}
	return true
}

// Close stops observation.
func (o *Observer) Close() {
	o.mu.Lock()
	o.closed = true
	o.sink = nil
	o.mu.Unlock()
}
