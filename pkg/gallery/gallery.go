package gallery

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/photowall/pkg/cache"
	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/integrations"
)

// EventKind identifies a gallery event.
type EventKind int

const (
	EventPageLoaded EventKind = iota
	EventPageFailed
	EventExhausted
	EventSizeResolved
)

func (k EventKind) String() string {
	switch k {
	case EventPageLoaded:
		return "page_loaded"
	case EventPageFailed:
		return "page_failed"
	case EventExhausted:
		return "exhausted"
	case EventSizeResolved:
		return "size_resolved"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after the gallery state changed.
type Event struct {
	Kind  EventKind
	Page  int
	Count int
	ID    string
	Err   error
}

// Options configures a [Gallery].
type Options struct {
	Fetch   FetchOptions
	Measure MeasureOptions
	Layout  LayoutConfig
	Logger  *log.Logger
}

// Option modifies Options.
type Option func(*Options)

// WithLogger sets the logger passed to every component.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithPerPage sets the page size requested from the source.
func WithPerPage(n int) Option {
	return func(o *Options) { o.Fetch.PerPage = n }
}

// WithMaxPages stops fetching after n pages.
func WithMaxPages(n int) Option {
	return func(o *Options) { o.Fetch.MaxPages = n }
}

// WithDedupe drops photos whose ID was seen on an earlier page.
func WithDedupe(on bool) Option {
	return func(o *Options) { o.Fetch.Dedupe = on }
}

// WithMaxFailures sets how many consecutive failed pages stop automatic
// loading.
func WithMaxFailures(n int) Option {
	return func(o *Options) { o.Fetch.MaxFailures = n }
}

// WithRetryPolicy configures in-request retries of transient errors.
func WithRetryPolicy(attempts int, delay time.Duration) Option {
	return func(o *Options) {
		o.Fetch.RetryAttempts = attempts
		o.Fetch.RetryDelay = delay
	}
}

// WithProber sets how image sizes are read.
func WithProber(p Prober) Option {
	return func(o *Options) { o.Measure.Prober = p }
}

// WithSizeCache stores measured sizes in c under keys built by k.
// A nil keyer uses the default scheme.
func WithSizeCache(c cache.Cache, k cache.Keyer) Option {
	return func(o *Options) {
		o.Measure.Cache = c
		o.Measure.Keyer = k
	}
}

// WithProbeConcurrency bounds simultaneous probes.
func WithProbeConcurrency(n int) Option {
	return func(o *Options) { o.Measure.Concurrency = int64(n) }
}

// WithTrustReported uses API-reported dimensions without probing.
func WithTrustReported(on bool) Option {
	return func(o *Options) { o.Measure.TrustReported = on }
}

// WithLayout sets the masonry geometry.
func WithLayout(cfg LayoutConfig) Option {
	return func(o *Options) { o.Layout = cfg }
}

// Gallery is the top-level component. It owns the collection, cursor and
// loading state through its [Coordinator] and is the only thing that
// mutates them.
//
// A Gallery is created with [New], started with [Gallery.Mount] and torn
// down with [Gallery.Unmount]. It cannot be mounted again.
type Gallery struct {
	source Source
	opts   Options
	log    *log.Logger

	cancel    context.CancelFunc
	coord     *Coordinator
	measurer  *Measurer
	sentinel  *Sentinel
	observer  *Observer
	presenter *Presenter

	mu        sync.Mutex
	mounted   bool
	closed    bool
	scrollTop float64
	reflow    bool
	subs      map[int]func(Event)
	nextSub   int
}

// New creates an unmounted gallery over source.
func New(source Source, opts ...Option) *Gallery {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.Fetch.Logger = o.Logger
	o.Measure.Logger = o.Logger
	o.Layout.SetDefaults()
	if !o.Measure.Default.Valid() {
		o.Measure.Default = Size{Width: int(o.Layout.ColumnWidth), Height: int(o.Layout.DefaultHeight)}
	}
	return &Gallery{
		source: source,
		opts:   o,
		log:    o.Logger,
		subs:   make(map[int]func(Event)),
	}
}

// Mount creates the components, requests the first page and starts
// observing the sentinel. All background work runs under ctx.
func (g *Gallery) Mount(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return perrors.New(perrors.ErrCodeClosed, "gallery was unmounted")
	}
	if g.mounted {
		g.mu.Unlock()
		return perrors.New(perrors.ErrCodeInvalidInput, "gallery is already mounted")
	}
	g.mounted = true

	ctx, g.cancel = context.WithCancel(ctx)
	g.presenter = NewPresenter(g.opts.Layout)
	g.coord = NewCoordinator(ctx, g.source, g.opts.Fetch)
	g.measurer = NewMeasurer(ctx, g.opts.Measure)
	g.sentinel = NewSentinel(g.coord)
	g.observer = NewObserver(g.opts.Layout.ViewportHeight, func(e Entry) { g.sentinel.Observe(e) })
	g.coord.OnUpdate(g.handleUpdate)
	g.measurer.OnResolve(g.handleResolve)
	g.mu.Unlock()

	g.log.Debug("gallery mounted", "per_page", g.coord.opts.PerPage, "first_page", g.coord.opts.FirstPage)
	if _, err := g.coord.LoadPage(g.coord.opts.FirstPage); err != nil {
		return err
	}
	g.observe()
	return nil
}

// Unmount cancels outstanding work, releases the observer and waits for
// background goroutines. No state changes and no events happen afterwards.
func (g *Gallery) Unmount() {
	g.mu.Lock()
	if g.closed || !g.mounted {
		g.closed = true
		g.mu.Unlock()
		return
	}
	g.closed = true
	clear(g.subs)
	g.mu.Unlock()

	g.observer.Close()
	g.sentinel.Close()
	g.coord.Close()
	g.measurer.Close()
	g.cancel()
	g.log.Debug("gallery unmounted")
}

// Subscribe registers fn for events and returns a function that removes it.
// fn runs on background goroutines and must not block for long.
func (g *Gallery) Subscribe(fn func(Event)) (unsubscribe func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

// Scroll moves the viewport to offset, clamped to the scrollable range, and
// lets the sentinel react.
func (g *Gallery) Scroll(offset float64) {
	g.mu.Lock()
	if !g.mounted || g.closed {
		g.mu.Unlock()
		return
	}
	g.layoutLocked()
	maxTop := max(0, ContentHeight(g.presenter.TotalHeight())-g.opts.Layout.ViewportHeight)
	g.scrollTop = min(max(offset, 0), maxTop)
	g.mu.Unlock()

	g.observe()
}

// ScrollBy moves the viewport by delta.
func (g *Gallery) ScrollBy(delta float64) {
	g.mu.Lock()
	top := g.scrollTop
	g.mu.Unlock()
	g.Scroll(top + delta)
}

// ScrollTop returns the current scroll offset.
func (g *Gallery) ScrollTop() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scrollTop
}

// LoadMore asks for the next page directly, bypassing the sentinel.
// It reports whether a request was issued.
func (g *Gallery) LoadMore() bool {
	if !g.active() {
		return false
	}
	return g.coord.LoadNext()
}

// Retry clears the failure budget and requests the page that failed.
func (g *Gallery) Retry() bool {
	if !g.active() {
		return false
	}
	return g.coord.Retry()
}

// Relayout discards all cell positions and lays the grid out again.
func (g *Gallery) Relayout() {
	g.mu.Lock()
	if g.mounted && !g.closed {
		g.reflow = true
		g.layoutLocked()
	}
	g.mu.Unlock()
}

// Idle reports whether no fetch or probe is outstanding. Every collected
// item has been handed to the measurer when it returns true.
func (g *Gallery) Idle() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.mounted || g.closed {
		return true
	}
	loading := g.coord.Loading()
	g.layoutLocked()
	return !loading && g.measurer.Pending() == 0
}

// WaitIdle polls until the gallery is idle or ctx ends.
func (g *Gallery) WaitIdle(ctx context.Context) error {
	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()
	for !g.Idle() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// Frame returns the visible window at the current scroll offset.
func (g *Gallery) Frame() Frame {
	return g.frame(false)
}

// Snapshot is like Frame but includes every placed cell.
func (g *Gallery) Snapshot() Frame {
	return g.frame(true)
}

func (g *Gallery) frame(all bool) Frame {
	g.mu.Lock()
	defer g.mu.Unlock()

	cfg := g.opts.Layout
	f := Frame{
		Title:          Title,
		ScrollTop:      g.scrollTop,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		State:          StateIdle.String(),
	}
	if !g.mounted || g.closed {
		if g.closed {
			f.State = StateClosed.String()
		}
		return f
	}

	items := g.layoutLocked()
	cells := g.presenter.Visible(g.scrollTop)
	if all {
		cells = g.presenter.Cells()
	}
	f.Cells = make([]FrameCell, 0, len(cells))
	for _, c := range cells {
		p := items[c.Index].Photo
		f.Cells = append(f.Cells, FrameCell{Cell: c, Photo: p, Measured: g.measurer.Measure(p).Status})
	}

	grid := g.presenter.TotalHeight()
	f.GridHeight = grid
	f.ContentHeight = ContentHeight(grid)
	f.Sentinel = Box{X: 0, Y: SentinelTop(grid), Width: cfg.ViewportWidth, Height: SentinelHeight}
	f.Items = len(items)
	f.Page = g.coord.Cursor()

	state, err, failures := g.coord.State(), g.coord.Err(), g.coord.Failures()
	f.Loading = state == StateLoading
	f.State = state.String()
	f.Status = statusLine(state, err, failures, g.coord.opts.MaxFailures)
	if state == StateFailed && err != nil {
		f.Error = perrors.UserMessage(err)
		f.ErrorCode = string(errorCode(err))
	}
	return f
}

func errorCode(err error) perrors.Code {
	if code := perrors.GetCode(err); code != "" {
		return code
	}
	return integrations.Classify(err)
}

// layoutLocked measures every item and places the new ones. Placed cells
// whose measured height changed force a full reflow. Caller holds mu.
func (g *Gallery) layoutLocked() []Item {
	items := g.coord.Items()
	cfg := g.opts.Layout
	entries := make([]LayoutEntry, len(items))
	for i, it := range items {
		entries[i] = LayoutEntry{Key: it.Key, Size: g.measurer.Measure(it.Photo).Size}
		if c, ok := g.presenter.Cell(i); ok && c.Height != CellHeight(entries[i].Size, cfg.ColumnWidth, cfg.DefaultHeight) {
			g.reflow = true
		}
	}
	if g.reflow {
		g.presenter.Recompute()
		g.reflow = false
	}
	g.presenter.Layout(entries)
	return items
}

func (g *Gallery) active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mounted && !g.closed
}

// observe feeds the current geometry to the observer.
func (g *Gallery) observe() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	top, grid := g.scrollTop, g.presenter.TotalHeight()
	g.mu.Unlock()
	g.observer.Update(top, grid)
}

func (g *Gallery) handleUpdate(u Update) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.layoutLocked()
	g.mu.Unlock()

	switch {
	case u.Err != nil:
		g.emit(Event{Kind: EventPageFailed, Page: u.Page, Err: u.Err})
	case u.State == StateExhausted:
		g.emit(Event{Kind: EventPageLoaded, Page: u.Page, Count: len(u.Added)})
		g.emit(Event{Kind: EventExhausted, Page: u.Page})
	default:
		g.emit(Event{Kind: EventPageLoaded, Page: u.Page, Count: len(u.Added)})
	}
	g.observe()
}

func (g *Gallery) handleResolve(id string, m Measurement) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.layoutLocked()
	g.mu.Unlock()

	g.emit(Event{Kind: EventSizeResolved, ID: id, Err: m.Err})
	g.observe()
}

func (g *Gallery) emit(e Event) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	subs := make([]func(Event), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
