package gallery

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/httputil"
	"github.com/matzehuels/photowall/pkg/observability"
)

// Fetch defaults.
const (
	DefaultPerPage       = 10
	DefaultFirstPage     = 1
	DefaultMaxFailures   = 3
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// Skip reasons passed to [observability.GalleryHooks.OnFetchSkipped].
const (
	SkipInFlight  = "in_flight"
	SkipExhausted = "exhausted"
	SkipClosed    = "closed"
	SkipFailures  = "failure_budget"
)

// State is the fetch state of a [Coordinator].
type State int

const (
	StateIdle State = iota
	StateLoading
	StateFailed
	StateExhausted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateExhausted:
		return "exhausted"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// FetchOptions configures a [Coordinator]. Zero fields take defaults.
type FetchOptions struct {
	PerPage   int
	FirstPage int

	// MaxFailures is the number of consecutive failed pages after which
	// automatic triggers are ignored until Retry is called.
	MaxFailures int

	// MaxPages caps the number of pages fetched; 0 means unlimited.
	MaxPages int

	// Dedupe skips photos whose ID was already collected.
	Dedupe bool

	// RetryAttempts and RetryDelay configure in-request backoff for
	// retryable source errors.
	RetryAttempts int
	RetryDelay    time.Duration

	Logger *log.Logger
}

// SetDefaults fills zero fields.
func (o *FetchOptions) SetDefaults() {
	if o.PerPage <= 0 {
		o.PerPage = DefaultPerPage
	}
	if o.FirstPage <= 0 {
		o.FirstPage = DefaultFirstPage
	}
	if o.MaxFailures <= 0 {
		o.MaxFailures = DefaultMaxFailures
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = DefaultRetryAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Update describes the outcome of one fetch. Added holds the items appended
// by this page (empty on failure).
type Update struct {
	Page  int
	Added []Item
	State State
	Err   error
}

// Coordinator fetches pages from a [Source] and appends them to a
// [Collection]. At most one fetch is in flight at a time.
//
// All methods are safe for concurrent use. Listener callbacks run on the
// fetch goroutine and must not call Close.
type Coordinator struct {
	source Source
	opts   FetchOptions
	log    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	coll       *Collection
	cursor     int
	state      State
	inFlight   int
	err        error
	failures   int
	loaded     int
	totalPages int
	listener   func(Update)
}

// NewCoordinator creates a coordinator whose requests run under ctx.
func NewCoordinator(ctx context.Context, source Source, opts FetchOptions) *Coordinator {
	opts.SetDefaults()
	ctx, cancel := context.WithCancel(ctx)
	return &Coordinator{
		source: source,
		opts:   opts,
		log:    opts.Logger,
		ctx:    ctx,
		cancel: cancel,
		coll:   NewCollection(opts.Dedupe),
		cursor: opts.FirstPage,
		state:  StateIdle,
	}
}

// OnUpdate registers the function called after each completed fetch.
func (c *Coordinator) OnUpdate(fn func(Update)) {
	c.mu.Lock()
	c.listener = fn
	c.mu.Unlock()
}

// LoadPage starts fetching page in the background. It reports whether a
// request was issued: false when a fetch is already in flight, the source
// is exhausted, or the coordinator is closed. Negative pages are rejected.
func (c *Coordinator) LoadPage(page int) (bool, error) {
	if err := perrors.ValidatePage(page); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dispatchLocked(page), nil
}

// LoadNext fetches the page under the cursor. It is the trigger used by the
// scroll sentinel, so it also refuses once MaxFailures consecutive pages
// have failed.
func (c *Coordinator) LoadNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateFailed && c.failures >= c.opts.MaxFailures {
		observability.Gallery().OnFetchSkipped(c.ctx, c.cursor, SkipFailures)
		return false
	}
	return c.dispatchLocked(c.cursor)
}

// Retry clears the failure budget and fetches the page under the cursor.
func (c *Coordinator) Retry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateFailed {
		c.failures = 0
	}
	return c.dispatchLocked(c.cursor)
}

func (c *Coordinator) dispatchLocked(page int) bool {
	var reason string
	switch {
	case c.state == StateClosed:
		reason = SkipClosed
	case c.state == StateLoading:
		reason = SkipInFlight
	case c.state == StateExhausted:
		reason = SkipExhausted
	}
	if reason != "" {
		c.log.Debug("fetch skipped", "page", page, "reason", reason)
		observability.Gallery().OnFetchSkipped(c.ctx, page, reason)
		return false
	}

	c.state = StateLoading
	c.inFlight = page
	c.wg.Add(1)
	go c.fetch(page)
	return true
}

func (c *Coordinator) fetch(page int) {
	defer c.wg.Done()

	hooks := observability.Gallery()
	hooks.OnFetchStart(c.ctx, page)
	c.log.Debug("fetching page", "page", page, "per_page", c.opts.PerPage)
	start := time.Now()

	var res Page
	err := httputil.Retry(c.ctx, c.opts.RetryAttempts, c.opts.RetryDelay, func() error {
		var err error
		res, err = c.source.Page(c.ctx, page, c.opts.PerPage)
		return err
	})
	hooks.OnFetchComplete(c.ctx, page, len(res.Photos), time.Since(start), err)

	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	upd := c.applyLocked(page, res, err)
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(upd)
	}
}

func (c *Coordinator) applyLocked(page int, res Page, err error) Update {
	if err != nil {
		c.failures++
		c.err = err
		c.state = StateFailed
		c.log.Warn("fetch failed", "page", page, "failures", c.failures, "err", err)
		return Update{Page: page, State: c.state, Err: err}
	}

	added := c.coll.Append(res.Photos)
	c.failures = 0
	c.err = nil
	c.loaded++
	c.cursor = max(c.cursor, page+1)
	if res.TotalPages > 0 {
		c.totalPages = res.TotalPages
	}

	c.state = StateIdle
	switch {
	case len(res.Photos) < c.opts.PerPage:
		c.state = StateExhausted
	case c.totalPages > 0 && page >= c.totalPages:
		c.state = StateExhausted
	case c.opts.MaxPages > 0 && c.loaded >= c.opts.MaxPages:
		c.state = StateExhausted
	}
	c.log.Debug("page loaded", "page", page, "added", len(added), "total", c.coll.Len(), "state", c.state)
	return Update{Page: page, Added: added, State: c.state}
}

// Loading reports whether a fetch is outstanding.
func (c *Coordinator) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateLoading
}

// State returns the current fetch state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last failed fetch, or nil.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Failures returns the number of consecutive failed fetches.
func (c *Coordinator) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// Cursor returns the next page LoadNext will request.
func (c *Coordinator) Cursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Len returns the number of collected items.
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coll.Len()
}

// Items returns a copy of the collected items.
func (c *Coordinator) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coll.Items()
}

// Wait blocks until no fetch goroutine is running.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close cancels outstanding requests and waits for them to finish. Results
// that arrive afterwards are dropped and no listener is called once Close
// has returned.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.state = StateClosed
	c.listener = nil
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}
