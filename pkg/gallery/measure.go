package gallery

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/photowall/pkg/buildinfo"
	"github.com/matzehuels/photowall/pkg/cache"
	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/integrations"
	"github.com/matzehuels/photowall/pkg/observability"
)

// DefaultProbeConcurrency bounds simultaneous image probes.
const DefaultProbeConcurrency = 4

// maxProbeBytes is how much of an image is requested to read its header.
const maxProbeBytes = 512 << 10

// MeasureStatus tells whether a [Measurement] is final.
type MeasureStatus int

const (
	// Pending: the default size; a probe is scheduled or running.
	Pending MeasureStatus = iota
	// Resolved: the natural size of the image.
	Resolved
	// Failed: the probe failed; the default size is final.
	Failed
)

func (s MeasureStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s MeasureStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Measurement is the best known size of a photo.
type Measurement struct {
	Size   Size
	Status MeasureStatus
	Err    error
}

// Prober reads the natural size of an image.
type Prober interface {
	Probe(ctx context.Context, url string) (Size, error)
}

// ProberFunc adapts a function to [Prober].
type ProberFunc func(ctx context.Context, url string) (Size, error)

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, url string) (Size, error) { return f(ctx, url) }

// HTTPProber downloads the head of an image and decodes only its header.
// JPEG, PNG, GIF and WebP are supported.
type HTTPProber struct {
	client *integrations.Client
}

// NewHTTPProber returns a prober using its own HTTP client.
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{client: integrations.NewClient(map[string]string{
		"User-Agent": buildinfo.UserAgent(),
	})}
}

// WithHTTPClient replaces the transport (tests pass an httptest client).
func (p *HTTPProber) WithHTTPClient(c *http.Client) *HTTPProber {
	p.client.SetHTTPClient(c)
	return p
}

// Probe implements Prober.
func (p *HTTPProber) Probe(ctx context.Context, url string) (Size, error) {
	resp, err := p.client.Do(ctx, http.MethodGet, url, map[string]string{
		"Range": fmt.Sprintf("bytes=0-%d", maxProbeBytes-1),
	})
	if err != nil {
		return Size{}, err
	}
	defer resp.Body.Close()

	cfg, _, err := image.DecodeConfig(io.LimitReader(resp.Body, maxProbeBytes))
	if err != nil {
		return Size{}, fmt.Errorf("decode image header: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// MeasureOptions configures a [Measurer]. Zero fields take defaults.
type MeasureOptions struct {
	// Default is returned until a size resolves.
	Default Size

	Concurrency int64

	// TrustReported resolves photos with API-reported dimensions without
	// probing them.
	TrustReported bool

	Prober Prober
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// SetDefaults fills zero fields.
func (o *MeasureOptions) SetDefaults() {
	if !o.Default.Valid() {
		o.Default = Size{Width: int(DefaultColumnWidth), Height: int(DefaultCellHeight)}
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultProbeConcurrency
	}
	if o.Prober == nil {
		o.Prober = NewHTTPProber()
	}
	if o.Cache == nil {
		o.Cache = cache.NewMemoryCache()
	}
	if o.Keyer == nil {
		o.Keyer = cache.NewDefaultKeyer()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Measurer resolves photo sizes in the background. Measure never blocks;
// it returns the default size until the probe for that photo finishes.
//
// Results are kept for the lifetime of the Measurer, so measuring the same
// id twice yields the same answer once resolved.
type Measurer struct {
	opts MeasureOptions
	log  *log.Logger
	sem  *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	results   map[string]Measurement
	pending   map[string]struct{}
	onResolve func(id string, m Measurement)
	closed    bool
}

// NewMeasurer creates a measurer whose probes run under ctx.
func NewMeasurer(ctx context.Context, opts MeasureOptions) *Measurer {
	opts.SetDefaults()
	ctx, cancel := context.WithCancel(ctx)
	return &Measurer{
		opts:    opts,
		log:     opts.Logger,
		sem:     semaphore.NewWeighted(opts.Concurrency),
		ctx:     ctx,
		cancel:  cancel,
		results: make(map[string]Measurement),
		pending: make(map[string]struct{}),
	}
}

// OnResolve registers the function called once per id when its measurement
// becomes final. It runs on the probe goroutine.
func (m *Measurer) OnResolve(fn func(id string, res Measurement)) {
	m.mu.Lock()
	m.onResolve = fn
	m.mu.Unlock()
}

// Measure returns the best known size of p and schedules a probe if none is
// known yet.
func (m *Measurer) Measure(p Photo) Measurement {
	m.mu.Lock()
	defer m.mu.Unlock()

	if res, ok := m.results[p.ID]; ok {
		return res
	}
	if m.opts.TrustReported && p.Reported.Valid() {
		res := Measurement{Size: p.Reported, Status: Resolved}
		m.results[p.ID] = res
		return res
	}
	pending := Measurement{Size: m.opts.Default, Status: Pending}
	if m.closed {
		return pending
	}
	if _, ok := m.pending[p.ID]; !ok {
		m.pending[p.ID] = struct{}{}
		m.wg.Add(1)
		go m.resolve(p)
	}
	return pending
}

// Pending returns the number of scheduled or running probes.
func (m *Measurer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *Measurer) resolve(p Photo) {
	defer m.wg.Done()

	start := time.Now()
	size, err := m.lookup(p)
	if m.ctx.Err() != nil {
		return
	}
	observability.Gallery().OnMeasure(m.ctx, p.ID, size.Width, size.Height, time.Since(start), err)

	res := Measurement{Size: size, Status: Resolved}
	if err != nil {
		m.log.Debug("measure failed", "id", p.ID, "err", err)
		res = Measurement{
			Size:   m.opts.Default,
			Status: Failed,
			Err:    perrors.Wrap(perrors.ErrCodeImageLoad, err, "measure %s", p.ID),
		}
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	delete(m.pending, p.ID)
	m.results[p.ID] = res
	fn := m.onResolve
	m.mu.Unlock()

	if fn != nil {
		fn(p.ID, res)
	}
}

// lookup consults the size cache before probing.
func (m *Measurer) lookup(p Photo) (Size, error) {
	key := m.opts.Keyer.SizeKey(p.ID)
	if data, ok, err := m.opts.Cache.Get(m.ctx, key); err == nil && ok {
		var s Size
		if json.Unmarshal(data, &s) == nil && s.Valid() {
			observability.Cache().OnCacheHit(m.ctx, "size")
			return s, nil
		}
	}
	observability.Cache().OnCacheMiss(m.ctx, "size")

	if err := m.sem.Acquire(m.ctx, 1); err != nil {
		return Size{}, err
	}
	defer m.sem.Release(1)

	s, err := m.opts.Prober.Probe(m.ctx, p.ProbeURL())
	if err != nil {
		return Size{}, err
	}
	if !s.Valid() {
		return Size{}, fmt.Errorf("degenerate size %dx%d", s.Width, s.Height)
	}
	if data, err := json.Marshal(s); err == nil {
		if err := m.opts.Cache.Set(m.ctx, key, data, cache.TTLSize); err == nil {
			observability.Cache().OnCacheSet(m.ctx, "size", len(data))
		}
	}
	return s, nil
}

// Wait blocks until no probe is running.
func (m *Measurer) Wait() {
	m.wg.Wait()
}

// Close cancels outstanding probes and waits for them. No OnResolve call
// happens after Close returns.
func (m *Measurer) Close() {
	m.mu.Lock()
	m.closed = true
	m.onResolve = nil
	m.mu.Unlock()
	m.cancel()
	m.wg.Wait()
}
