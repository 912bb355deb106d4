package gallery

import "math"

// Layout defaults.
const (
	DefaultColumnCount    = 3
	DefaultColumnWidth    = 200.0
	DefaultSpacer         = 10.0
	DefaultCellHeight     = 250.0
	DefaultViewportWidth  = 800.0
	DefaultViewportHeight = 600.0
	DefaultOverscan       = 100.0
)

// LayoutConfig is the masonry geometry. Zero fields take defaults.
type LayoutConfig struct {
	ColumnCount    int     `json:"column_count" yaml:"column_count" toml:"column_count"`
	ColumnWidth    float64 `json:"column_width" yaml:"column_width" toml:"column_width"`
	Spacer         float64 `json:"spacer" yaml:"spacer" toml:"spacer"` // negative means no gap
	DefaultHeight  float64 `json:"default_height" yaml:"default_height" toml:"default_height"`
	ViewportWidth  float64 `json:"viewport_width" yaml:"viewport_width" toml:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height" yaml:"viewport_height" toml:"viewport_height"`
	Overscan       float64 `json:"overscan" yaml:"overscan" toml:"overscan"`
}

// SetDefaults fills zero fields.
func (c *LayoutConfig) SetDefaults() {
	if c.ColumnCount <= 0 {
		c.ColumnCount = DefaultColumnCount
	}
	if c.ColumnWidth <= 0 {
		c.ColumnWidth = DefaultColumnWidth
	}
	if c.Spacer < 0 {
		c.Spacer = 0
	} else if c.Spacer == 0 {
		c.Spacer = DefaultSpacer
	}
	if c.DefaultHeight <= 0 {
		c.DefaultHeight = DefaultCellHeight
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = DefaultViewportWidth
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = DefaultViewportHeight
	}
	if c.Overscan <= 0 {
		c.Overscan = DefaultOverscan
	}
}

// CellHeight scales size to columnWidth, keeping its aspect ratio. It falls
// back to fallback when the ratio is undefined, infinite or not positive.
func CellHeight(size Size, columnWidth, fallback float64) float64 {
	h := columnWidth * (float64(size.Height) / float64(size.Width))
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return fallback
	}
	return h
}

// MeasurementCache stores cell geometry by index so repeated layout passes
// don't recompute unchanged cells. Widths are fixed to the default width.
type MeasurementCache struct {
	defaultWidth  float64
	defaultHeight float64
	heights       map[int]float64
}

// NewMeasurementCache creates an empty cache.
func NewMeasurementCache(defaultWidth, defaultHeight float64) *MeasurementCache {
	return &MeasurementCache{
		defaultWidth:  defaultWidth,
		defaultHeight: defaultHeight,
		heights:       make(map[int]float64),
	}
}

// Has reports whether index was measured.
func (c *MeasurementCache) Has(index int) bool {
	_, ok := c.heights[index]
	return ok
}

// Set stores the height of index.
func (c *MeasurementCache) Set(index int, height float64) {
	c.heights[index] = height
}

// Width returns the fixed cell width.
func (c *MeasurementCache) Width(int) float64 { return c.defaultWidth }

// Height returns the stored height of index, or the default height.
func (c *MeasurementCache) Height(index int) float64 {
	if h, ok := c.heights[index]; ok {
		return h
	}
	return c.defaultHeight
}

// Clear drops every entry.
func (c *MeasurementCache) Clear() {
	clear(c.heights)
}

// LayoutEntry is the input for one cell.
type LayoutEntry struct {
	Key  string
	Size Size
}

// Cell is a positioned cell.
type Cell struct {
	Index  int     `json:"index" yaml:"index"`
	Key    string  `json:"key" yaml:"key"`
	Column int     `json:"column" yaml:"column"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Bottom returns the Y of the cell's lower edge.
func (c Cell) Bottom() float64 { return c.Y + c.Height }

// Presenter places cells into columns, always into the currently shortest
// column (lowest index on ties), and answers which cells intersect a scroll
// window.
//
// Presenter is not safe for concurrent use; [Gallery] serialises access.
type Presenter struct {
	cfg     LayoutConfig
	cache   *MeasurementCache
	cells   []Cell
	columns []float64
}

// NewPresenter creates an empty presenter.
func NewPresenter(cfg LayoutConfig) *Presenter {
	cfg.SetDefaults()
	return &Presenter{
		cfg:     cfg,
		cache:   NewMeasurementCache(cfg.ColumnWidth, cfg.DefaultHeight),
		columns: make([]float64, cfg.ColumnCount),
	}
}

// Config returns the effective geometry.
func (p *Presenter) Config() LayoutConfig { return p.cfg }

// Layout positions entries beyond those already placed. Cells placed by an
// earlier pass keep their position until [Presenter.Recompute].
func (p *Presenter) Layout(entries []LayoutEntry) {
	for i := len(p.cells); i < len(entries); i++ {
		if !p.cache.Has(i) {
			p.cache.Set(i, CellHeight(entries[i].Size, p.cfg.ColumnWidth, p.cfg.DefaultHeight))
		}
		col := p.shortestColumn()
		cell := Cell{
			Index:  i,
			Key:    entries[i].Key,
			Column: col,
			X:      float64(col) * (p.cfg.ColumnWidth + p.cfg.Spacer),
			Y:      p.columns[col],
			Width:  p.cache.Width(i),
			Height: p.cache.Height(i),
		}
		p.columns[col] += cell.Height + p.cfg.Spacer
		p.cells = append(p.cells, cell)
	}
}

func (p *Presenter) shortestColumn() int {
	best := 0
	for i, h := range p.columns {
		if h < p.columns[best] {
			best = i
		}
	}
	return best
}

// Recompute drops all positions and cached measurements so the next
// Layout reflows every cell.
func (p *Presenter) Recompute() {
	p.cache.Clear()
	p.cells = p.cells[:0]
	clear(p.columns)
}

// Len returns the number of placed cells.
func (p *Presenter) Len() int { return len(p.cells) }

// Cells returns all placed cells.
func (p *Presenter) Cells() []Cell {
	out := make([]Cell, len(p.cells))
	copy(out, p.cells)
	return out
}

// Cell returns the placed cell at index.
func (p *Presenter) Cell(index int) (Cell, bool) {
	if index < 0 || index >= len(p.cells) {
		return Cell{}, false
	}
	return p.cells[index], true
}

// ColumnHeights returns the running height of each column, spacer included.
func (p *Presenter) ColumnHeights() []float64 {
	out := make([]float64, len(p.columns))
	copy(out, p.columns)
	return out
}

// TotalHeight is the height of the tallest column.
func (p *Presenter) TotalHeight() float64 {
	var h float64
	for _, c := range p.columns {
		h = max(h, c)
	}
	return h
}

// Visible returns the cells intersecting the viewport at scrollTop, widened
// by the overscan on both sides, in index order.
func (p *Presenter) Visible(scrollTop float64) []Cell {
	top := scrollTop - p.cfg.Overscan
	bottom := scrollTop + p.cfg.ViewportHeight + p.cfg.Overscan
	var out []Cell
	for _, c := range p.cells {
		if c.Bottom() > top && c.Y < bottom {
			out = append(out, c)
		}
	}
	return out
}
