package render

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/photowall/pkg/gallery"
)

// document is the shared JSON/YAML shape.
type document struct {
	Title    string      `json:"title" yaml:"title"`
	Query    string      `json:"query,omitempty" yaml:"query,omitempty"`
	Viewport viewport    `json:"viewport" yaml:"viewport"`
	Grid     grid        `json:"grid" yaml:"grid"`
	Cells    []cell      `json:"cells" yaml:"cells"`
	Sentinel gallery.Box `json:"sentinel" yaml:"sentinel"`
	Status   status      `json:"status" yaml:"status"`
}

type viewport struct {
	Width     float64 `json:"width" yaml:"width"`
	Height    float64 `json:"height" yaml:"height"`
	ScrollTop float64 `json:"scroll_top" yaml:"scroll_top"`
}

type grid struct {
	Height        float64 `json:"height" yaml:"height"`
	ContentHeight float64 `json:"content_height" yaml:"content_height"`
	Items         int     `json:"items" yaml:"items"`
	NextPage      int     `json:"next_page" yaml:"next_page"`
}

type cell struct {
	Key      string  `json:"key" yaml:"key"`
	Index    int     `json:"index" yaml:"index"`
	Column   int     `json:"column" yaml:"column"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	ID       string  `json:"id" yaml:"id"`
	URL      string  `json:"url" yaml:"url"`
	Alt      string  `json:"alt,omitempty" yaml:"alt,omitempty"`
	Author   string  `json:"author,omitempty" yaml:"author,omitempty"`
	Link     string  `json:"link,omitempty" yaml:"link,omitempty"`
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
	Measured string  `json:"measured" yaml:"measured"`
}

type status struct {
	State     string `json:"state" yaml:"state"`
	Loading   bool   `json:"loading" yaml:"loading"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode string `json:"error_code,omitempty" yaml:"error_code,omitempty"`
}

func newDocument(f gallery.Frame, o Options) document {
	d := document{
		Title: f.Title,
		Query: o.Query,
		Viewport: viewport{
			Width:     f.ViewportWidth,
			Height:    f.ViewportHeight,
			ScrollTop: f.ScrollTop,
		},
		Grid: grid{
			Height:        f.GridHeight,
			ContentHeight: f.ContentHeight,
			Items:         f.Items,
			NextPage:      f.Page,
		},
		Cells:    make([]cell, 0, len(f.Cells)),
		Sentinel: f.Sentinel,
		Status: status{
			State:     f.State,
			Loading:   f.Loading,
			Text:      f.Status,
			Error:     f.Error,
			ErrorCode: f.ErrorCode,
		},
	}
	for _, c := range f.Cells {
		d.Cells = append(d.Cells, cell{
			Key:      c.Key,
			Index:    c.Index,
			Column:   c.Column,
			X:        c.X,
			Y:        c.Y,
			Width:    c.Width,
			Height:   c.Height,
			ID:       c.Photo.ID,
			URL:      c.Photo.URL,
			Alt:      c.Photo.Alt,
			Author:   c.Photo.Author,
			Link:     c.Photo.Link,
			Color:    c.Photo.Color,
			Measured: c.Measured.String(),
		})
	}
	return d
}

// RenderJSON exports the frame as a JSON document, indented unless
// [WithCompact] is given.
func RenderJSON(f gallery.Frame, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)
	d := newDocument(f, o)
	if o.Compact {
		return json.Marshal(d)
	}
	return json.MarshalIndent(d, "", "  ")
}

// RenderYAML exports the frame as YAML.
func RenderYAML(f gallery.Frame, opts ...Option) ([]byte, error) {
	return yaml.Marshal(newDocument(f, applyOptions(opts)))
}
