package gallery

import (
	"context"
	"strconv"
)

// Size is a width/height pair in layout units (pixels for images).
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

// Photo is one image item returned by a [Source]. Photos are immutable once
// fetched.
type Photo struct {
	ID       string `json:"id" yaml:"id"`
	URL      string `json:"url" yaml:"url"`
	ThumbURL string `json:"thumb_url,omitempty" yaml:"thumb_url,omitempty"`
	Alt      string `json:"alt,omitempty" yaml:"alt,omitempty"`
	Author   string `json:"author,omitempty" yaml:"author,omitempty"`
	Link     string `json:"link,omitempty" yaml:"link,omitempty"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty"`

	// Reported is the size the API claims; zero when absent.
	Reported Size `json:"reported" yaml:"reported"`
}

// ProbeURL is the URL the measurer fetches. Thumbnails share the aspect
// ratio of the original and are much smaller.
func (p Photo) ProbeURL() string {
	if p.ThumbURL != "" {
		return p.ThumbURL
	}
	return p.URL
}

// Key returns the stable presentation key "<id>-<index>".
func Key(id string, index int) string {
	return id + "-" + strconv.Itoa(index)
}

// Page is one page of results.
type Page struct {
	Photos []Photo

	// TotalPages is the number of pages the source reports, or 0 when the
	// source does not know.
	TotalPages int
}

// Source fetches pages of photo metadata. Implementations must honour ctx
// cancellation and should wrap transient failures with
// [httputil.Retryable].
type Source interface {
	Page(ctx context.Context, page, perPage int) (Page, error)
}

// SourceFunc adapts a function to [Source].
type SourceFunc func(ctx context.Context, page, perPage int) (Page, error)

// Page implements Source.
func (f SourceFunc) Page(ctx context.Context, page, perPage int) (Page, error) {
	return f(ctx, page, perPage)
}
