package render

import (
	"fmt"
	"strings"

	"github.com/matzehuels/photowall/pkg/gallery"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatSVG  = "svg"
)

// Formats lists the supported format names.
var Formats = []string{FormatJSON, FormatYAML, FormatSVG}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	return "." + format
}

// Options collects the settings shared by all renderers.
type Options struct {
	Query    string
	Images   bool
	FullPage bool
	Compact  bool
}

// Option configures rendering.
type Option func(*Options)

// WithQuery records the search query in the document.
func WithQuery(q string) Option { return func(o *Options) { o.Query = q } }

// WithImages links the photos into SVG output instead of drawing colour
// placeholders only.
func WithImages() Option { return func(o *Options) { o.Images = true } }

// WithFullPage draws the whole content instead of the viewport window.
func WithFullPage() Option { return func(o *Options) { o.FullPage = true } }

// WithCompact disables JSON indentation.
func WithCompact() Option { return func(o *Options) { o.Compact = true } }

func applyOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render renders frame in the named format.
func Render(format string, frame gallery.Frame, opts ...Option) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RenderJSON(frame, opts...)
	case FormatYAML:
		return RenderYAML(frame, opts...)
	case FormatSVG:
		return RenderSVG(frame, opts...), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
