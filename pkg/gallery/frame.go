package gallery

import (
	"fmt"

	perrors "github.com/matzehuels/photowall/pkg/errors"
)

// Title is the heading shown above the grid.
const Title = "Photo Search"

// Status lines.
const (
	StatusLoading   = "Loading…"
	StatusExhausted = "End of results"
)

// FrameCell is a visible cell with the photo it shows.
type FrameCell struct {
	Cell
	Photo    Photo         `json:"photo" yaml:"photo"`
	Measured MeasureStatus `json:"measured" yaml:"measured"`
}

// Box is an axis-aligned rectangle in document coordinates.
type Box struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Frame is everything a surface needs to draw the gallery at one scroll
// position.
type Frame struct {
	Title          string      `json:"title" yaml:"title"`
	ScrollTop      float64     `json:"scroll_top" yaml:"scroll_top"`
	ViewportWidth  float64     `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight float64     `json:"viewport_height" yaml:"viewport_height"`
	GridHeight     float64     `json:"grid_height" yaml:"grid_height"`
	ContentHeight  float64     `json:"content_height" yaml:"content_height"`
	Cells          []FrameCell `json:"cells" yaml:"cells"`
	Sentinel       Box         `json:"sentinel" yaml:"sentinel"`
	Items          int         `json:"items" yaml:"items"`
	Page           int         `json:"next_page" yaml:"next_page"`
	Loading        bool        `json:"loading" yaml:"loading"`
	State          string      `json:"state" yaml:"state"`
	Status         string      `json:"status,omitempty" yaml:"status,omitempty"`
	Error          string      `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorCode      string      `json:"error_code,omitempty" yaml:"error_code,omitempty"`
}

// statusLine renders the text under the grid for a fetch state.
func statusLine(state State, err error, failures, maxFailures int) string {
	switch state {
	case StateLoading:
		return StatusLoading
	case StateExhausted:
		return StatusExhausted
	case StateFailed:
		msg := perrors.UserMessage(err)
		if failures >= maxFailures {
			return fmt.Sprintf("Could not load more photos after %d attempts: %s. Retry to continue.", failures, msg)
		}
		return fmt.Sprintf("Could not load more photos: %s. Scroll or retry to try again.", msg)
	default:
		return ""
	}
}
