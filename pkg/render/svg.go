package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/photowall/pkg/gallery"
)

const (
	headerHeight     = 50.0
	titleFontSize    = 22.0
	statusFontSize   = 14.0
	placeholderColor = "#d8d8d8"
	failedColor      = "#f2d7d5"
)

// RenderSVG draws the frame. By default the SVG covers the viewport window
// at the frame's scroll offset; [WithFullPage] draws the whole content.
func RenderSVG(f gallery.Frame, opts ...Option) []byte {
	o := applyOptions(opts)

	top, height := f.ScrollTop, f.ViewportHeight
	if o.FullPage {
		top, height = 0, f.ContentHeight
	}
	width := f.ViewportWidth
	total := height + headerHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, total, width, total)
	buf.WriteString(`  <rect width="100%" height="100%" fill="#ffffff"/>` + "\n")
	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
		width/2, headerHeight*0.65, titleFontSize, escapeXML(f.Title))

	fmt.Fprintf(&buf, `  <g transform="translate(0 %.1f)">`+"\n", headerHeight-top)
	for _, c := range f.Cells {
		renderCell(&buf, c, o.Images)
	}
	renderSentinel(&buf, f)
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderCell(buf *bytes.Buffer, c gallery.FrameCell, images bool) {
	fill := c.Photo.Color
	if fill == "" {
		fill = placeholderColor
	}
	if c.Measured == gallery.Failed {
		fill = failedColor
	}
	wrapLink(buf, c.Photo.Link, func() {
		fmt.Fprintf(buf, `    <g id="cell-%s">`, escapeXML(c.Key))
		if c.Photo.Alt != "" {
			fmt.Fprintf(buf, `<title>%s</title>`, escapeXML(c.Photo.Alt))
		}
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			c.X, c.Y, c.Width, c.Height, escapeXML(fill))
		if images && c.Photo.URL != "" {
			fmt.Fprintf(buf, `<image x="%.1f" y="%.1f" width="%.1f" height="%.1f" href="%s" preserveAspectRatio="xMidYMid slice"/>`,
				c.X, c.Y, c.Width, c.Height, escapeXML(c.Photo.URL))
		}
		buf.WriteString("</g>\n")
	})
}

func renderSentinel(buf *bytes.Buffer, f gallery.Frame) {
	s := f.Sentinel
	fmt.Fprintf(buf, `    <rect id="sentinel" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none"/>`+"\n",
		s.X, s.Y, s.Width, s.Height)
	if f.Status == "" {
		return
	}
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" text-anchor="middle">%s</text>`+"\n",
		s.X+s.Width/2, s.Y+s.Height/2, statusFontSize, escapeXML(f.Status))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func wrapLink(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `  <a href="%s" target="_blank">`, escapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}
