// Package render turns gallery frames into files and HTTP bodies.
//
// # Formats
//
//   - JSON ([RenderJSON]): cells, sentinel and status, for the browser
//     front-end and for `photowall layout -f json`
//   - YAML ([RenderYAML]): the same document, easier to read in a terminal
//   - SVG ([RenderSVG]): the masonry grid as rectangles (optionally with the
//     images linked in), the sentinel block and its status line
//
// All renderers take a [gallery.Frame] and options, never a live gallery,
// so they are safe to call concurrently.
//
//	frame := g.Frame()
//	svg := render.RenderSVG(frame, render.WithImages(), render.WithFullPage())
//
// [Render] dispatches on a format name for callers that take the format
// from a flag.
package render
