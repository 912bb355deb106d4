// Package gallery implements an infinitely scrolling masonry photo gallery.
//
// # Components
//
// A [Gallery] wires four parts together:
//
//   - [Coordinator] fetches pages from a [Source] and appends them to an
//     append-only [Collection]. At most one fetch is in flight; further
//     triggers are refused while loading.
//   - [Observer] and [Sentinel] watch a block under the grid. When the block
//     becomes fully visible while the user scrolls down, the sentinel asks
//     the coordinator for the next page.
//   - [Measurer] resolves the natural size of each photo in the background.
//     Until a size is known it answers with a default, so layout never waits.
//   - [Presenter] places cells into the shortest of three 200-unit columns
//     and returns only the cells near the viewport.
//
// Surfaces (terminal, HTTP, exporters) read a [Frame] from the gallery after
// each scroll or [Event].
//
// # Usage
//
//	g := gallery.New(client.Source(""), gallery.WithLogger(logger))
//	if err := g.Mount(ctx); err != nil {
//	    return err
//	}
//	defer g.Unmount()
//
//	g.ScrollBy(300)
//	frame := g.Frame()
//
// # Teardown
//
// [Gallery.Unmount] cancels outstanding requests and probes and waits for
// their goroutines. After it returns no event is delivered and no state
// changes.
package gallery
