// Package pkg provides the core libraries for Photowall, an infinite-scroll
// masonry photo wall over the Unsplash API.
//
// # Overview
//
// Photowall pages through a photo search service and lays the results out in
// a fixed number of columns, always placing the next photo into the shortest
// column. A sentinel block under the grid requests the next page when the
// user scrolls it fully into view. The pkg directory is organized into:
//
//  1. [gallery] - Domain logic (fetch coordinator, sentinel, size measurement,
//     masonry layout) composed by [gallery.Gallery]
//  2. [integrations] - The shared HTTP client and the Unsplash client
//  3. [render] - JSON, YAML and SVG export of a gallery frame
//  4. [cache], [session], [config] - Size cache, server sessions, settings
//
// # Architecture
//
// The data flow through a mounted gallery:
//
//	scroll offset
//	     ↓
//	[gallery.Observer] (sentinel visibility)
//	     ↓
//	[gallery.Sentinel] (downward full-visibility crossing)
//	     ↓
//	[gallery.Coordinator] (one page in flight, retries, end of results)
//	     ↓
//	[gallery.Measurer] (natural image sizes, default until known)
//	     ↓
//	[gallery.Presenter] (shortest-column placement)
//	     ↓
//	[gallery.Frame] → terminal, JSON/YAML/SVG, HTTP
//
// # Quick Start
//
//	client, err := unsplash.NewClient(os.Getenv("UNSPLASH_ACCESS_KEY"))
//	if err != nil {
//	    return err
//	}
//	g := gallery.New(client.Source("mountains"), gallery.WithPerPage(20))
//	if err := g.Mount(ctx); err != nil {
//	    return err
//	}
//	defer g.Unmount()
//
//	g.Scroll(1200)
//	svg := render.RenderSVG(g.Frame())
//
// # Main Packages
//
// [gallery] - Fetch coordinator, scroll sentinel, size measurement adapter
// and masonry presenter. Everything outside this package is plumbing.
//
// [integrations] - Shared HTTP client with status mapping, rate-limit
// parsing and observability hooks. [integrations/unsplash] adapts the
// Unsplash list and search endpoints to [gallery.Source].
//
// [render] - Frame export in JSON, YAML and SVG.
//
// [cache] - Size cache backends: in-memory, Redis (shared between server
// instances) and a no-op cache.
//
// [session] - In-memory registry of mounted galleries for the HTTP server.
//
// [config] - TOML file, .env and environment configuration.
//
// [errors] - Structured error codes shared by all packages.
//
// [httputil] - Retry helpers.
//
// [observability] - Hook registries for fetch, measure, cache and HTTP events.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include live Unsplash tests
//
// [gallery]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery
// [gallery.Gallery]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Gallery
// [gallery.Observer]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Observer
// [gallery.Sentinel]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Sentinel
// [gallery.Coordinator]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Coordinator
// [gallery.Measurer]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Measurer
// [gallery.Presenter]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Presenter
// [gallery.Frame]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Frame
// [gallery.Source]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/gallery#Source
// [integrations]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/integrations
// [integrations/unsplash]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/integrations/unsplash
// [render]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/photowall/pkg/observability
package pkg
