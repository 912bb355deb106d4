// Package unsplash provides an HTTP client for the Unsplash photo API.
//
// # Usage
//
//	client, err := unsplash.NewClient(accessKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.SearchPhotos(ctx, "mountains", 1, 10)
//
// # Endpoints
//
//   - [Client.ListPhotos]: GET /photos, the editorial feed (no totals)
//   - [Client.SearchPhotos]: GET /search/photos, reports total_pages
//
// Photos are returned as [gallery.Photo] values: the display URL is
// urls.full, the probe URL urls.small, and the alt text falls back to the
// description when alt_description is empty.
//
// # Authentication and limits
//
// Requests carry "Authorization: Client-ID <key>" and "Accept-Version: v1".
// Demo keys allow 50 requests per hour. A spent budget surfaces as
// [integrations.ErrRateLimited]; it is retryable only when the response
// carried Retry-After.
package unsplash
