package unsplash

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/photowall/pkg/buildinfo"
	perrors "github.com/matzehuels/photowall/pkg/errors"
	"github.com/matzehuels/photowall/pkg/gallery"
	"github.com/matzehuels/photowall/pkg/integrations"
)

// DefaultBaseURL is the public Unsplash API endpoint.
const DefaultBaseURL = "https://api.unsplash.com"

// DefaultPerPage is the page size Unsplash uses when per_page is omitted.
const DefaultPerPage = 10

// MaxPerPage is the largest page size the API accepts.
const MaxPerPage = 30

// Client provides access to the Unsplash photo API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// Result is one page of photos together with the paging metadata the API
// reported. Total and TotalPages are 0 for the list endpoint, which does not
// report them.
type Result struct {
	Photos     []gallery.Photo
	Total      int
	TotalPages int
}

// NewClient creates an Unsplash client authenticated with accessKey.
// The key is validated before any request is made.
func NewClient(accessKey string) (*Client, error) {
	if err := perrors.ValidateAccessKey(accessKey); err != nil {
		return nil, err
	}
	return &Client{
		Client: integrations.NewClient(map[string]string{
			"Authorization":  "Client-ID " + accessKey,
			"Accept-Version": "v1",
			"User-Agent":     buildinfo.UserAgent(),
		}),
		baseURL: DefaultBaseURL,
	}, nil
}

// WithBaseURL points the client at another host (a proxy or test server).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

// ListPhotos fetches one page of the editorial feed (GET /photos).
//
// Returns:
//   - [integrations.ErrUnauthorized] for a rejected access key
//   - [integrations.ErrRateLimited] when the hourly budget is spent
//   - [integrations.ErrNetwork] for HTTP failures (retryable for 5xx)
func (c *Client) ListPhotos(ctx context.Context, page, perPage int) (*Result, error) {
	if err := perrors.ValidatePage(page); err != nil {
		return nil, err
	}
	var data []apiPhoto
	u := integrations.BuildURL(c.baseURL, "/photos", pageQuery(page, perPage))
	if err := c.Get(ctx, u, &data); err != nil {
		return nil, fmt.Errorf("list photos page %d: %w", page, err)
	}
	return &Result{Photos: convert(data)}, nil
}

// SearchPhotos fetches one page of search results (GET /search/photos).
// An empty query is rejected; use [Client.ListPhotos] for the unfiltered feed.
func (c *Client) SearchPhotos(ctx context.Context, query string, page, perPage int) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidQuery, "search query is empty")
	}
	if err := perrors.ValidateQuery(query); err != nil {
		return nil, err
	}
	if err := perrors.ValidatePage(page); err != nil {
		return nil, err
	}

	q := pageQuery(page, perPage)
	q["query"] = query
	var data apiSearch
	u := integrations.BuildURL(c.baseURL, "/search/photos", q)
	if err := c.Get(ctx, u, &data); err != nil {
		return nil, fmt.Errorf("search %q page %d: %w", query, page, err)
	}
	return &Result{
		Photos:     convert(data.Results),
		Total:      data.Total,
		TotalPages: data.TotalPages,
	}, nil
}

// Source returns a [gallery.Source] over the feed, or over search results
// when query is non-empty.
func (c *Client) Source(query string) gallery.Source {
	return gallery.SourceFunc(func(ctx context.Context, page, perPage int) (gallery.Page, error) {
		var (
			res *Result
			err error
		)
		if strings.TrimSpace(query) == "" {
			res, err = c.ListPhotos(ctx, page, perPage)
		} else {
			res, err = c.SearchPhotos(ctx, query, page, perPage)
		}
		if err != nil {
			return gallery.Page{}, err
		}
		return gallery.Page{Photos: res.Photos, TotalPages: res.TotalPages}, nil
	})
}

// IsAuthError reports whether err means the access key was rejected.
func IsAuthError(err error) bool {
	return errors.Is(err, integrations.ErrUnauthorized)
}

func pageQuery(page, perPage int) map[string]string {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	perPage = min(perPage, MaxPerPage)
	return map[string]string{
		"page":     strconv.Itoa(page),
		"per_page": strconv.Itoa(perPage),
	}
}

func convert(in []apiPhoto) []gallery.Photo {
	out := make([]gallery.Photo, 0, len(in))
	for _, p := range in {
		out = append(out, p.toPhoto())
	}
	return out
}
