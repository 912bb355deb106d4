package unsplash

import "github.com/matzehuels/photowall/pkg/gallery"

type apiPhoto struct {
	ID             string  `json:"id"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Color          string  `json:"color"`
	Description    *string `json:"description"`
	AltDescription *string `json:"alt_description"`
	URLs           struct {
		Raw     string `json:"raw"`
		Full    string `json:"full"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	User struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"user"`
	Links struct {
		HTML string `json:"html"`
	} `json:"links"`
}

type apiSearch struct {
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	Results    []apiPhoto `json:"results"`
}

func (p apiPhoto) toPhoto() gallery.Photo {
	author := p.User.Name
	if author == "" {
		author = p.User.Username
	}
	url := p.URLs.Full
	if url == "" {
		url = p.URLs.Regular
	}
	return gallery.Photo{
		ID:       p.ID,
		URL:      url,
		ThumbURL: p.URLs.Small,
		Alt:      deref(p.AltDescription, deref(p.Description, "")),
		Author:   author,
		Link:     p.Links.HTML,
		Color:    p.Color,
		Reported: gallery.Size{Width: p.Width, Height: p.Height},
	}
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
