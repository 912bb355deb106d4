package errors

import (
	"strings"
	"unicode"
)

const maxQueryLength = 200

// ValidateQuery checks a free-text search query before it is sent to the
// photo API. An empty query is valid and selects the editorial feed.
func ValidateQuery(q string) error {
	if len(q) > maxQueryLength {
		return New(ErrCodeInvalidQuery, "search query too long (max %d characters)", maxQueryLength)
	}
	for _, r := range q {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidQuery, "search query contains control characters")
		}
	}
	return nil
}

// ValidatePage rejects negative page numbers.
func ValidatePage(page int) error {
	if page < 0 {
		return New(ErrCodeInvalidInput, "page must be non-negative, got %d", page)
	}
	return nil
}

// ValidateAccessKey checks the shape of an API access key without
// contacting the service. Keys are opaque tokens; only emptiness,
// whitespace and obviously unfilled placeholders are rejected.
func ValidateAccessKey(key string) error {
	if key == "" {
		return New(ErrCodeConfig, "access key is empty")
	}
	if strings.TrimSpace(key) != key || strings.ContainsAny(key, " \t\r\n") {
		return New(ErrCodeConfig, "access key contains whitespace")
	}
	if strings.HasPrefix(key, "<") || strings.EqualFold(key, "changeme") || strings.EqualFold(key, "your_access_key") {
		return New(ErrCodeConfig, "access key looks like a placeholder: %q", key)
	}
	return nil
}
