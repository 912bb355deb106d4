package cache

// Keyer builds cache keys. Keeping key construction in one place lets the
// server scope keys per deployment without touching the measurer.
type Keyer interface {
	SizeKey(photoID string) string
}

// DefaultKeyer produces "size:<id>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SizeKey generates the key under which a photo's natural size is stored.
func (DefaultKeyer) SizeKey(photoID string) string {
	return "size:" + photoID
}

// ScopedKeyer wraps a Keyer with a prefix, e.g. to keep two API hosts
// sharing one Redis from reading each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SizeKey generates a prefixed size key.
func (k *ScopedKeyer) SizeKey(photoID string) string {
	return k.prefix + k.inner.SizeKey(photoID)
}
