package gallery

// Item is a photo at a fixed position in the collection.
type Item struct {
	Photo
	Index int    `json:"index" yaml:"index"`
	Key   string `json:"key" yaml:"key"`
}

// Collection is the ordered, append-only list of fetched photos.
// Insertion order is presentation order.
//
// Collection is not safe for concurrent use; the [Coordinator] owns it and
// guards it with its own mutex.
type Collection struct {
	items []Item
	seen  map[string]struct{}
}

// NewCollection returns an empty collection. With dedupe set, photos whose
// ID was appended before are skipped.
func NewCollection(dedupe bool) *Collection {
	c := &Collection{}
	if dedupe {
		c.seen = make(map[string]struct{})
	}
	return c
}

// Append adds photos in order and returns the items that were added.
// Existing items are never touched.
func (c *Collection) Append(photos []Photo) []Item {
	added := make([]Item, 0, len(photos))
	for _, p := range photos {
		if c.seen != nil {
			if _, dup := c.seen[p.ID]; dup {
				continue
			}
			c.seen[p.ID] = struct{}{}
		}
		idx := len(c.items)
		it := Item{Photo: p, Index: idx, Key: Key(p.ID, idx)}
		c.items = append(c.items, it)
		added = append(added, it)
	}
	return added
}

// Len returns the number of items.
func (c *Collection) Len() int { return len(c.items) }

// At returns the item at index i.
func (c *Collection) At(i int) Item { return c.items[i] }

// Items returns a copy of all items.
func (c *Collection) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
