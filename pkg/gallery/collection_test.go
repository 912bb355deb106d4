package gallery

import "testing"

func TestCollection_AppendKeepsOrder(t *testing.T) {
	c := NewCollection(false)
	c.Append([]Photo{{ID: "a"}, {ID: "b"}})
	added := c.Append([]Photo{{ID: "c"}, {ID: "a"}})

	if len(added) != 2 {
		t.Fatalf("added = %d, want 2", len(added))
	}
	want := []string{"a-0", "b-1", "c-2", "a-3"}
	items := c.Items()
	if len(items) != len(want) {
		t.Fatalf("len = %d, want %d", len(items), len(want))
	}
	for i, k := range want {
		if items[i].Key != k || items[i].Index != i {
			t.Errorf("item %d = %s/%d, want %s/%d", i, items[i].Key, items[i].Index, k, i)
		}
	}
}

func TestCollection_Dedupe(t *testing.T) {
	c := NewCollection(true)
	c.Append([]Photo{{ID: "a"}, {ID: "b"}})
	added := c.Append([]Photo{{ID: "b"}, {ID: "c"}})

	if len(added) != 1 || added[0].ID != "c" || added[0].Index != 2 {
		t.Errorf("added = %+v, want only c at index 2", added)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCollection_ItemsIsCopy(t *testing.T) {
	c := NewCollection(false)
	c.Append([]Photo{{ID: "a"}})
	items := c.Items()
	items[0].ID = "mutated"
	if c.At(0).ID != "a" {
		t.Error("Items() must not expose internal storage")
	}
}
