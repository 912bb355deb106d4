package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/photowall/pkg/gallery"
)

func emptyGallery(t *testing.T) *gallery.Gallery {
	t.Helper()
	src := gallery.SourceFunc(func(ctx context.Context, page, perPage int) (gallery.Page, error) {
		return gallery.Page{}, nil
	})
	g := gallery.New(src)
	if err := g.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNew(t *testing.T) {
	s := New(nil, "cats", 0)
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", s.ID, err)
	}
	if s.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want default", s.ttl)
	}
	if s.Query != "cats" {
		t.Errorf("Query = %q", s.Query)
	}
}

func TestStore_GetTouches(t *testing.T) {
	st := NewStore(0)
	now := time.Now()
	st.now = func() time.Time { return now }

	s := New(nil, "", time.Minute)
	st.Add(s)

	now = now.Add(50 * time.Second)
	if _, err := st.Get(s.ID); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	now = now.Add(50 * time.Second)
	if _, err := st.Get(s.ID); err != nil {
		t.Errorf("Get() should have refreshed the idle timer: %v", err)
	}
}

func TestStore_Expiry(t *testing.T) {
	st := NewStore(0)
	now := time.Now()
	st.now = func() time.Time { return now }

	g := emptyGallery(t)
	s := New(g, "", time.Minute)
	st.Add(s)

	now = now.Add(2 * time.Minute)
	if _, err := st.Get(s.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("Get() error = %v, want ErrExpired", err)
	}
	if st.Len() != 0 {
		t.Error("expired session should be removed")
	}
	if g.Frame().State != "closed" {
		t.Error("expired session's gallery should be unmounted")
	}
	if _, err := st.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Cleanup(t *testing.T) {
	st := NewStore(0)
	now := time.Now()
	st.now = func() time.Time { return now }

	old := New(emptyGallery(t), "", time.Minute)
	fresh := New(emptyGallery(t), "", time.Hour)
	st.Add(old)
	st.Add(fresh)

	now = now.Add(10 * time.Minute)
	if n := st.Cleanup(); n != 1 {
		t.Errorf("Cleanup() = %d, want 1", n)
	}
	if _, err := st.Get(fresh.ID); err != nil {
		t.Errorf("fresh session removed: %v", err)
	}
	st.Close()
	if st.Len() != 0 {
		t.Error("Close() should drop all sessions")
	}
}

func TestStore_Limit(t *testing.T) {
	st := NewStore(1)
	if err := st.Add(New(nil, "", 0)); err != nil {
		t.Fatal(err)
	}
	if err := st.Add(New(nil, "", 0)); !errors.Is(err, ErrLimit) {
		t.Errorf("Add() error = %v, want ErrLimit", err)
	}
}

func TestStore_Delete(t *testing.T) {
	st := NewStore(0)
	s := New(nil, "", 0)
	st.Add(s)
	if err := st.Delete(s.ID); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice = %v, want ErrNotFound", err)
	}
	s.Close() // idempotent
}
