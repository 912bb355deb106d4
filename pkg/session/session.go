// Package session tracks live gallery sessions for `photowall serve`.
//
// Each session owns a mounted [gallery.Gallery]. Sessions live in memory
// only: a gallery is a set of running goroutines and cannot be persisted.
// Idle sessions expire after their TTL and are unmounted by [Store.Cleanup],
// which the server calls from a janitor goroutine.
//
//	store := session.NewStore(64)
//	sess := session.New(g, "mountains", session.DefaultTTL)
//	if err := store.Add(sess); err != nil {
//	    sess.Close()
//	    return err
//	}
//
//	sess, err := store.Get(id) // refreshes the idle timer
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/photowall/pkg/gallery"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has been idle longer than its TTL.
	ErrExpired = errors.New("session expired")

	// ErrLimit is returned when the store is full.
	ErrLimit = errors.New("too many sessions")
)

// DefaultTTL is how long a session may stay idle.
const DefaultTTL = 15 * time.Minute

// Session is one mounted gallery.
type Session struct {
	ID        string           `json:"id"`
	Query     string           `json:"query,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Gallery   *gallery.Gallery `json:"-"`

	ttl       time.Duration
	mu        sync.Mutex
	lastSeen  time.Time
	closeOnce sync.Once
}

// New wraps a mounted gallery in a session with a fresh random ID.
func New(g *gallery.Gallery, query string, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Query:     query,
		CreatedAt: now,
		Gallery:   g,
		ttl:       ttl,
		lastSeen:  now,
	}
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns the time of the last activity.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// IsExpired reports whether the session was idle for longer than its TTL.
func (s *Session) IsExpired(now time.Time) bool {
	return now.Sub(s.LastSeen()) > s.ttl
}

// Close unmounts the gallery. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.Gallery != nil {
			s.Gallery.Unmount()
		}
	})
}

// Store holds live sessions in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
	now      func() time.Time
}

// NewStore creates a store that holds at most max sessions (0 = unlimited).
func NewStore(max int) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		max:      max,
		now:      time.Now,
	}
}

// Add registers a session.
func (st *Store) Add(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.max > 0 && len(st.sessions) >= st.max {
		return ErrLimit
	}
	st.sessions[s.ID] = s
	return nil
}

// Get returns a live session and refreshes its idle timer. An expired
// session is removed, closed and reported as ErrExpired.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrNotFound
	}
	now := st.now()
	if s.IsExpired(now) {
		delete(st.sessions, id)
		st.mu.Unlock()
		s.Close()
		return nil, ErrExpired
	}
	st.mu.Unlock()
	s.Touch(now)
	return s, nil
}

// Delete removes and closes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

// Cleanup closes and removes expired sessions and returns how many were
// removed.
func (st *Store) Cleanup() int {
	now := st.now()
	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.IsExpired(now) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close closes every session.
func (st *Store) Close() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
