// Package session holds per-browser UI state: whether the visitor has
// supplied an access key yet. The search pipeline never reads it.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a session.
type State int

const (
	// Unauthenticated sessions have not supplied an access key.
	Unauthenticated State = iota
	// Authenticated sessions have supplied a non-empty access key.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrEmptyKey is returned when the submitted access key is blank.
var ErrEmptyKey = errors.New("access key is empty")

// Session is one visitor's state. The access key is opaque: it is trimmed
// and stored, never validated against the registry.
type Session struct {
	ID        uuid.UUID
	State     State
	AccessKey string
	// LastSeen is maintained by Store; sessions idle past the store's
	// timeout are dropped.
	LastSeen time.Time
}

// Authenticate moves the session to Authenticated with the trimmed key.
// A blank key leaves the session unchanged and returns ErrEmptyKey.
func (s *Session) Authenticate(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyKey
	}
	s.AccessKey = key
	s.State = Authenticated
	return nil
}

// Store keeps sessions in memory, keyed by ID. Sessions unused for longer
// than the idle timeout are treated as gone and removed by Sweep. Safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]Session
	idle     time.Duration
	now      func() time.Time
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty Store that forgets sessions idle for longer
// than idle.
func NewStore(idle time.Duration, opts ...StoreOption) *Store {
	s := &Store{sessions: make(map[uuid.UUID]Session), idle: idle, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a new Unauthenticated session.
func (s *Store) Start() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := Session{ID: uuid.New(), State: Unauthenticated, LastSeen: s.now()}
	s.sessions[sess.ID] = sess
	return sess
}

// Get returns the session with the given ID and marks it as seen.
// Expired sessions are removed and reported as missing.
func (s *Store) Get(id uuid.UUID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return Session{}, false
	}
	sess.LastSeen = now
	s.sessions[id] = sess
	return sess, true
}

// Save stores sess, replacing any session with the same ID.
func (s *Store) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.LastSeen = s.now()
	s.sessions[sess.ID] = sess
}

// End forgets the session with the given ID. Unknown IDs are ignored.
func (s *Store) End(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included until
// the next Sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run calls Sweep every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) expired(sess Session, now time.Time) bool {
	return now.Sub(sess.LastSeen) > s.idle
}
