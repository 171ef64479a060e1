package session

import (
	"context"
	"sync"
	"time"

	"github.com/websketch/websketch/pkg/sketch"
)

// MemoryStore is an in-process session store for development and tests.
// Expiry is checked lazily on access.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*memoryEntry
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewMemoryStore creates a memory store with the given TTL.
// A zero ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Create(ctx context.Context, initial []sketch.Component, id string) (string, error) {
	sess := NewSession(id, initial)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &memoryEntry{
		session:   sess,
		expiresAt: time.Now().Add(s.ttl),
	}
	return sess.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(id)
	if entry == nil {
		return nil, notFound(id)
	}
	entry.expiresAt = time.Now().Add(s.ttl)

	// Copy so callers cannot mutate stored state.
	out := *entry.session
	out.InitialSketch = sketch.Clone(entry.session.InitialSketch)
	out.LatestSketch = sketch.Clone(entry.session.LatestSketch)
	out.CurrentSketch = sketch.Clone(entry.session.CurrentSketch)
	return &out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, req UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(id)
	if entry == nil {
		return notFound(id)
	}
	entry.session.apply(req)
	entry.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) ExtendTTL(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.live(id)
	if entry == nil {
		return notFound(id)
	}
	entry.expiresAt = time.Now().Add(s.ttl)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// live returns the entry for id, evicting it first if expired.
// Callers must hold the write lock.
func (s *MemoryStore) live(id string) *memoryEntry {
	entry, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil
	}
	return entry
}

var _ Store = (*MemoryStore)(nil)
