package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a process-local [Store].
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore, optionally seeded with entries.
func NewMemoryStore(seed ...Entry) *MemoryStore {
	s := &MemoryStore{entries: make(map[string]Entry), now: time.Now}
	for _, e := range seed {
		if e.Path == "" {
			e.Path = DefaultPath
		}
		s.entries[e.Name] = e
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, name string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok || e.Expired(s.now()) {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Set(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.Expired(s.now()) {
		delete(s.entries, e.Name)
		return nil
	}
	if e.Path == "" {
		e.Path = DefaultPath
	}
	s.entries[e.Name] = e
	return nil
}

// All returns unexpired entries sorted by name.
func (s *MemoryStore) All(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.Expired(now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.entries)
	return nil
}
