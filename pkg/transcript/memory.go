package transcript

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]*Entry
	children map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]*Entry),
		children: make(map[string][]string),
	}
}

func (s *MemoryStore) Put(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[entry.Hash]; exists {
		return nil
	}

	s.entries[entry.Hash] = entry
	if entry.ParentHash != nil {
		s.children[*entry.ParentHash] = append(s.children[*entry.ParentHash], entry.Hash)
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, hash string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[hash]
	if !ok {
		return nil, ErrNotFound{Hash: hash}
	}
	return entry, nil
}

func (s *MemoryStore) Has(_ context.Context, hash string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[hash]
	return ok, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *MemoryStore) Roots(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var roots []*Entry
	for _, e := range s.entries {
		if e.ParentHash == nil {
			roots = append(roots, e)
		}
	}
	return roots, nil
}

func (s *MemoryStore) Leaves(_ context.Context) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var leaves []*Entry
	for hash, e := range s.entries {
		if len(s.children[hash]) == 0 {
			leaves = append(leaves, e)
		}
	}
	return leaves, nil
}

func (s *MemoryStore) Ancestry(_ context.Context, hash string) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []*Entry
	current := hash
	for {
		entry, ok := s.entries[current]
		if !ok {
			return nil, ErrNotFound{Hash: current}
		}
		chain = append(chain, entry)
		if entry.ParentHash == nil {
			return chain, nil
		}
		current = *entry.ParentHash
	}
}

func (s *MemoryStore) Close() error { return nil }
