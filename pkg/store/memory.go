package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps markers in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	markers map[string]Marker
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{markers: make(map[string]Marker)}
}

func (s *MemoryStore) Get(_ context.Context, name string) (*Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.markers[name]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *MemoryStore) Put(_ context.Context, m *Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[m.Name] = *m
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, name)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Marker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, &m)
	}
	sortMarkers(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortMarkers(ms []*Marker) {
	slices.SortFunc(ms, func(a, b *Marker) int { return cmp.Compare(a.Name, b.Name) })
}

var _ Store = (*MemoryStore)(nil)
