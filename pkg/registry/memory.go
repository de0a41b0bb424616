package registry

import (
	"context"
	"sync"

	"github.com/matzehuels/beer/pkg/formula"
)

// MemorySource serves manifests held in memory. It is safe for concurrent
// use and counts fetches per name.
type MemorySource struct {
	mu        sync.Mutex
	manifests map[string][]byte
	fetches   map[string]int
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		manifests: make(map[string][]byte),
		fetches:   make(map[string]int),
	}
}

// Name implements Source.
func (s *MemorySource) Name() string { return "memory" }

// Set stores raw manifest bytes under name.
func (s *MemorySource) Set(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[name] = data
}

// Add encodes pkg and stores it under pkg.Name.
func (s *MemorySource) Add(pkg *formula.Package) error {
	data, err := formula.Encode(pkg)
	if err != nil {
		return err
	}
	s.Set(pkg.Name, data)
	return nil
}

// Fetches returns how many times name was fetched.
func (s *MemorySource) Fetches(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches[name]
}

// Fetch implements Source.
func (s *MemorySource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches[name]++
	data, ok := s.manifests[name]
	if !ok {
		return nil, notFound(name)
	}
	return data, nil
}

var _ Source = (*MemorySource)(nil)
