package memory

import (
	"context"
	"sync"

	"pricewatch/internal/application/port"
	"pricewatch/internal/domain"
)

// Store is a simple in-memory implementation. Its content lives as long as the process,
// and every presenter owns its own instance.
type Store struct {
	mu   sync.Mutex
	base domain.Baseline
}

// New creates a new in-memory store
func New() *Store {
	return &Store{base: domain.NewBaseline()}
}

func (s *Store) Load(ctx context.Context) (domain.Baseline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.base.Clone(), nil
}

func (s *Store) Save(ctx context.Context, b domain.Baseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = b.Clone()
	return nil
}

func (s *Store) Close() error {
	return nil
}

var _ port.SnapshotStore = (*Store)(nil)
