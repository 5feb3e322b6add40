package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store loads the catalog from its Source once per process. A failed load
// is not cached, so the next Load tries again.
type Store struct {
	Source  Source
	Timeout time.Duration
	Log     *zap.Logger

	// OnLoad, when set, observes every fetch attempt.
	OnLoad func(err error)

	mu     sync.Mutex
	loaded bool
	cat    Catalog
}

func NewStore(src Source, timeout time.Duration) *Store {
	return &Store{Source: src, Timeout: timeout}
}

// Load returns the catalog, fetching it on first use. On failure it returns
// an empty Catalog together with a *LoadError.
func (s *Store) Load(ctx context.Context) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.cat, nil
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	products, err := s.Source.Load(ctx)
	if s.OnLoad != nil {
		s.OnLoad(err)
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Warn("catalog load failed", zap.String("source", s.Source.Name()), zap.Error(err))
		}
		return NewCatalog(nil), &LoadError{Source: s.Source.Name(), Err: err}
	}

	s.cat = NewCatalog(products)
	s.loaded = true
	if s.Log != nil {
		s.Log.Info("catalog loaded", zap.String("source", s.Source.Name()), zap.Int("products", len(products)))
	}
	return s.cat, nil
}

func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}
