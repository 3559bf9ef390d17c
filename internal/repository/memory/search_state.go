package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jafarshop/productconsole/internal/domain"
)

// SearchStateStore keeps search state in process memory
type SearchStateStore struct {
	mu     sync.RWMutex
	states map[string]domain.SearchState
}

func NewSearchStateStore() *SearchStateStore {
	return &SearchStateStore{states: make(map[string]domain.SearchState)}
}

func (s *SearchStateStore) Load(ctx context.Context, key string) (*domain.SearchState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[key]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *SearchStateStore) Save(ctx context.Context, key string, state *domain.SearchState) error {
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = *state
	return nil
}
