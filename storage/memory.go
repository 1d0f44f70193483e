package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps results for the life of the process.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	nextID      int64
	results     []Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.initialized = true
		s.nextID = 1
	}
	return nil
}

func (s *MemoryStore) SaveResult(_ context.Context, r Result) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, ErrNotInitialized
	}
	r.ID = s.nextID
	s.nextID++
	s.results = append(s.results, r)
	return r.ID, nil
}

func (s *MemoryStore) Results(_ context.Context, limit int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := append([]Result(nil), s.results...)
	sortResults(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// sortResults orders by score descending, then earliest game first.
func sortResults(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Score != rs[j].Score {
			return rs[i].Score > rs[j].Score
		}
		return rs[i].DatePlayed.Before(rs[j].DatePlayed)
	})
}
