package report

import (
	"context"
	"sort"
	"sync"

	"github.com/kstrandberg/uncouple/pkg/errors"
)

// MemoryStore keeps runs in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New(errors.ErrCodeInvalidElement, "run without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *run
	s.runs[run.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s", id)
	}
	cp := *run
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
