package net

import (
	"errors"
	"sync"
)

// ErrRunNotFound is returned for unknown or evicted run ids.
var ErrRunNotFound = errors.New("run not found")

// DefaultRunLimit is the number of finished runs a RunStore keeps.
const DefaultRunLimit = 32

// RunStore keeps the most recent finished runs in memory, keyed by run id.
// The oldest run is evicted once the limit is reached.
type RunStore struct {
	mu    sync.RWMutex
	limit int
	order []string
	runs  map[string]*Run
}

// NewRunStore returns a store holding at most limit runs.
func NewRunStore(limit int) *RunStore {
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	return &RunStore{limit: limit, runs: make(map[string]*Run)}
}

// Put stores run, evicting the oldest entry when full.
func (s *RunStore) Put(run *Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = run
	for len(s.order) > s.limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

// Get looks up a run by id.
func (s *RunStore) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if run, ok := s.runs[id]; ok {
		return run, nil
	}
	return nil, ErrRunNotFound
}

// List returns the stored runs, newest first.
func (s *RunStore) List() []*Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	return out
}
