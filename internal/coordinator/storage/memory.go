package storage

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/nemanja-m/logscan/internal/coordinator/core"
)

// InMemoryRunStore keeps run history for the lifetime of the process.
// Runs are copied on the way in and out.
type InMemoryRunStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*core.Run
}

func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{
		runs: make(map[uuid.UUID]*core.Run),
	}
}

func (s *InMemoryRunStore) SaveRun(run *core.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = cloneRun(run)
	return nil
}

func (s *InMemoryRunStore) GetRun(id uuid.UUID) (*core.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, exists := s.runs[id]
	if !exists {
		return nil, core.ErrRunNotFound
	}
	return cloneRun(run), nil
}

// GetRuns returns runs newest first along with the total number of runs
// matching the filter before pagination.
func (s *InMemoryRunStore) GetRuns(filter core.RunFilter) ([]*core.Run, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*core.Run
	for _, run := range s.runs {
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		matched = append(matched, run)
	}
	slices.SortFunc(matched, func(a, b *core.Run) int {
		return b.StartedAt.Compare(a.StartedAt)
	})

	total := len(matched)
	page := paginate(matched, filter.Offset, filter.Limit)

	runs := make([]*core.Run, len(page))
	for i, run := range page {
		runs[i] = cloneRun(run)
	}
	return runs, total, nil
}

func (s *InMemoryRunStore) Close() error {
	return nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneRun(run *core.Run) *core.Run {
	c := *run
	c.Ranks = slices.Clone(run.Ranks)
	if run.CompletedAt != nil {
		t := *run.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
