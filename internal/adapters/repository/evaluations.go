package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/pkg/metrics"
)

// MemoryEvaluationStore keeps evaluations in insertion order.
type MemoryEvaluationStore struct {
	mu    sync.RWMutex
	items []model.Evaluation
	ids   map[string]struct{}
}

// NewMemoryEvaluationStore creates an evaluation store.
func NewMemoryEvaluationStore(opts ...EvaluationOption) *MemoryEvaluationStore {
	s := &MemoryEvaluationStore{ids: make(map[string]struct{})}
	for _, opt := range opts {
		opt(s)
	}
	for _, e := range s.items {
		s.ids[e.ID] = struct{}{}
	}
	metrics.UpdateRepositoryRecords(storeEvaluations, len(s.items))
	return s
}

// Add appends e; ids must be unique.
func (s *MemoryEvaluationStore) Add(_ context.Context, e model.Evaluation) error {
	start := time.Now()
	s.mu.Lock()
	if _, ok := s.ids[e.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("evaluation %q: %w", e.ID, ErrDuplicateID)
	}
	s.ids[e.ID] = struct{}{}
	s.items = append(s.items, e)
	n := len(s.items)
	s.mu.Unlock()

	metrics.RecordRepositoryUpdateLatency(storeEvaluations, float64(time.Since(start).Microseconds())/1000)
	metrics.UpdateRepositoryRecords(storeEvaluations, n)
	return nil
}

// ForTarget returns final evaluations of one target in insertion order.
func (s *MemoryEvaluationStore) ForTarget(_ context.Context, targetType evaluation.TargetType, targetID string) ([]model.Evaluation, error) {
	defer observeQuery(storeEvaluations, time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Evaluation
	for _, e := range s.items {
		if e.TargetType == targetType && e.TargetID == targetID && e.Status.Final() {
			out = append(out, e)
		}
	}
	return out, nil
}

// Get returns the evaluation with id, or ErrNotFound.
func (s *MemoryEvaluationStore) Get(_ context.Context, id string) (model.Evaluation, error) {
	defer observeQuery(storeEvaluations, time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return s.items[i], nil
	}
	return model.Evaluation{}, fmt.Errorf("evaluation %q: %w", id, ErrNotFound)
}

// Update replaces the stored evaluation with the same id.
func (s *MemoryEvaluationStore) Update(_ context.Context, e model.Evaluation) error {
	start := time.Now()
	s.mu.Lock()
	i := s.index(e.ID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("evaluation %q: %w", e.ID, ErrNotFound)
	}
	s.items[i] = e
	s.mu.Unlock()

	metrics.RecordRepositoryUpdateLatency(storeEvaluations, float64(time.Since(start).Microseconds())/1000)
	return nil
}

// Delete removes the evaluation with id.
func (s *MemoryEvaluationStore) Delete(_ context.Context, id string) error {
	start := time.Now()
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("evaluation %q: %w", id, ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.ids, id)
	n := len(s.items)
	s.mu.Unlock()

	metrics.RecordRepositoryUpdateLatency(storeEvaluations, float64(time.Since(start).Microseconds())/1000)
	metrics.UpdateRepositoryRecords(storeEvaluations, n)
	return nil
}

// ListForTarget returns every evaluation of one target, drafts included.
func (s *MemoryEvaluationStore) ListForTarget(_ context.Context, targetType evaluation.TargetType, targetID string) ([]model.Evaluation, error) {
	defer observeQuery(storeEvaluations, time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Evaluation{}
	for _, e := range s.items {
		if e.TargetType == targetType && e.TargetID == targetID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryEvaluationStore) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Count returns the number of stored evaluations of any status.
func (s *MemoryEvaluationStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
