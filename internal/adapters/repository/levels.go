package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/pkg/metrics"
)

// MemoryLevelStore keeps the level configuration behind a RWMutex. Readers
// always receive a copy.
type MemoryLevelStore struct {
	mu   sync.RWMutex
	rows []levels.ScoreLevel
}

// NewMemoryLevelStore creates an empty level store.
func NewMemoryLevelStore(opts ...LevelOption) *MemoryLevelStore {
	s := &MemoryLevelStore{}
	for _, opt := range opts {
		opt(s)
	}
	metrics.UpdateRepositoryRecords(storeLevels, len(s.rows))
	return s
}

// Levels returns the configured rows in display order.
func (s *MemoryLevelStore) Levels(_ context.Context) ([]levels.ScoreLevel, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(storeLevels, float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.RLock()
	out := append([]levels.ScoreLevel(nil), s.rows...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ScoreValue < out[j].ScoreValue
	})
	return out, nil
}

// Replace validates rows and replaces the whole configuration.
func (s *MemoryLevelStore) Replace(_ context.Context, rows []levels.ScoreLevel) error {
	if err := levels.Validate(rows); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_levels")
		return fmt.Errorf("replace levels: %w", err)
	}
	s.store(rows)
	return nil
}

// Reset stores the built-in default levels.
func (s *MemoryLevelStore) Reset(_ context.Context) error {
	s.store(levels.Defaults())
	return nil
}

func (s *MemoryLevelStore) store(rows []levels.ScoreLevel) {
	start := time.Now()
	cp := append([]levels.ScoreLevel(nil), rows...)

	s.mu.Lock()
	s.rows = cp
	s.mu.Unlock()

	metrics.RecordRepositoryUpdateLatency(storeLevels, float64(time.Since(start).Microseconds())/1000)
	metrics.UpdateRepositoryRecords(storeLevels, len(cp))
}
