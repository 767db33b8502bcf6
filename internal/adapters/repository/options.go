package repository

import (
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/model"
)

// LevelOption applies a configuration option to the MemoryLevelStore.
type LevelOption func(*MemoryLevelStore)

// WithLevels seeds the store. Rows are stored as given; an empty list means
// the scorer falls back to the built-in defaults.
func WithLevels(rows []levels.ScoreLevel) LevelOption {
	return func(s *MemoryLevelStore) {
		s.rows = append([]levels.ScoreLevel(nil), rows...)
	}
}

// EvaluationOption applies a configuration option to the MemoryEvaluationStore.
type EvaluationOption func(*MemoryEvaluationStore)

// WithEvaluations seeds the store with previously recorded evaluations.
func WithEvaluations(evs ...model.Evaluation) EvaluationOption {
	return func(s *MemoryEvaluationStore) {
		s.items = append(s.items, evs...)
	}
}
