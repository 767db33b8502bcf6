package service

import (
	"github.com/okian/okrscore/internal/domain/dedupe"
	"github.com/okian/okrscore/internal/domain/evaluation"
)

// Sentinel kinds for service errors.
var (
	ErrInvalidEvaluation = evaluation.ErrMissingField
	// ErrDuplicateEvaluation is returned when an evaluator rates the same target twice.
	ErrDuplicateEvaluation = dedupe.ErrDuplicateEvaluation
	ErrNotDraft            = evaluation.ErrNotDraft
	ErrNotOwner            = evaluation.ErrNotOwner
)
