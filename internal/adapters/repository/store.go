// Package repository holds the in-memory stores the scoring service reads from.
package repository

import (
	"context"

	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/model"
)

// Store names used in metrics labels.
const (
	storeLevels      = "levels"
	storeOrg         = "org"
	storeEvaluations = "evaluations"
)

// LevelStore owns the administrator-managed level configuration.
type LevelStore interface {
	levels.Source
	// Replace validates rows and swaps the whole configuration.
	Replace(ctx context.Context, rows []levels.ScoreLevel) error
	// Reset restores the built-in defaults.
	Reset(ctx context.Context) error
}

// OrgStore provides read access to divisions and departments.
type OrgStore interface {
	Divisions(ctx context.Context) ([]model.Division, error)
	// Division returns ErrNotFound for unknown ids.
	Division(ctx context.Context, id string) (model.Division, error)
	Departments(ctx context.Context) ([]model.Department, error)
	// Department returns ErrNotFound for unknown ids.
	Department(ctx context.Context, id string) (model.Department, error)
}

// EvaluationStore records manual evaluations.
type EvaluationStore interface {
	Add(ctx context.Context, e model.Evaluation) error
	// Get, Update and Delete return ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (model.Evaluation, error)
	Update(ctx context.Context, e model.Evaluation) error
	Delete(ctx context.Context, id string) error
	// ListForTarget returns evaluations of one target in every status.
	ListForTarget(ctx context.Context, targetType evaluation.TargetType, targetID string) ([]model.Evaluation, error)
	// ForTarget returns submitted and approved evaluations of one target.
	ForTarget(ctx context.Context, targetType evaluation.TargetType, targetID string) ([]model.Evaluation, error)
	Count(ctx context.Context) int
}
