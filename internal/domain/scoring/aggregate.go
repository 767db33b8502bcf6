package scoring

import (
	"fmt"

	"github.com/okian/okrscore/internal/domain/levels"
)

// defaultSiblingWeight is shared equally among siblings without a weight.
const defaultSiblingWeight = 100.0

// Child is one scored element taking part in a weighted roll-up.
type Child struct {
	Score  float64
	Weight float64
}

// ObjectiveInput is an objective with its key results.
type ObjectiveInput struct {
	Weight     *float64
	KeyResults []KeyResultInput
}

// DepartmentInput is a department with its objectives.
type DepartmentInput struct {
	Weight     *float64
	Objectives []ObjectiveInput
}

// Aggregate computes the weighted average of children. A zero weight sum
// degrades to the plain mean; no children yields Empty.
func (e *Engine) Aggregate(children []Child, cfg levels.Config) Result {
	if len(children) == 0 {
		e.observe(FallbackEmptyChildren, "aggregate")
		return Empty(cfg)
	}
	var weighted, weights, sum float64
	for _, c := range children {
		weighted += c.Score * c.Weight
		weights += c.Weight
		sum += c.Score
	}
	avg := sum / float64(len(children))
	if weights > 0 {
		avg = weighted / weights
	}
	return rollup(avg, cfg)
}

// rollup classifies the clamped score before rounding so a reported score
// always reproduces its level.
func rollup(score float64, cfg levels.Config) Result {
	clamped := cfg.Clamp(score)
	c := cfg.Classify(clamped)
	return Result{Score: levels.Round2(clamped), Level: c.Level, Color: c.Color, Percentage: c.Percentage}
}

// ScoreObjective aggregates an objective's key results by their weights.
func (e *Engine) ScoreObjective(krs []KeyResultInput, cfg levels.Config) Result {
	if len(krs) == 0 {
		e.observe(FallbackEmptyChildren, "objective")
		return Empty(cfg)
	}
	children := make([]Child, 0, len(krs))
	for _, kr := range krs {
		children = append(children, Child{Score: e.ScoreKeyResult(kr, cfg).Score, Weight: float64(kr.Weight)})
	}
	return e.Aggregate(children, cfg)
}

// ScoreDepartment aggregates objectives that have key results. Objectives
// without a weight share the default weight equally.
func (e *Engine) ScoreDepartment(objs []ObjectiveInput, cfg levels.Config) Result {
	scorable := make([]ObjectiveInput, 0, len(objs))
	for _, o := range objs {
		if len(o.KeyResults) > 0 {
			scorable = append(scorable, o)
		}
	}
	if len(scorable) == 0 {
		e.observe(FallbackEmptyChildren, fmt.Sprintf("department with %d objectives", len(objs)))
		return Empty(cfg)
	}
	fallback := defaultSiblingWeight / float64(len(scorable))
	children := make([]Child, 0, len(scorable))
	for _, o := range scorable {
		children = append(children, Child{Score: e.ScoreObjective(o.KeyResults, cfg).Score, Weight: weightOr(o.Weight, fallback)})
	}
	return e.Aggregate(children, cfg)
}

// ScoreDivision aggregates departments that have at least one scorable objective.
func (e *Engine) ScoreDivision(depts []DepartmentInput, cfg levels.Config) Result {
	scorable := make([]DepartmentInput, 0, len(depts))
	for _, d := range depts {
		if hasKeyResults(d.Objectives) {
			scorable = append(scorable, d)
		}
	}
	if len(scorable) == 0 {
		e.observe(FallbackEmptyChildren, fmt.Sprintf("division with %d departments", len(depts)))
		return Empty(cfg)
	}
	fallback := defaultSiblingWeight / float64(len(scorable))
	children := make([]Child, 0, len(scorable))
	for _, d := range scorable {
		children = append(children, Child{Score: e.ScoreDepartment(d.Objectives, cfg).Score, Weight: weightOr(d.Weight, fallback)})
	}
	return e.Aggregate(children, cfg)
}

func hasKeyResults(objs []ObjectiveInput) bool {
	for _, o := range objs {
		if len(o.KeyResults) > 0 {
			return true
		}
	}
	return false
}

func weightOr(w *float64, fallback float64) float64 {
	if w == nil || *w <= 0 {
		return fallback
	}
	return *w
}
