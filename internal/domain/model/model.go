// Package model contains the organizational entities passed between layers.
package model

import (
	"time"

	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/scoring"
)

// ObjectiveLevel tells whether an objective belongs to a department or a person.
type ObjectiveLevel string

// Objective levels.
const (
	LevelDepartment ObjectiveLevel = "DEPARTMENT"
	LevelIndividual ObjectiveLevel = "INDIVIDUAL"
)

// Division groups departments.
type Division struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Weight      *float64     `json:"weight,omitempty" yaml:"weight,omitempty"`
	Departments []Department `json:"departments" yaml:"departments"`
}

// Department owns objectives.
type Department struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	DivisionID string      `json:"divisionId" yaml:"division_id"`
	Weight     *float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Objectives []Objective `json:"objectives" yaml:"objectives"`
}

// Objective groups key results.
type Objective struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Weight     *float64       `json:"weight,omitempty" yaml:"weight,omitempty"`
	Level      ObjectiveLevel `json:"level" yaml:"level"`
	KeyResults []KeyResult    `json:"keyResults" yaml:"key_results"`
}

// KeyResult is a measurable sub-goal.
type KeyResult struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	MetricType  string             `json:"metricType" yaml:"metric_type"`
	Unit        string             `json:"unit,omitempty" yaml:"unit,omitempty"`
	Weight      int                `json:"weight" yaml:"weight"`
	Thresholds  scoring.Thresholds `json:"thresholds" yaml:"thresholds"`
	ActualValue string             `json:"actualValue" yaml:"actual_value"`
}

// Evaluation is a manual rating of a department or division.
type Evaluation struct {
	ID            string                   `json:"id" yaml:"id"`
	EvaluatorID   string                   `json:"evaluatorId" yaml:"evaluator_id"`
	EvaluatorType evaluation.EvaluatorType `json:"evaluatorType" yaml:"evaluator_type"`
	TargetType    evaluation.TargetType    `json:"targetType" yaml:"target_type"`
	TargetID      string                   `json:"targetId" yaml:"target_id"`
	NumericRating *float64                 `json:"numericRating,omitempty" yaml:"numeric_rating,omitempty"`
	StarRating    *int                     `json:"starRating,omitempty" yaml:"star_rating,omitempty"`
	LetterRating  string                   `json:"letterRating,omitempty" yaml:"letter_rating,omitempty"`
	Comment       string                   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Status        evaluation.Status        `json:"status" yaml:"status"`
	CreatedAt     time.Time                `json:"createdAt" yaml:"created_at"`
	UpdatedAt     *time.Time               `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
	SubmittedAt   *time.Time               `json:"submittedAt,omitempty" yaml:"submitted_at,omitempty"`
}

// Submission returns the fields checked by evaluation.Validate.
func (e Evaluation) Submission() evaluation.Submission {
	return evaluation.Submission{
		EvaluatorType: e.EvaluatorType,
		TargetType:    e.TargetType,
		NumericRating: e.NumericRating,
		StarRating:    e.StarRating,
		LetterRating:  e.LetterRating,
	}
}

// Validate checks the rating against cfg.
func (e Evaluation) Validate(cfg levels.Config) error {
	return evaluation.Validate(e.Submission(), cfg)
}

// Normalize rewrites the rating into its stored form.
func (e *Evaluation) Normalize(cfg levels.Config) {
	s := evaluation.Normalize(e.Submission(), cfg)
	e.NumericRating, e.StarRating, e.LetterRating = s.NumericRating, s.StarRating, s.LetterRating
}

// ScoringInput converts the evaluation to the combiner's input. HR is
// scored from the letter only; a business block numeric rating is a star
// count, not a score.
func (e Evaluation) ScoringInput() *scoring.EvaluationInput {
	in := &scoring.EvaluationInput{Comment: e.Comment}
	switch e.EvaluatorType {
	case evaluation.HR:
		in.Letter = e.LetterRating
	case evaluation.BusinessBlock:
		in.Stars = e.StarRating
		if in.Stars == nil && e.NumericRating != nil {
			stars := int(*e.NumericRating)
			in.Stars = &stars
		}
	default:
		in.Score, in.Stars = e.NumericRating, e.StarRating
	}
	return in
}

// Input converts a key result for the scorer.
func (k KeyResult) Input() scoring.KeyResultInput {
	return scoring.KeyResultInput{
		MetricType:  scoring.ParseMetricType(k.MetricType),
		ActualValue: k.ActualValue,
		Thresholds:  k.Thresholds,
		Weight:      k.Weight,
	}
}

// Input converts an objective for the aggregator.
func (o Objective) Input() scoring.ObjectiveInput {
	in := scoring.ObjectiveInput{Weight: o.Weight, KeyResults: make([]scoring.KeyResultInput, 0, len(o.KeyResults))}
	for _, kr := range o.KeyResults {
		in.KeyResults = append(in.KeyResults, kr.Input())
	}
	return in
}

// CountsTowardDepartment reports whether the objective feeds the department score.
// An unset level is treated as DEPARTMENT.
func (o Objective) CountsTowardDepartment() bool {
	return o.Level == "" || o.Level == LevelDepartment
}

// DepartmentObjectives returns the objectives that feed the department score.
func (d Department) DepartmentObjectives() []Objective {
	out := make([]Objective, 0, len(d.Objectives))
	for _, o := range d.Objectives {
		if o.CountsTowardDepartment() {
			out = append(out, o)
		}
	}
	return out
}

// Input converts a department for the aggregator.
func (d Department) Input() scoring.DepartmentInput {
	objs := d.DepartmentObjectives()
	in := scoring.DepartmentInput{Weight: d.Weight, Objectives: make([]scoring.ObjectiveInput, 0, len(objs))}
	for _, o := range objs {
		in.Objectives = append(in.Objectives, o.Input())
	}
	return in
}

// Input converts a division's departments for the aggregator.
func (v Division) Input() []scoring.DepartmentInput {
	out := make([]scoring.DepartmentInput, 0, len(v.Departments))
	for _, d := range v.Departments {
		out = append(out, d.Input())
	}
	return out
}
