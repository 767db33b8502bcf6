// Package types contains the score views shared by the HTTP API and the report CLI.
package types

import (
	"time"

	"github.com/okian/okrscore/internal/domain/scoring"
)

// KeyResultScore is a scored key result.
type KeyResultScore struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MetricType  string `json:"metricType"`
	ActualValue string `json:"actualValue"`
	Weight      int    `json:"weight"`
	scoring.Result
}

// ObjectiveScore is a scored objective with its key results.
type ObjectiveScore struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Weight     *float64         `json:"weight,omitempty"`
	KeyResults []KeyResultScore `json:"keyResults"`
	scoring.Result
}

// DepartmentScore is a department's automatic and combined score.
type DepartmentScore struct {
	ID                         string           `json:"id"`
	Name                       string           `json:"name"`
	DivisionID                 string           `json:"divisionId"`
	Objectives                 []ObjectiveScore `json:"objectives"`
	HasDirectorEvaluation      bool             `json:"hasDirectorEvaluation"`
	HasHREvaluation            bool             `json:"hasHrEvaluation"`
	HasBusinessBlockEvaluation bool             `json:"hasBusinessBlockEvaluation"`
	scoring.CombinedResult
}

// DivisionScore is a division's automatic and combined score.
type DivisionScore struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Departments           []DepartmentScore `json:"departments,omitempty"`
	HasDirectorEvaluation bool              `json:"hasDirectorEvaluation"`
	HasHREvaluation       bool              `json:"hasHrEvaluation"`
	scoring.CombinedResult
}

// Stats summarizes service activity.
type Stats struct {
	Divisions           int              `json:"divisions"`
	Departments         int              `json:"departments"`
	Evaluations         int              `json:"evaluations"`
	Levels              int              `json:"levels"`
	DefaultLevelsActive bool             `json:"defaultLevelsActive"`
	Computations        int64            `json:"computations"`
	Fallbacks           map[string]int64 `json:"fallbacks"`
	Uptime              time.Duration    `json:"uptime"`
	StartedAt           time.Time        `json:"startedAt"`
}

// EvaluationRequest is a manual rating as submitted by a client.
type EvaluationRequest struct {
	EvaluatorID   string   `json:"evaluatorId"`
	EvaluatorType string   `json:"evaluatorType"`
	TargetType    string   `json:"targetType"`
	TargetID      string   `json:"targetId"`
	NumericRating *float64 `json:"numericRating,omitempty"`
	StarRating    *int     `json:"starRating,omitempty"`
	LetterRating  string   `json:"letterRating,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	// Draft stores the evaluation without letting it count yet.
	Draft bool `json:"draft,omitempty"`
}

// EvaluationUpdate replaces the rating and comment of an existing evaluation.
// EvaluatorID must match the original evaluator.
type EvaluationUpdate struct {
	EvaluatorID   string   `json:"evaluatorId"`
	NumericRating *float64 `json:"numericRating,omitempty"`
	StarRating    *int     `json:"starRating,omitempty"`
	LetterRating  string   `json:"letterRating,omitempty"`
	Comment       string   `json:"comment,omitempty"`
}
