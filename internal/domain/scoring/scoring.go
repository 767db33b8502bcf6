// Package scoring computes OKR scores: threshold interpolation for key
// results, weighted roll-ups across objectives, departments and divisions,
// and the blend of automatic and manual evaluations.
//
// Every function is pure over its inputs and a levels.Config snapshot.
// Invalid inputs never fail; they fall back to a defined value and are
// reported to the Engine's Observer.
package scoring

import (
	"strings"

	"github.com/okian/okrscore/internal/domain/levels"
)

// MetricType selects how a key result's actual value is read.
type MetricType string

// Metric types.
const (
	HigherBetter MetricType = "HIGHER_BETTER"
	LowerBetter  MetricType = "LOWER_BETTER"
	Qualitative  MetricType = "QUALITATIVE"
)

// ParseMetricType normalizes s. Unknown or empty values read as HigherBetter.
func ParseMetricType(s string) MetricType {
	switch t := MetricType(strings.ToUpper(strings.TrimSpace(s))); t {
	case LowerBetter, Qualitative:
		return t
	default:
		return HigherBetter
	}
}

// Thresholds holds the optional boundary values for a quantitative key result.
type Thresholds struct {
	Below       *float64 `json:"below,omitempty" yaml:"below,omitempty"`
	Meets       *float64 `json:"meets,omitempty" yaml:"meets,omitempty"`
	Good        *float64 `json:"good,omitempty" yaml:"good,omitempty"`
	VeryGood    *float64 `json:"veryGood,omitempty" yaml:"very_good,omitempty"`
	Exceptional *float64 `json:"exceptional,omitempty" yaml:"exceptional,omitempty"`
}

// KeyResultInput is a single key result as seen by the scorer.
type KeyResultInput struct {
	MetricType  MetricType `json:"metricType"`
	ActualValue string     `json:"actualValue"`
	Thresholds  Thresholds `json:"thresholds"`
	Weight      int        `json:"weight"`
}

// Result is a score with its classification.
type Result struct {
	Score      float64 `json:"score"`
	Level      string  `json:"level"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

// FallbackKind names the substitution the engine made for unusable input.
type FallbackKind string

// Fallback kinds.
const (
	FallbackInvalidActualValue FallbackKind = "invalid_actual_value"
	FallbackUnknownGrade       FallbackKind = "unknown_grade"
	FallbackEmptyChildren      FallbackKind = "empty_children"
)

// FallbackEvent describes one substitution.
type FallbackEvent struct {
	Kind   FallbackKind
	Detail string
}

// Observer receives fallback events. Implementations must be cheap and must
// not block.
type Observer interface {
	ObserveFallback(ev FallbackEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev FallbackEvent)

// ObserveFallback calls f.
func (f ObserverFunc) ObserveFallback(ev FallbackEvent) { f(ev) }

type nopObserver struct{}

func (nopObserver) ObserveFallback(FallbackEvent) {}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver routes fallback events to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// Engine carries the observer; all scoring state lives in the arguments.
type Engine struct {
	observer Observer
}

// NewEngine returns an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{observer: nopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) observe(kind FallbackKind, detail string) {
	e.observer.ObserveFallback(FallbackEvent{Kind: kind, Detail: detail})
}

var defaultEngine = NewEngine()

// ScoreKeyResult scores in with a silent engine.
func ScoreKeyResult(in KeyResultInput, cfg levels.Config) Result {
	return defaultEngine.ScoreKeyResult(in, cfg)
}

// Aggregate rolls children up with a silent engine.
func Aggregate(children []Child, cfg levels.Config) Result {
	return defaultEngine.Aggregate(children, cfg)
}

// CombineEvaluations blends evaluations with a silent engine.
func CombineEvaluations(auto Result, evals Evaluations, cfg levels.Config) CombinedResult {
	return defaultEngine.CombineEvaluations(auto, evals, cfg)
}

// Classify maps a score to its level, color and percentage.
func Classify(score float64, cfg levels.Config) Result {
	c := cfg.Classify(score)
	return Result{Score: score, Level: c.Level, Color: c.Color, Percentage: c.Percentage}
}

// Empty is the result reported when there is nothing to aggregate: the
// lowest level at zero percent.
func Empty(cfg levels.Config) Result {
	l := cfg.Lowest()
	return Result{Score: l.ScoreValue, Level: l.Key(), Color: l.Color, Percentage: 0}
}
