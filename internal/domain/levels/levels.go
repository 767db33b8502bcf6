// Package levels defines the score-level configuration that spans the whole
// scoring scale and the classifier that maps scores back onto it.
package levels

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Default five-band scale (normalized 0.0-1.0).
const (
	defaultBelow       = 0.0
	defaultMeets       = 0.25
	defaultGood        = 0.50
	defaultVeryGood    = 0.75
	defaultExceptional = 1.0
)

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ScoreLevel is one configured band of the scale.
type ScoreLevel struct {
	Name         string  `json:"name" yaml:"name" koanf:"name"`
	ScoreValue   float64 `json:"scoreValue" yaml:"score_value" koanf:"score_value"`
	Color        string  `json:"color" yaml:"color" koanf:"color"`
	DisplayOrder int     `json:"displayOrder" yaml:"display_order" koanf:"display_order"`
}

// Key returns the normalized level name reported in results, e.g. "Very Good" -> "very_good".
func (l ScoreLevel) Key() string {
	return Key(l.Name)
}

// Key normalizes a level name.
func Key(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Defaults returns the built-in five-band configuration rows.
func Defaults() []ScoreLevel {
	return []ScoreLevel{
		{Name: "below", ScoreValue: defaultBelow, Color: "#d9534f", DisplayOrder: 0},
		{Name: "meets", ScoreValue: defaultMeets, Color: "#f0ad4e", DisplayOrder: 1},
		{Name: "good", ScoreValue: defaultGood, Color: "#5cb85c", DisplayOrder: 2},
		{Name: "very_good", ScoreValue: defaultVeryGood, Color: "#28a745", DisplayOrder: 3},
		{Name: "exceptional", ScoreValue: defaultExceptional, Color: "#1e7b34", DisplayOrder: 4},
	}
}

// Config is an immutable, ascending-by-score view of a level configuration.
// The zero value is not usable; build one with New.
type Config struct {
	levels      []ScoreLevel
	min, max    float64
	fallback    bool
	qualitative GradeTable
	hr          GradeTable
}

// New builds a Config from configured rows. An empty input substitutes the
// default scale and marks the result as a fallback; nothing is written back.
func New(rows []ScoreLevel) Config {
	fallback := len(rows) == 0
	if fallback {
		rows = Defaults()
	}

	sorted := make([]ScoreLevel, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ScoreValue != sorted[j].ScoreValue {
			return sorted[i].ScoreValue < sorted[j].ScoreValue
		}
		return sorted[i].DisplayOrder < sorted[j].DisplayOrder
	})

	c := Config{
		levels:   sorted,
		min:      sorted[0].ScoreValue,
		max:      sorted[len(sorted)-1].ScoreValue,
		fallback: fallback,
	}
	c.qualitative = newQualitativeTable(len(sorted))
	c.hr = newHRTable(len(sorted))
	return c
}

// Default returns the fallback configuration.
func Default() Config { return New(nil) }

// Fallback reports whether the configuration was substituted for an empty one.
func (c Config) Fallback() bool { return c.fallback }

// Len returns the number of levels.
func (c Config) Len() int { return len(c.levels) }

// At returns the i-th level in ascending score order.
func (c Config) At(i int) ScoreLevel { return c.levels[i] }

// Levels returns a copy of the levels in ascending score order.
func (c Config) Levels() []ScoreLevel {
	out := make([]ScoreLevel, len(c.levels))
	copy(out, c.levels)
	return out
}

// Min returns the lowest configured score value.
func (c Config) Min() float64 { return c.min }

// Max returns the highest configured score value.
func (c Config) Max() float64 { return c.max }

// Lowest returns the level with the lowest score value.
func (c Config) Lowest() ScoreLevel { return c.levels[0] }

// Highest returns the level with the highest score value.
func (c Config) Highest() ScoreLevel { return c.levels[len(c.levels)-1] }

// Clamp restricts score to [Min, Max].
func (c Config) Clamp(score float64) float64 {
	return math.Min(math.Max(score, c.min), c.max)
}

// QualitativeGrades returns the A-E table used for qualitative key results.
func (c Config) QualitativeGrades() GradeTable { return c.qualitative }

// HRGrades returns the A-D table used for HR evaluations.
func (c Config) HRGrades() GradeTable { return c.hr }

// Validate checks rows submitted by an administrator.
func Validate(rows []ScoreLevel) error {
	if len(rows) == 0 {
		return ErrEmptyConfig
	}
	seen := make(map[string]struct{}, len(rows))
	for i, l := range rows {
		key := l.Key()
		if key == "" {
			return fmt.Errorf("level %d: %w", i, ErrInvalidName)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("level %q: %w", l.Name, ErrDuplicateName)
		}
		seen[key] = struct{}{}
		if math.IsNaN(l.ScoreValue) || math.IsInf(l.ScoreValue, 0) {
			return fmt.Errorf("level %q: %w", l.Name, ErrInvalidScoreValue)
		}
		if !colorPattern.MatchString(l.Color) {
			return fmt.Errorf("level %q color %q: %w", l.Name, l.Color, ErrInvalidColor)
		}
	}
	return nil
}

// Round2 rounds to two decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
