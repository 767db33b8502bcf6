package levels

import "math"

// Classification is the classifier output for a score.
type Classification struct {
	Level      string  `json:"level"`
	Color      string  `json:"color"`
	Percentage float64 `json:"percentage"`
}

// LevelFor returns the highest level whose score value does not exceed score,
// or the lowest level when none does.
func (c Config) LevelFor(score float64) ScoreLevel {
	for i := len(c.levels) - 1; i >= 0; i-- {
		if c.levels[i].ScoreValue <= score {
			return c.levels[i]
		}
	}
	return c.levels[0]
}

// Percentage maps score onto 0-100 relative to the configured range, one decimal.
func (c Config) Percentage(score float64) float64 {
	span := c.max - c.min
	if span == 0 {
		return 0
	}
	pct := math.Round(((score-c.min)/span)*1000) / 10
	return math.Min(math.Max(pct, 0), 100)
}

// Classify maps score to level key, color and percentage.
func (c Config) Classify(score float64) Classification {
	l := c.LevelFor(score)
	return Classification{
		Level:      l.Key(),
		Color:      l.Color,
		Percentage: c.Percentage(score),
	}
}
