package scoring

import (
	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/levels"
)

// Policy names the weighting used to blend evaluation sources.
type Policy string

// Policies.
const (
	PolicyAllSources           Policy = "all_sources"
	PolicyWithoutBusinessBlock Policy = "without_business_block"
	PolicyAutomaticOnly        Policy = "automatic_only"
)

// Presence records which manual sources are available.
type Presence struct {
	Director      bool
	HR            bool
	BusinessBlock bool
}

// SelectPolicy picks the blend for the given sources.
func SelectPolicy(p Presence) Policy {
	switch {
	case p.Director && p.HR && p.BusinessBlock:
		return PolicyAllSources
	case p.Director && p.HR:
		return PolicyWithoutBusinessBlock
	default:
		return PolicyAutomaticOnly
	}
}

type sourceScores struct {
	auto, director, hr, businessBlock float64
}

type blend struct {
	auto, director, hr, businessBlock float64
}

var blends = map[Policy]blend{
	PolicyAllSources:           {auto: 0.4, director: 0.2, hr: 0.2, businessBlock: 0.2},
	PolicyWithoutBusinessBlock: {auto: 0.6, director: 0.2, hr: 0.2},
}

func (b blend) apply(s sourceScores) float64 {
	return s.auto*b.auto + s.director*b.director + s.hr*b.hr + s.businessBlock*b.businessBlock
}

// EvaluationInput is one manual evaluation. Director and business block
// ratings come from Score, a rating already on the level scale, or Stars.
// HR ratings come from Letter alone.
type EvaluationInput struct {
	Score   *float64
	Stars   *int
	Letter  string
	Comment string
}

// Evaluations groups the manual evaluations available for a target.
type Evaluations struct {
	Director      *EvaluationInput
	HR            *EvaluationInput
	BusinessBlock *EvaluationInput
}

// SourceScore is one manual source as reported back.
type SourceScore struct {
	Present bool     `json:"present"`
	Score   *float64 `json:"score,omitempty"`
	Stars   *int     `json:"stars,omitempty"`
	Letter  string   `json:"letter,omitempty"`
	Comment string   `json:"comment,omitempty"`
}

// CombinedResult extends Result with the per-source breakdown. The embedded
// Result carries the final score when one was blended and the automatic
// score otherwise.
type CombinedResult struct {
	Result
	Automatic       Result      `json:"automatic"`
	Director        SourceScore `json:"director"`
	HR              SourceScore `json:"hr"`
	BusinessBlock   SourceScore `json:"businessBlock"`
	Policy          Policy      `json:"policy"`
	FinalScore      *float64    `json:"finalScore"`
	FinalPercentage *float64    `json:"finalPercentage"`
}

// HasBusinessBlock reports whether a business block evaluation contributed.
func (r CombinedResult) HasBusinessBlock() bool { return r.BusinessBlock.Present }

// CombineEvaluations blends the automatic score with the available manual
// evaluations. Without both director and HR input no final score is produced.
func (e *Engine) CombineEvaluations(auto Result, evals Evaluations, cfg levels.Config) CombinedResult {
	out := CombinedResult{Result: auto, Automatic: auto}

	scores := sourceScores{auto: auto.Score}
	var presence Presence
	if v, ok := numericSource(evals.Director, cfg); ok {
		scores.director, presence.Director = v, true
		out.Director = reported(evals.Director, v, cfg)
	}
	if v, ok := e.hrSource(evals.HR, cfg); ok {
		scores.hr, presence.HR = v, true
		out.HR = reported(evals.HR, v, cfg)
		out.HR.Stars = nil
		out.HR.Letter = evals.HR.Letter
	}
	if v, ok := numericSource(evals.BusinessBlock, cfg); ok {
		scores.businessBlock, presence.BusinessBlock = v, true
		out.BusinessBlock = reported(evals.BusinessBlock, v, cfg)
	}

	out.Policy = SelectPolicy(presence)
	b, ok := blends[out.Policy]
	if !ok {
		return out
	}
	// Unlike the tier rollups, the blend is rounded before it is classified
	// so the reported score, level and percentage agree.
	score := levels.Round2(cfg.Clamp(b.apply(scores)))
	c := cfg.Classify(score)
	out.Result = Result{Score: score, Level: c.Level, Color: c.Color, Percentage: c.Percentage}
	pct := c.Percentage
	out.FinalScore, out.FinalPercentage = &score, &pct
	return out
}

func numericSource(in *EvaluationInput, cfg levels.Config) (float64, bool) {
	switch {
	case in == nil:
		return 0, false
	case in.Score != nil:
		return cfg.Clamp(*in.Score), true
	case in.Stars != nil:
		return cfg.Clamp(evaluation.StarsToScore(*in.Stars, cfg)), true
	default:
		return 0, false
	}
}

// hrSource reads the letter only.
func (e *Engine) hrSource(in *EvaluationInput, cfg levels.Config) (float64, bool) {
	if in == nil {
		return 0, false
	}
	v, ok := evaluation.HRLetterToScore(in.Letter, cfg)
	if !ok {
		e.observe(FallbackUnknownGrade, in.Letter)
	}
	return v, ok
}

func reported(in *EvaluationInput, score float64, cfg levels.Config) SourceScore {
	s := SourceScore{Present: true, Score: &score, Comment: in.Comment}
	if stars, ok := evaluation.ScoreToStars(score, cfg); ok {
		s.Stars = &stars
	}
	return s
}
