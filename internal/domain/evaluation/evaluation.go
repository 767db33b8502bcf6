// Package evaluation holds the manual evaluation vocabulary: evaluator
// types, rating scales and the checks applied before a rating is accepted.
package evaluation

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/okrscore/internal/domain/levels"
)

// Star scale bounds.
const (
	MinStars = 1
	MaxStars = 5
)

// EvaluatorType identifies who submitted a rating.
type EvaluatorType string

// Evaluator types.
const (
	Director      EvaluatorType = "DIRECTOR"
	HR            EvaluatorType = "HR"
	BusinessBlock EvaluatorType = "BUSINESS_BLOCK"
)

// ParseEvaluatorType normalizes s.
func ParseEvaluatorType(s string) (EvaluatorType, error) {
	t := EvaluatorType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case Director, HR, BusinessBlock:
		return t, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownEvaluatorType)
	}
}

// TargetType identifies what is being evaluated.
type TargetType string

// Target types.
const (
	TargetDepartment TargetType = "DEPARTMENT"
	TargetDivision   TargetType = "DIVISION"
)

// ParseTargetType normalizes s.
func ParseTargetType(s string) (TargetType, error) {
	t := TargetType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TargetDepartment, TargetDivision:
		return t, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownTargetType)
	}
}

// Status is the workflow state of an evaluation.
type Status string

// Statuses.
const (
	StatusDraft     Status = "DRAFT"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
)

// Final reports whether an evaluation in this status feeds score calculations.
func (s Status) Final() bool {
	return s == StatusSubmitted || s == StatusApproved
}

// Submission is a rating as received from an evaluator.
type Submission struct {
	EvaluatorType EvaluatorType
	TargetType    TargetType
	NumericRating *float64
	StarRating    *int
	LetterRating  string
}

// Validate rejects ratings outside the evaluator's scale. Each evaluation
// carries exactly one rating: stars or a number for directors and business
// block leaders, a letter for HR.
func Validate(s Submission, cfg levels.Config) error {
	if s.StarRating != nil && s.NumericRating != nil {
		return fmt.Errorf("%s: %w", s.EvaluatorType, ErrAmbiguousRating)
	}
	switch s.EvaluatorType {
	case Director:
		if s.StarRating != nil {
			return validateStars(*s.StarRating)
		}
		if s.NumericRating == nil {
			return fmt.Errorf("director: %w", ErrMissingRating)
		}
		r := *s.NumericRating
		if math.IsNaN(r) || r < cfg.Min() || r > cfg.Max() {
			return fmt.Errorf("director rating %v not in [%v, %v]: %w", r, cfg.Min(), cfg.Max(), ErrRatingOutOfRange)
		}
		return nil
	case HR:
		if s.StarRating != nil || s.NumericRating != nil {
			return fmt.Errorf("hr: %w", ErrAmbiguousRating)
		}
		if strings.TrimSpace(s.LetterRating) == "" {
			return fmt.Errorf("hr: %w", ErrMissingRating)
		}
		if _, ok := ParseHRLetter(s.LetterRating); !ok {
			return fmt.Errorf("hr rating %q: %w", s.LetterRating, ErrInvalidLetter)
		}
		return nil
	case BusinessBlock:
		if s.TargetType != TargetDepartment {
			return fmt.Errorf("business block on %s: %w", s.TargetType, ErrTargetNotAllowed)
		}
		switch {
		case s.StarRating != nil:
			return validateStars(*s.StarRating)
		case s.NumericRating != nil:
			r := *s.NumericRating
			if r != math.Trunc(r) {
				return fmt.Errorf("business block rating %v: %w", r, ErrInvalidStars)
			}
			return validateStars(int(r))
		default:
			return fmt.Errorf("business block: %w", ErrMissingRating)
		}
	default:
		return fmt.Errorf("%q: %w", s.EvaluatorType, ErrUnknownEvaluatorType)
	}
}

// Normalize returns the stored form of a validated submission. Director
// stars become a score on the configured scale, business block ratings
// become stars and HR keeps only the letter.
func Normalize(s Submission, cfg levels.Config) Submission {
	switch s.EvaluatorType {
	case Director:
		if s.StarRating != nil {
			score := StarsToScore(*s.StarRating, cfg)
			s.NumericRating, s.StarRating = &score, nil
		}
		s.LetterRating = ""
	case HR:
		s.NumericRating, s.StarRating = nil, nil
		s.LetterRating = strings.ToUpper(strings.TrimSpace(s.LetterRating))
	case BusinessBlock:
		if s.NumericRating != nil {
			stars := int(*s.NumericRating)
			s.StarRating, s.NumericRating = &stars, nil
		}
		s.LetterRating = ""
	}
	return s
}

func validateStars(stars int) error {
	if stars < MinStars || stars > MaxStars {
		return fmt.Errorf("%d stars: %w", stars, ErrInvalidStars)
	}
	return nil
}

// ParseHRLetter accepts A-D only; E is not on the HR scale.
func ParseHRLetter(s string) (levels.Grade, bool) {
	g, ok := levels.ParseGrade(s)
	if !ok || g == levels.GradeE {
		return "", false
	}
	return g, true
}

// StarsToScore maps 1-5 stars linearly onto the configured range.
func StarsToScore(stars int, cfg levels.Config) float64 {
	return cfg.Min() + float64(stars-MinStars)*(cfg.Max()-cfg.Min())/float64(MaxStars-MinStars)
}

// ScoreToStars maps a score back onto 1-5 stars for display. It returns
// false when the score lies outside the configured range.
func ScoreToStars(score float64, cfg levels.Config) (int, bool) {
	if score < cfg.Min() || score > cfg.Max() {
		return 0, false
	}
	span := cfg.Max() - cfg.Min()
	if span == 0 {
		return MaxStars, true
	}
	stars := MinStars + ((score-cfg.Min())/span)*float64(MaxStars-MinStars)
	return int(math.Round(stars)), true
}

// HRLetterToScore resolves an HR letter through the configuration's HR table.
func HRLetterToScore(letter string, cfg levels.Config) (float64, bool) {
	g, ok := ParseHRLetter(letter)
	if !ok {
		return 0, false
	}
	idx, ok := cfg.HRGrades().Index(g)
	if !ok {
		return 0, false
	}
	return cfg.At(idx).ScoreValue, true
}
