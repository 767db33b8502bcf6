package levels

import (
	"math"
	"strings"
)

// Grade is a letter on the A (best) .. E (worst) scale.
type Grade string

// Letter grades.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// ParseGrade normalizes s; ok is false for anything outside A-E.
func ParseGrade(s string) (Grade, bool) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return g, true
	default:
		return "", false
	}
}

// GradeTable maps a letter grade to a level index. Built once per Config.
type GradeTable struct {
	index map[Grade]int
}

// Index returns the level index for g.
func (t GradeTable) Index(g Grade) (int, bool) {
	i, ok := t.index[g]
	return i, ok
}

// Grades lists the letters the table knows, best first.
func (t GradeTable) Grades() []Grade {
	out := make([]Grade, 0, len(t.index))
	for _, g := range []Grade{GradeA, GradeB, GradeC, GradeD, GradeE} {
		if _, ok := t.index[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// newQualitativeTable spreads the five grade slots evenly over n levels:
// E is the bottom level, A the top, B-D picked by rank.
func newQualitativeTable(n int) GradeTable {
	top := n - 1
	ranks := map[Grade]int{GradeE: 0, GradeD: 1, GradeC: 2, GradeB: 3, GradeA: 4}
	t := GradeTable{index: make(map[Grade]int, len(ranks))}
	for g, r := range ranks {
		t.index[g] = int(math.Round(float64(r) * float64(top) / 4))
	}
	return t
}

// newHRTable pins D to the second level and A to the top one; C and B sit
// evenly between them by rank.
func newHRTable(n int) GradeTable {
	top := n - 1
	low := min(1, top)
	step := float64(top-low) / 3
	return GradeTable{index: map[Grade]int{
		GradeD: low,
		GradeC: low + int(math.Round(step)),
		GradeB: low + int(math.Round(2*step)),
		GradeA: top,
	}}
}
