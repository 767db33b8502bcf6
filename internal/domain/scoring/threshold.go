package scoring

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/okrscore/internal/domain/levels"
)

// thresholdEpsilon floors the width of a threshold segment.
const thresholdEpsilon = 0.001

var (
	higherBetterDefaults = [5]float64{0, 25, 50, 75, 100}
	lowerBetterDefaults  = [5]float64{100, 75, 50, 25, 0}
)

type thresholdPoint struct {
	value float64
	level int
}

// ScoreKeyResult scores a single key result against cfg.
func (e *Engine) ScoreKeyResult(in KeyResultInput, cfg levels.Config) Result {
	mt := ParseMetricType(string(in.MetricType))
	if mt == Qualitative {
		return e.scoreQualitative(in.ActualValue, cfg)
	}
	actual := e.parseActual(in.ActualValue)
	score := levels.Round2(cfg.Clamp(interpolate(actual, mt, in.Thresholds, cfg)))
	return Classify(score, cfg)
}

func (e *Engine) parseActual(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		e.observe(FallbackInvalidActualValue, raw)
		return 0
	}
	return v
}

func (e *Engine) scoreQualitative(raw string, cfg levels.Config) Result {
	g, ok := levels.ParseGrade(raw)
	if !ok {
		if strings.TrimSpace(raw) != "" {
			e.observe(FallbackUnknownGrade, raw)
		}
		g = levels.GradeE
	}
	idx, _ := cfg.QualitativeGrades().Index(g)
	l := cfg.At(idx)
	return Result{Score: l.ScoreValue, Level: l.Key(), Color: l.Color, Percentage: cfg.Percentage(l.ScoreValue)}
}

// interpolate locates actual between the two surrounding thresholds and
// maps it linearly onto the matching level scores.
func interpolate(actual float64, mt MetricType, th Thresholds, cfg levels.Config) float64 {
	top := cfg.Len() - 1
	def := higherBetterDefaults
	if mt == LowerBetter {
		def = lowerBetterDefaults
	}
	points := []thresholdPoint{
		{value: pick(th.Below, def[0]), level: 0},
		{value: pick(th.Meets, def[1]), level: min(1, top)},
		{value: pick(th.Good, def[2]), level: min(2, top)},
		{value: pick(th.VeryGood, def[3]), level: min(3, top)},
		{value: pick(th.Exceptional, def[4]), level: top},
	}

	lowerBetter := mt == LowerBetter
	sort.SliceStable(points, func(i, j int) bool {
		if lowerBetter {
			return points[i].value > points[j].value
		}
		return points[i].value < points[j].value
	})
	reached := func(p thresholdPoint) bool {
		if lowerBetter {
			return actual <= p.value
		}
		return actual >= p.value
	}

	last := len(points) - 1
	for i := last; i >= 0; i-- {
		p := points[i]
		if !reached(p) {
			continue
		}
		start := cfg.At(p.level).ScoreValue
		if i == last {
			return start
		}
		next := points[i+1]
		ratio := math.Abs(actual-p.value) / math.Max(math.Abs(next.value-p.value), thresholdEpsilon)
		return start + ratio*(cfg.At(next.level).ScoreValue-start)
	}
	return cfg.Lowest().ScoreValue
}

func pick(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
