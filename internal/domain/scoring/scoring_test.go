package scoring_test

import (
	"strconv"
	"testing"

	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type recorder struct {
	events []scoring.FallbackEvent
}

func (r *recorder) ObserveFallback(ev scoring.FallbackEvent) { r.events = append(r.events, ev) }

func scenarioThresholds() scoring.Thresholds {
	return scoring.Thresholds{Below: f(50), Meets: f(65), Good: f(95), VeryGood: f(100), Exceptional: f(200)}
}

func TestScoreKeyResultHigherBetter(t *testing.T) {
	Convey("Given a HIGHER_BETTER key result on the default scale", t, func() {
		cfg := levels.Default()
		kr := scoring.KeyResultInput{MetricType: scoring.HigherBetter, Thresholds: scenarioThresholds(), Weight: 100}

		Convey("When the actual value sits on the lowest threshold", func() {
			kr.ActualValue = "50"
			r := scoring.ScoreKeyResult(kr, cfg)

			Convey("Then it scores the lowest level", func() {
				So(r.Score, ShouldEqual, 0.0)
				So(r.Level, ShouldEqual, "below")
				So(r.Percentage, ShouldEqual, 0.0)
			})
		})

		Convey("When the actual value falls between good and very good", func() {
			kr.ActualValue = "97.5"
			r := scoring.ScoreKeyResult(kr, cfg)

			Convey("Then it is interpolated between their scores", func() {
				So(r.Score, ShouldEqual, 0.63)
				So(r.Score, ShouldBeGreaterThan, 0.5)
				So(r.Score, ShouldBeLessThan, 0.75)
				So(r.Level, ShouldEqual, "good")
			})
		})

		Convey("When the actual value reaches the top threshold", func() {
			kr.ActualValue = "200"
			r := scoring.ScoreKeyResult(kr, cfg)

			Convey("Then it scores the top level", func() {
				So(r.Score, ShouldEqual, 1.0)
				So(r.Level, ShouldEqual, "exceptional")
				So(r.Percentage, ShouldEqual, 100.0)
			})
		})

		Convey("When the actual value exceeds every threshold", func() {
			kr.ActualValue = "10000"
			So(scoring.ScoreKeyResult(kr, cfg).Score, ShouldEqual, 1.0)
		})

		Convey("When the actual value is under every threshold", func() {
			kr.ActualValue = "-4"
			r := scoring.ScoreKeyResult(kr, cfg)
			So(r.Score, ShouldEqual, 0.0)
			So(r.Level, ShouldEqual, "below")
		})

		Convey("Then higher actual values never score lower", func() {
			prev := -1.0
			for v := 0.0; v <= 250; v += 2.5 {
				kr.ActualValue = formatFloat(v)
				s := scoring.ScoreKeyResult(kr, cfg).Score
				So(s, ShouldBeGreaterThanOrEqualTo, prev)
				So(s, ShouldBeBetweenOrEqual, cfg.Min(), cfg.Max())
				prev = s
			}
		})
	})
}

func TestScoreKeyResultLowerBetter(t *testing.T) {
	Convey("Given a LOWER_BETTER key result", t, func() {
		cfg := levels.Default()
		kr := scoring.KeyResultInput{
			MetricType: scoring.LowerBetter,
			Thresholds: scoring.Thresholds{Below: f(10), Meets: f(8), Good: f(6), VeryGood: f(4), Exceptional: f(2)},
		}

		Convey("Then values at or below the best threshold score the top level", func() {
			kr.ActualValue = "1"
			So(scoring.ScoreKeyResult(kr, cfg).Score, ShouldEqual, 1.0)
		})

		Convey("Then values above the worst threshold score the lowest level", func() {
			kr.ActualValue = "12"
			So(scoring.ScoreKeyResult(kr, cfg).Score, ShouldEqual, 0.0)
		})

		Convey("Then values between thresholds interpolate", func() {
			kr.ActualValue = "7"
			r := scoring.ScoreKeyResult(kr, cfg)
			So(r.Score, ShouldEqual, 0.38)
			So(r.Level, ShouldEqual, "meets")
		})

		Convey("Then missing thresholds use the descending defaults", func() {
			bare := scoring.KeyResultInput{MetricType: scoring.LowerBetter, ActualValue: "50"}
			So(scoring.ScoreKeyResult(bare, cfg).Score, ShouldEqual, 0.5)
			bare.ActualValue = "0"
			So(scoring.ScoreKeyResult(bare, cfg).Score, ShouldEqual, 1.0)
		})
	})
}

func TestScoreKeyResultQualitative(t *testing.T) {
	Convey("Given a qualitative key result on five levels", t, func() {
		cfg := levels.Default()
		kr := scoring.KeyResultInput{MetricType: scoring.Qualitative}

		Convey("When the grade is C", func() {
			kr.ActualValue = "C"
			r := scoring.ScoreKeyResult(kr, cfg)

			Convey("Then it picks the middle level exactly", func() {
				So(r.Score, ShouldEqual, cfg.At(2).ScoreValue)
				So(r.Level, ShouldEqual, cfg.At(2).Key())
			})
		})

		Convey("When the grade is A or E", func() {
			kr.ActualValue = "a"
			So(scoring.ScoreKeyResult(kr, cfg).Level, ShouldEqual, "exceptional")
			kr.ActualValue = "E"
			So(scoring.ScoreKeyResult(kr, cfg).Level, ShouldEqual, "below")
		})

		Convey("When the grade is missing", func() {
			rec := &recorder{}
			r := scoring.NewEngine(scoring.WithObserver(rec)).ScoreKeyResult(kr, cfg)

			Convey("Then it reads as E without an observation", func() {
				So(r.Level, ShouldEqual, "below")
				So(rec.events, ShouldBeEmpty)
			})
		})

		Convey("When the grade is unrecognized", func() {
			rec := &recorder{}
			kr.ActualValue = "Z"
			r := scoring.NewEngine(scoring.WithObserver(rec)).ScoreKeyResult(kr, cfg)

			Convey("Then it reads as E and the fallback is observed", func() {
				So(r.Level, ShouldEqual, "below")
				So(rec.events, ShouldHaveLength, 1)
				So(rec.events[0].Kind, ShouldEqual, scoring.FallbackUnknownGrade)
			})
		})
	})
}

func TestScoreKeyResultInvalidActual(t *testing.T) {
	Convey("Given a non-numeric actual value", t, func() {
		rec := &recorder{}
		engine := scoring.NewEngine(scoring.WithObserver(rec))
		kr := scoring.KeyResultInput{MetricType: scoring.HigherBetter, ActualValue: "n/a", Thresholds: scenarioThresholds()}

		r := engine.ScoreKeyResult(kr, levels.Default())

		Convey("Then it is treated as zero and observed", func() {
			So(r.Score, ShouldEqual, 0.0)
			So(rec.events, ShouldHaveLength, 1)
			So(rec.events[0].Kind, ShouldEqual, scoring.FallbackInvalidActualValue)
			So(rec.events[0].Detail, ShouldEqual, "n/a")
		})
	})

	Convey("Given an unknown metric type", t, func() {
		So(scoring.ParseMetricType("ratio"), ShouldEqual, scoring.HigherBetter)
		So(scoring.ParseMetricType(" lower_better "), ShouldEqual, scoring.LowerBetter)
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := levels.Default()

		Convey("When children carry weights", func() {
			r := scoring.Aggregate([]scoring.Child{{Score: 1.0, Weight: 30}, {Score: 0.5, Weight: 70}}, cfg)

			Convey("Then the weighted mean is returned", func() {
				So(r.Score, ShouldEqual, 0.65)
				So(r.Level, ShouldEqual, "good")
			})
		})

		Convey("When every weight is zero", func() {
			r := scoring.Aggregate([]scoring.Child{{Score: 1.0}, {Score: 0.5}}, cfg)

			Convey("Then the plain mean is used", func() {
				So(r.Score, ShouldEqual, 0.75)
			})
		})

		Convey("When there are no children", func() {
			rec := &recorder{}
			r := scoring.NewEngine(scoring.WithObserver(rec)).Aggregate(nil, cfg)

			Convey("Then the empty sentinel is returned", func() {
				So(r, ShouldResemble, scoring.Empty(cfg))
				So(r.Level, ShouldEqual, "below")
				So(r.Percentage, ShouldEqual, 0.0)
				So(rec.events[0].Kind, ShouldEqual, scoring.FallbackEmptyChildren)
			})
		})

		Convey("When the same children are aggregated twice", func() {
			children := []scoring.Child{{Score: 0.33, Weight: 1}, {Score: 0.91, Weight: 2}}
			So(scoring.Aggregate(children, cfg), ShouldResemble, scoring.Aggregate(children, cfg))
		})

		Convey("Then a single child keeps its own classification", func() {
			for s := 0.0; s <= 1.0; s += 0.005 {
				r := scoring.Aggregate([]scoring.Child{{Score: s, Weight: 1}}, cfg)
				So(r.Level, ShouldEqual, scoring.Classify(s, cfg).Level)
				So(r.Percentage, ShouldEqual, scoring.Classify(s, cfg).Percentage)
			}
		})
	})

	Convey("Given a 3.0-5.0 configuration with no children", t, func() {
		cfg := levels.New([]levels.ScoreLevel{
			{Name: "Below", ScoreValue: 3.0, Color: "#d9534f"},
			{Name: "Exceptional", ScoreValue: 5.0, Color: "#1e7b34"},
		})
		r := scoring.Aggregate(nil, cfg)
		So(r.Score, ShouldEqual, 3.0)
		So(r.Color, ShouldEqual, "#d9534f")
		So(r.Percentage, ShouldEqual, 0.0)
	})
}

func TestTiers(t *testing.T) {
	Convey("Given a department with mixed objectives", t, func() {
		cfg := levels.Default()
		engine := scoring.NewEngine()
		top := scoring.KeyResultInput{MetricType: scoring.Qualitative, ActualValue: "A", Weight: 50}
		mid := scoring.KeyResultInput{MetricType: scoring.Qualitative, ActualValue: "C", Weight: 50}
		objs := []scoring.ObjectiveInput{
			{KeyResults: []scoring.KeyResultInput{top}},
			{KeyResults: []scoring.KeyResultInput{mid}},
			{Weight: f(90)},
		}

		Convey("When objective weights are absent", func() {
			r := engine.ScoreDepartment(objs, cfg)

			Convey("Then objectives without key results are skipped and the rest share weight", func() {
				So(r.Score, ShouldEqual, 0.75)
				So(r.Level, ShouldEqual, "very_good")
			})
		})

		Convey("When objectives carry weights", func() {
			objs[0].Weight = f(25)
			objs[1].Weight = f(75)
			So(engine.ScoreDepartment(objs, cfg).Score, ShouldEqual, 0.63)
		})

		Convey("When a key result weight is zero across an objective", func() {
			top.Weight, mid.Weight = 0, 0
			r := engine.ScoreObjective([]scoring.KeyResultInput{top, mid}, cfg)
			So(r.Score, ShouldEqual, 0.75)
		})

		Convey("When departments roll up into a division", func() {
			depts := []scoring.DepartmentInput{
				{Objectives: objs},
				{Objectives: []scoring.ObjectiveInput{{KeyResults: []scoring.KeyResultInput{mid}}}},
				{},
			}
			r := engine.ScoreDivision(depts, cfg)

			Convey("Then empty departments are skipped", func() {
				So(r.Score, ShouldEqual, 0.63)
			})
		})

		Convey("When a division has nothing to score", func() {
			So(engine.ScoreDivision(nil, cfg), ShouldResemble, scoring.Empty(cfg))
		})
	})
}

func TestCombineEvaluations(t *testing.T) {
	Convey("Given an automatic score of 0.60", t, func() {
		cfg := levels.Default()
		auto := scoring.Classify(0.6, cfg)

		Convey("When director and HR are present without a business block", func() {
			r := scoring.CombineEvaluations(auto, scoring.Evaluations{
				Director: &scoring.EvaluationInput{Score: f(0.9), Comment: "strong quarter"},
				HR:       &scoring.EvaluationInput{Letter: "B"},
			}, cfg)

			Convey("Then the three-source blend applies", func() {
				So(r.Policy, ShouldEqual, scoring.PolicyWithoutBusinessBlock)
				So(r.FinalScore, ShouldNotBeNil)
				So(*r.FinalScore, ShouldEqual, 0.69)
				So(r.Score, ShouldEqual, 0.69)
				So(r.Automatic.Score, ShouldEqual, 0.6)
				So(r.Director.Comment, ShouldEqual, "strong quarter")
				So(r.HasBusinessBlock(), ShouldBeFalse)
			})
		})

		Convey("When all four sources are present", func() {
			r := scoring.CombineEvaluations(auto, scoring.Evaluations{
				Director:      &scoring.EvaluationInput{Stars: i(5)},
				HR:            &scoring.EvaluationInput{Letter: "B"},
				BusinessBlock: &scoring.EvaluationInput{Stars: i(3)},
			}, cfg)

			Convey("Then the four-source blend applies", func() {
				So(r.Policy, ShouldEqual, scoring.PolicyAllSources)
				So(*r.FinalScore, ShouldEqual, 0.69)
				So(r.HR.Letter, ShouldEqual, "B")
				So(*r.BusinessBlock.Stars, ShouldEqual, 3)
				So(r.HasBusinessBlock(), ShouldBeTrue)
			})
		})

		Convey("When the HR input carries a score instead of a letter", func() {
			r := scoring.CombineEvaluations(auto, scoring.Evaluations{
				Director: &scoring.EvaluationInput{Score: f(0.9)},
				HR:       &scoring.EvaluationInput{Score: f(-1000), Letter: "D"},
			}, cfg)

			Convey("Then only the letter is scored", func() {
				So(*r.HR.Score, ShouldEqual, 0.25)
				So(*r.FinalScore, ShouldEqual, 0.59)
			})
		})

		Convey("When a director score lies outside the scale", func() {
			r := scoring.CombineEvaluations(auto, scoring.Evaluations{
				Director: &scoring.EvaluationInput{Score: f(1000)},
				HR:       &scoring.EvaluationInput{Letter: "A"},
			}, cfg)

			Convey("Then it is clamped to the scale", func() {
				So(*r.Director.Score, ShouldEqual, 1.0)
				So(*r.FinalScore, ShouldEqual, 0.76)
			})
		})

		Convey("When HR is missing", func() {
			r := scoring.CombineEvaluations(auto, scoring.Evaluations{
				Director:      &scoring.EvaluationInput{Score: f(0.9)},
				BusinessBlock: &scoring.EvaluationInput{Stars: i(4)},
			}, cfg)

			Convey("Then no final score is produced and the automatic score stands", func() {
				So(r.Policy, ShouldEqual, scoring.PolicyAutomaticOnly)
				So(r.FinalScore, ShouldBeNil)
				So(r.FinalPercentage, ShouldBeNil)
				So(r.Result, ShouldResemble, auto)
				So(r.HR.Present, ShouldBeFalse)
				So(r.Director.Present, ShouldBeTrue)
			})
		})

		Convey("When the HR letter is not on the HR scale", func() {
			rec := &recorder{}
			r := scoring.NewEngine(scoring.WithObserver(rec)).CombineEvaluations(auto, scoring.Evaluations{
				Director: &scoring.EvaluationInput{Score: f(0.9)},
				HR:       &scoring.EvaluationInput{Letter: "E"},
			}, cfg)

			Convey("Then HR counts as absent", func() {
				So(r.HR.Present, ShouldBeFalse)
				So(r.FinalScore, ShouldBeNil)
				So(rec.events[0].Kind, ShouldEqual, scoring.FallbackUnknownGrade)
			})
		})
	})

	Convey("Given a blend that rounds up onto a level boundary", t, func() {
		cfg := levels.Default()
		auto := scoring.Classify(0.66, cfg)
		r := scoring.CombineEvaluations(auto, scoring.Evaluations{
			Director: &scoring.EvaluationInput{Score: f(1.0)},
			HR:       &scoring.EvaluationInput{Letter: "B"},
		}, cfg)

		Convey("Then the level and percentage follow the rounded score", func() {
			So(*r.FinalScore, ShouldEqual, 0.75)
			So(r.Level, ShouldEqual, "very_good")
			So(*r.FinalPercentage, ShouldEqual, 75.0)
			So(r.Percentage, ShouldEqual, 75.0)
		})
	})

	Convey("Given source presence flags", t, func() {
		So(scoring.SelectPolicy(scoring.Presence{Director: true, HR: true, BusinessBlock: true}), ShouldEqual, scoring.PolicyAllSources)
		So(scoring.SelectPolicy(scoring.Presence{Director: true, HR: true}), ShouldEqual, scoring.PolicyWithoutBusinessBlock)
		So(scoring.SelectPolicy(scoring.Presence{HR: true, BusinessBlock: true}), ShouldEqual, scoring.PolicyAutomaticOnly)
		So(scoring.SelectPolicy(scoring.Presence{}), ShouldEqual, scoring.PolicyAutomaticOnly)
	})
}
