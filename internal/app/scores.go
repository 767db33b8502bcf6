package service

import (
	"context"
	"fmt"

	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/internal/domain/scoring"
	"github.com/okian/okrscore/internal/domain/types"
	"github.com/okian/okrscore/pkg/metrics"
)

// Scoring tiers used in metrics labels.
const (
	tierKeyResult  = "key_result"
	tierObjective  = "objective"
	tierDepartment = "department"
	tierDivision   = "division"
)

// DepartmentScore scores one department with its evaluations.
func (s *Service) DepartmentScore(ctx context.Context, id string) (types.DepartmentScore, error) {
	c := s.begin("department_score")
	defer c.end(ctx)

	cfg, err := c.levels(ctx)
	if err != nil {
		return types.DepartmentScore{}, err
	}
	dept, err := s.orgStore.Department(ctx, id)
	if err != nil {
		return types.DepartmentScore{}, err
	}
	return s.departmentScore(ctx, dept, cfg)
}

// AllDepartmentScores scores every department against one level snapshot.
func (s *Service) AllDepartmentScores(ctx context.Context) ([]types.DepartmentScore, error) {
	c := s.begin("all_department_scores")
	defer c.end(ctx)

	cfg, err := c.levels(ctx)
	if err != nil {
		return nil, err
	}
	depts, err := s.orgStore.Departments(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.DepartmentScore, 0, len(depts))
	for _, d := range depts {
		ds, err := s.departmentScore(ctx, d, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// DivisionScore scores one division with its departments and evaluations.
func (s *Service) DivisionScore(ctx context.Context, id string) (types.DivisionScore, error) {
	c := s.begin("division_score")
	defer c.end(ctx)

	cfg, err := c.levels(ctx)
	if err != nil {
		return types.DivisionScore{}, err
	}
	div, err := s.orgStore.Division(ctx, id)
	if err != nil {
		return types.DivisionScore{}, err
	}
	return s.divisionScore(ctx, div, cfg)
}

// AllDivisionScores scores every division against one level snapshot.
func (s *Service) AllDivisionScores(ctx context.Context) ([]types.DivisionScore, error) {
	c := s.begin("all_division_scores")
	defer c.end(ctx)

	cfg, err := c.levels(ctx)
	if err != nil {
		return nil, err
	}
	divs, err := s.orgStore.Divisions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.DivisionScore, 0, len(divs))
	for _, d := range divs {
		ds, err := s.divisionScore(ctx, d, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, nil
}

// ScoreKeyResult scores a single key result against the current levels.
func (s *Service) ScoreKeyResult(ctx context.Context, in scoring.KeyResultInput) (scoring.Result, error) {
	c := s.begin("key_result_score")
	defer c.end(ctx)

	cfg, err := c.levels(ctx)
	if err != nil {
		return scoring.Result{}, err
	}
	metrics.RecordComputation(tierKeyResult)
	return s.engine.ScoreKeyResult(in, cfg), nil
}

func (s *Service) departmentScore(ctx context.Context, dept model.Department, cfg levels.Config) (types.DepartmentScore, error) {
	objs := dept.DepartmentObjectives()
	breakdown := make([]types.ObjectiveScore, 0, len(objs))
	for _, o := range objs {
		breakdown = append(breakdown, s.objectiveScore(o, cfg))
	}

	auto := s.engine.ScoreDepartment(dept.Input().Objectives, cfg)
	metrics.RecordComputation(tierDepartment)

	evals, err := s.evalStore.ForTarget(ctx, evaluation.TargetDepartment, dept.ID)
	if err != nil {
		return types.DepartmentScore{}, fmt.Errorf("department %q evaluations: %w", dept.ID, err)
	}
	combined := s.combine(auto, evals, cfg)

	return types.DepartmentScore{
		ID:                         dept.ID,
		Name:                       dept.Name,
		DivisionID:                 dept.DivisionID,
		Objectives:                 breakdown,
		HasDirectorEvaluation:      combined.Director.Present,
		HasHREvaluation:            combined.HR.Present,
		HasBusinessBlockEvaluation: combined.BusinessBlock.Present,
		CombinedResult:             combined,
	}, nil
}

func (s *Service) divisionScore(ctx context.Context, div model.Division, cfg levels.Config) (types.DivisionScore, error) {
	depts := make([]types.DepartmentScore, 0, len(div.Departments))
	for _, d := range div.Departments {
		ds, err := s.departmentScore(ctx, d, cfg)
		if err != nil {
			return types.DivisionScore{}, err
		}
		depts = append(depts, ds)
	}

	auto := s.engine.ScoreDivision(div.Input(), cfg)
	metrics.RecordComputation(tierDivision)

	evals, err := s.evalStore.ForTarget(ctx, evaluation.TargetDivision, div.ID)
	if err != nil {
		return types.DivisionScore{}, fmt.Errorf("division %q evaluations: %w", div.ID, err)
	}
	combined := s.combine(auto, evals, cfg)

	return types.DivisionScore{
		ID:                    div.ID,
		Name:                  div.Name,
		Departments:           depts,
		HasDirectorEvaluation: combined.Director.Present,
		HasHREvaluation:       combined.HR.Present,
		CombinedResult:        combined,
	}, nil
}

func (s *Service) objectiveScore(o model.Objective, cfg levels.Config) types.ObjectiveScore {
	krs := make([]types.KeyResultScore, 0, len(o.KeyResults))
	for _, kr := range o.KeyResults {
		krs = append(krs, types.KeyResultScore{
			ID:          kr.ID,
			Name:        kr.Name,
			MetricType:  string(scoring.ParseMetricType(kr.MetricType)),
			ActualValue: kr.ActualValue,
			Weight:      kr.Weight,
			Result:      s.engine.ScoreKeyResult(kr.Input(), cfg),
		})
		metrics.RecordComputation(tierKeyResult)
	}
	// objectives without key results are skipped by the department roll-up
	result := scoring.Empty(cfg)
	if len(o.KeyResults) > 0 {
		result = s.engine.ScoreObjective(o.Input().KeyResults, cfg)
		metrics.RecordComputation(tierObjective)
	}
	return types.ObjectiveScore{
		ID:         o.ID,
		Name:       o.Name,
		Weight:     o.Weight,
		KeyResults: krs,
		Result:     result,
	}
}

// combine feeds the latest evaluation of each evaluator type to the combiner.
func (s *Service) combine(auto scoring.Result, evals []model.Evaluation, cfg levels.Config) scoring.CombinedResult {
	var in scoring.Evaluations
	for _, e := range evals {
		switch e.EvaluatorType {
		case evaluation.Director:
			in.Director = e.ScoringInput()
		case evaluation.HR:
			in.HR = e.ScoringInput()
		case evaluation.BusinessBlock:
			in.BusinessBlock = e.ScoringInput()
		}
	}
	combined := s.engine.CombineEvaluations(auto, in, cfg)
	metrics.RecordCombinationPolicy(string(combined.Policy))
	return combined
}
