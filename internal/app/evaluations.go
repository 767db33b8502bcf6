package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/okrscore/internal/domain/dedupe"
	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/internal/domain/types"
	"github.com/okian/okrscore/pkg/logger"
	"github.com/okian/okrscore/pkg/metrics"
)

// SubmitEvaluation validates and records one evaluation. A second rating by
// the same evaluator for the same target fails with dedupe.ErrDuplicateEvaluation.
func (s *Service) SubmitEvaluation(ctx context.Context, req types.EvaluationRequest) (model.Evaluation, error) {
	c := s.begin("submit_evaluation")
	defer c.end(ctx)

	ev, err := s.buildEvaluation(req)
	if err != nil {
		return model.Evaluation{}, s.reject(ctx, rejectReason(err), err)
	}

	cfg, err := c.levels(ctx)
	if err != nil {
		return model.Evaluation{}, err
	}
	if err := ev.Validate(cfg); err != nil {
		return model.Evaluation{}, s.reject(ctx, rejectReason(err), err)
	}
	ev.Normalize(cfg)
	if err := s.targetExists(ctx, ev.TargetType, ev.TargetID); err != nil {
		return model.Evaluation{}, s.reject(ctx, "unknown_target", err)
	}

	key := evaluationKey(ev)
	if err := s.deduper.Claim(ctx, key); err != nil {
		return model.Evaluation{}, s.reject(ctx, "duplicate", err)
	}
	if err := s.evalStore.Add(ctx, ev); err != nil {
		s.deduper.Release(ctx, key)
		s.logger.Error(ctx, "store evaluation failed", logger.String("id", ev.ID), logger.Error(err))
		return model.Evaluation{}, fmt.Errorf("store evaluation: %w", err)
	}

	if ev.Status.Final() {
		metrics.RecordEvaluationSubmitted(string(ev.EvaluatorType))
	}
	s.logger.Info(ctx, "evaluation recorded",
		logger.String("id", ev.ID),
		logger.String("evaluatorType", string(ev.EvaluatorType)),
		logger.String("target", string(ev.TargetType)+"/"+ev.TargetID),
		logger.String("status", string(ev.Status)),
	)
	return ev, nil
}

// Evaluation returns one evaluation in any status.
func (s *Service) Evaluation(ctx context.Context, id string) (model.Evaluation, error) {
	return s.evalStore.Get(ctx, id)
}

// EvaluationsForTarget lists every evaluation of a target, drafts included.
func (s *Service) EvaluationsForTarget(ctx context.Context, targetType, targetID string) ([]model.Evaluation, error) {
	tt, err := evaluation.ParseTargetType(targetType)
	if err != nil {
		return nil, err
	}
	if err := s.targetExists(ctx, tt, targetID); err != nil {
		return nil, err
	}
	return s.evalStore.ListForTarget(ctx, tt, targetID)
}

// SubmitDraft moves a draft to SUBMITTED so it counts toward scores. The
// rating is checked again since levels may have changed since it was saved.
func (s *Service) SubmitDraft(ctx context.Context, id, evaluatorID string) (model.Evaluation, error) {
	c := s.begin("submit_draft")
	defer c.end(ctx)

	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	ev, err := s.ownedEvaluation(ctx, id, evaluatorID)
	if err != nil {
		return model.Evaluation{}, err
	}
	if ev.Status != evaluation.StatusDraft {
		return model.Evaluation{}, s.reject(ctx, "not_draft", fmt.Errorf("evaluation %s is %s: %w", id, ev.Status, ErrNotDraft))
	}
	cfg, err := c.levels(ctx)
	if err != nil {
		return model.Evaluation{}, err
	}
	if err := ev.Validate(cfg); err != nil {
		return model.Evaluation{}, s.reject(ctx, rejectReason(err), err)
	}

	now := s.now()
	ev.Status = evaluation.StatusSubmitted
	if ev.SubmittedAt == nil {
		ev.SubmittedAt = &now
	}
	if err := s.evalStore.Update(ctx, ev); err != nil {
		return model.Evaluation{}, fmt.Errorf("submit evaluation: %w", err)
	}

	metrics.RecordEvaluationSubmitted(string(ev.EvaluatorType))
	s.logger.Info(ctx, "draft submitted", logger.String("id", ev.ID))
	return ev, nil
}

// UpdateEvaluation replaces the rating and comment of an evaluation in any
// status. Only the original evaluator may change it.
func (s *Service) UpdateEvaluation(ctx context.Context, id string, req types.EvaluationUpdate) (model.Evaluation, error) {
	c := s.begin("update_evaluation")
	defer c.end(ctx)

	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	ev, err := s.ownedEvaluation(ctx, id, req.EvaluatorID)
	if err != nil {
		return model.Evaluation{}, err
	}
	cfg, err := c.levels(ctx)
	if err != nil {
		return model.Evaluation{}, err
	}

	ev.NumericRating, ev.StarRating = req.NumericRating, req.StarRating
	ev.LetterRating, ev.Comment = req.LetterRating, req.Comment
	if err := ev.Validate(cfg); err != nil {
		return model.Evaluation{}, s.reject(ctx, rejectReason(err), err)
	}
	ev.Normalize(cfg)
	now := s.now()
	ev.UpdatedAt = &now

	if err := s.evalStore.Update(ctx, ev); err != nil {
		return model.Evaluation{}, fmt.Errorf("update evaluation: %w", err)
	}
	s.logger.Info(ctx, "evaluation updated", logger.String("id", ev.ID), logger.String("status", string(ev.Status)))
	return ev, nil
}

// DeleteEvaluation removes a draft and frees the evaluator's slot for the
// target. Submitted evaluations cannot be deleted.
func (s *Service) DeleteEvaluation(ctx context.Context, id, evaluatorID string) error {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	ev, err := s.ownedEvaluation(ctx, id, evaluatorID)
	if err != nil {
		return err
	}
	if ev.Status != evaluation.StatusDraft {
		return s.reject(ctx, "not_draft", fmt.Errorf("evaluation %s is %s: %w", id, ev.Status, ErrNotDraft))
	}
	if err := s.evalStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete evaluation: %w", err)
	}
	s.deduper.Release(ctx, evaluationKey(ev))

	s.logger.Info(ctx, "draft deleted", logger.String("id", id))
	return nil
}

func (s *Service) ownedEvaluation(ctx context.Context, id, evaluatorID string) (model.Evaluation, error) {
	if strings.TrimSpace(evaluatorID) == "" {
		return model.Evaluation{}, s.reject(ctx, "missing_field", fmt.Errorf("evaluatorId: %w", ErrInvalidEvaluation))
	}
	ev, err := s.evalStore.Get(ctx, id)
	if err != nil {
		return model.Evaluation{}, err
	}
	if ev.EvaluatorID != evaluatorID {
		return model.Evaluation{}, s.reject(ctx, "not_owner", fmt.Errorf("evaluation %s: %w", id, ErrNotOwner))
	}
	return ev, nil
}

func (s *Service) buildEvaluation(req types.EvaluationRequest) (model.Evaluation, error) {
	if strings.TrimSpace(req.EvaluatorID) == "" {
		return model.Evaluation{}, fmt.Errorf("evaluatorId: %w", ErrInvalidEvaluation)
	}
	if strings.TrimSpace(req.TargetID) == "" {
		return model.Evaluation{}, fmt.Errorf("targetId: %w", ErrInvalidEvaluation)
	}
	et, err := evaluation.ParseEvaluatorType(req.EvaluatorType)
	if err != nil {
		return model.Evaluation{}, err
	}
	tt, err := evaluation.ParseTargetType(req.TargetType)
	if err != nil {
		return model.Evaluation{}, err
	}

	now := s.now()
	ev := model.Evaluation{
		ID:            uuid.NewString(),
		EvaluatorID:   req.EvaluatorID,
		EvaluatorType: et,
		TargetType:    tt,
		TargetID:      req.TargetID,
		NumericRating: req.NumericRating,
		StarRating:    req.StarRating,
		LetterRating:  strings.ToUpper(strings.TrimSpace(req.LetterRating)),
		Comment:       req.Comment,
		Status:        evaluation.StatusSubmitted,
		CreatedAt:     now,
		SubmittedAt:   &now,
	}
	if req.Draft {
		ev.Status, ev.SubmittedAt = evaluation.StatusDraft, nil
	}
	return ev, nil
}

func (s *Service) targetExists(ctx context.Context, tt evaluation.TargetType, id string) error {
	if tt == evaluation.TargetDivision {
		_, err := s.orgStore.Division(ctx, id)
		return err
	}
	_, err := s.orgStore.Department(ctx, id)
	return err
}

func (s *Service) reject(ctx context.Context, reason string, err error) error {
	metrics.RecordEvaluationRejected(reason)
	s.logger.Warn(ctx, "evaluation rejected", logger.String("reason", reason), logger.Error(err))
	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, evaluation.ErrInvalidStars):
		return "invalid_stars"
	case errors.Is(err, evaluation.ErrInvalidLetter):
		return "invalid_letter"
	case errors.Is(err, evaluation.ErrRatingOutOfRange):
		return "out_of_range"
	case errors.Is(err, evaluation.ErrTargetNotAllowed):
		return "target_not_allowed"
	case errors.Is(err, evaluation.ErrMissingRating):
		return "missing_rating"
	case errors.Is(err, evaluation.ErrAmbiguousRating):
		return "ambiguous_rating"
	case errors.Is(err, dedupe.ErrDuplicateEvaluation):
		return "duplicate"
	case errors.Is(err, evaluation.ErrMissingField):
		return "missing_field"
	case errors.Is(err, evaluation.ErrUnknownEvaluatorType), errors.Is(err, evaluation.ErrUnknownTargetType):
		return "unknown_type"
	default:
		return "invalid"
	}
}
