package service

import (
	"context"

	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/pkg/logger"
	"github.com/okian/okrscore/pkg/metrics"
)

// Levels returns the configured levels in display order. When nothing is
// configured it returns the defaults and reports true.
func (s *Service) Levels(ctx context.Context) ([]levels.ScoreLevel, bool, error) {
	rows, err := s.levelStore.Levels(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return levels.Defaults(), true, nil
	}
	return rows, false, nil
}

// ReplaceLevels validates and stores a new level configuration.
func (s *Service) ReplaceLevels(ctx context.Context, rows []levels.ScoreLevel) error {
	if err := s.levelStore.Replace(ctx, rows); err != nil {
		s.logger.Warn(ctx, "level configuration rejected", logger.Error(err))
		return err
	}
	metrics.RecordLevelConfigUpdate("replace")
	metrics.UpdateLevelsConfigured(len(rows), false)
	s.logger.Info(ctx, "level configuration replaced", logger.Int("levels", len(rows)))
	return nil
}

// ResetLevels restores the default levels and returns them.
func (s *Service) ResetLevels(ctx context.Context) ([]levels.ScoreLevel, error) {
	if err := s.levelStore.Reset(ctx); err != nil {
		return nil, err
	}
	rows, _, err := s.Levels(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordLevelConfigUpdate("reset")
	metrics.UpdateLevelsConfigured(len(rows), false)
	s.logger.Info(ctx, "level configuration reset to defaults")
	return rows, nil
}
