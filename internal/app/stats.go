package service

import (
	"context"

	"github.com/okian/okrscore/internal/domain/types"
)

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.RLock()
	startedAt := s.startedAt
	s.mu.RUnlock()

	st := types.Stats{
		Evaluations:  s.evalStore.Count(ctx),
		Computations: s.computations.Load(),
		Fallbacks:    make(map[string]int64),
		StartedAt:    startedAt,
		Uptime:       s.now().Sub(startedAt),
	}
	if divs, err := s.orgStore.Divisions(ctx); err == nil {
		st.Divisions = len(divs)
	}
	if depts, err := s.orgStore.Departments(ctx); err == nil {
		st.Departments = len(depts)
	}
	if rows, defaults, err := s.Levels(ctx); err == nil {
		st.Levels = len(rows)
		st.DefaultLevelsActive = defaults
	}

	s.fallbackMu.Lock()
	for k, v := range s.fallbacks {
		st.Fallbacks[k] = v
	}
	s.fallbackMu.Unlock()
	return st
}
