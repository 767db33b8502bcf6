package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/pkg/logger"
	"github.com/okian/okrscore/pkg/metrics"
)

// computation is one top-level read. It owns the level cache for its
// duration and is never shared between requests.
type computation struct {
	id    string
	op    string
	cache *levels.Cache
	start time.Time
	log   logger.Logger
}

func (s *Service) begin(op string) *computation {
	id := uuid.NewString()
	s.computations.Add(1)
	return &computation{
		id:    id,
		op:    op,
		cache: levels.NewCache(s.levelStore),
		start: time.Now(),
		log:   s.logger.With(logger.String("op", op), logger.String("run", id)),
	}
}

// levels returns the snapshot shared by every step of this computation.
func (c *computation) levels(ctx context.Context) (levels.Config, error) {
	first := c.cache.Loads() == 0
	cfg, err := c.cache.Get(ctx)
	if err != nil {
		c.log.Error(ctx, "level configuration unavailable", logger.Error(err))
		return levels.Config{}, err
	}
	if first {
		metrics.UpdateLevelsConfigured(cfg.Len(), cfg.Fallback())
		if cfg.Fallback() {
			metrics.RecordFallback("default_levels")
			c.log.Debug(ctx, "no levels configured, using defaults")
		}
	}
	return cfg, nil
}

// end clears the cache on every path and records the latency.
func (c *computation) end(ctx context.Context) {
	metrics.RecordLevelCacheLoads(c.cache.Loads())
	c.cache.Clear()
	elapsed := time.Since(c.start)
	metrics.RecordComputationLatency(c.op, float64(elapsed.Microseconds())/1000)
	c.log.Debug(ctx, "computation finished", logger.Duration("elapsed", elapsed))
}
