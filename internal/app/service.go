// Package service provides the scoring service behind the HTTP API and the
// report CLI: it reads the organization, runs the scoring engine with a
// call-scoped level cache, and records evaluations.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/okrscore/internal/adapters/repository"
	"github.com/okian/okrscore/internal/domain/dedupe"
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/internal/domain/scoring"
	"github.com/okian/okrscore/pkg/logger"
	"github.com/okian/okrscore/pkg/metrics"
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	levelStore repository.LevelStore
	orgStore   repository.OrgStore
	evalStore  repository.EvaluationStore
	deduper    dedupe.Deduper
	engine     *scoring.Engine

	// evalMu serializes read-modify-write changes to stored evaluations.
	evalMu sync.Mutex

	// Configuration
	refreshInterval time.Duration
	now             func() time.Time

	// State
	started      bool
	startedAt    time.Time
	stopCh       chan struct{}
	computations atomic.Int64
	fallbackMu   sync.Mutex
	fallbacks    map[string]int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLevelStore sets the level configuration store.
func WithLevelStore(st repository.LevelStore) Option {
	return func(s *Service) {
		if st != nil {
			s.levelStore = st
		}
	}
}

// WithOrgStore sets the organization store.
func WithOrgStore(st repository.OrgStore) Option {
	return func(s *Service) {
		if st != nil {
			s.orgStore = st
		}
	}
}

// WithEvaluationStore sets the evaluation store.
func WithEvaluationStore(st repository.EvaluationStore) Option {
	return func(s *Service) {
		if st != nil {
			s.evalStore = st
		}
	}
}

// WithDeduper sets the evaluation idempotency tracker.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Service) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithMetricsRefreshInterval sets how often system gauges are refreshed.
func WithMetricsRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Missing stores default to empty in-memory ones.
func New(opts ...Option) *Service {
	s := &Service{
		refreshInterval: metrics.Default().RefreshInterval(),
		now:             time.Now,
		stopCh:          make(chan struct{}),
		fallbacks:       make(map[string]int64),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.levelStore == nil {
		s.levelStore = repository.NewMemoryLevelStore()
	}
	if s.orgStore == nil {
		s.orgStore, _ = repository.NewMemoryOrgStore(nil)
	}
	if s.evalStore == nil {
		s.evalStore = repository.NewMemoryEvaluationStore()
	}
	if s.deduper == nil {
		s.deduper = dedupe.NewInMemoryDeduper()
	}
	s.engine = scoring.NewEngine(scoring.WithObserver(scoring.ObserverFunc(s.observeFallback)))
	s.startedAt = s.now()
	return s
}

// NewFromSnapshot builds a Service over the stores described by snap. Levels
// in the snapshot override defaultLevels. Evaluations are checked against the
// resulting scale and stored in normalized form.
func NewFromSnapshot(snap *repository.Snapshot, defaultLevels []levels.ScoreLevel, opts ...Option) (*Service, error) {
	if snap == nil {
		snap = &repository.Snapshot{}
	}
	rows := defaultLevels
	if len(snap.Levels) > 0 {
		rows = snap.Levels
	}
	org, err := repository.NewMemoryOrgStore(snap.Divisions)
	if err != nil {
		return nil, err
	}
	cfg := levels.New(rows)
	evals := make([]model.Evaluation, 0, len(snap.Evaluations))
	keys := make([]string, 0, len(snap.Evaluations))
	for _, e := range snap.Evaluations {
		if err := e.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%w: evaluation %s: %w", repository.ErrInvalidSnapshot, e.ID, err)
		}
		e.Normalize(cfg)
		evals = append(evals, e)
		keys = append(keys, evaluationKey(e))
	}
	base := []Option{
		WithLevelStore(repository.NewMemoryLevelStore(repository.WithLevels(rows))),
		WithOrgStore(org),
		WithEvaluationStore(repository.NewMemoryEvaluationStore(repository.WithEvaluations(evals...))),
		WithDeduper(dedupe.NewInMemoryDeduper(dedupe.WithClaimed(keys...))),
	}
	return New(append(base, opts...)...), nil
}

func evaluationKey(e model.Evaluation) string {
	return dedupe.Key(e.EvaluatorID, string(e.EvaluatorType), string(e.TargetType), e.TargetID)
}

// Start begins refreshing system gauges.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.startedAt = s.now()
	go s.refreshSystemMetrics(ctx)

	s.logger.Info(ctx, "scoring service started", logger.Duration("metricsRefresh", s.refreshInterval))
	return nil
}

// Stop halts background work.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

func (s *Service) refreshSystemMetrics(ctx context.Context) {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	var ms runtime.MemStats
	for {
		runtime.ReadMemStats(&ms)
		metrics.UpdateSystemMemoryUsage(ms.HeapAlloc)
		metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		if ms.NumGC > 0 {
			metrics.RecordSystemGCPauseTime(float64(ms.PauseNs[(ms.NumGC+255)%256]) / float64(time.Millisecond))
		}

		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) observeFallback(ev scoring.FallbackEvent) {
	s.fallbackMu.Lock()
	s.fallbacks[string(ev.Kind)]++
	s.fallbackMu.Unlock()

	metrics.RecordFallback(string(ev.Kind))
	s.logger.Debug(context.Background(), "scoring fallback",
		logger.String("kind", string(ev.Kind)),
		logger.String("detail", ev.Detail),
	)
}
