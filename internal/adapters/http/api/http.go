// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	repository "github.com/okian/okrscore/internal/adapters/repository"
	"github.com/okian/okrscore/internal/domain/dedupe"
	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/internal/domain/scoring"
	"github.com/okian/okrscore/internal/domain/types"
	"github.com/okian/okrscore/pkg/logger"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	DepartmentScore(ctx context.Context, id string) (types.DepartmentScore, error)
	AllDepartmentScores(ctx context.Context) ([]types.DepartmentScore, error)
	DivisionScore(ctx context.Context, id string) (types.DivisionScore, error)
	AllDivisionScores(ctx context.Context) ([]types.DivisionScore, error)
	ScoreKeyResult(ctx context.Context, in scoring.KeyResultInput) (scoring.Result, error)

	SubmitEvaluation(ctx context.Context, req types.EvaluationRequest) (model.Evaluation, error)
	Evaluation(ctx context.Context, id string) (model.Evaluation, error)
	EvaluationsForTarget(ctx context.Context, targetType, targetID string) ([]model.Evaluation, error)
	SubmitDraft(ctx context.Context, id, evaluatorID string) (model.Evaluation, error)
	UpdateEvaluation(ctx context.Context, id string, req types.EvaluationUpdate) (model.Evaluation, error)
	DeleteEvaluation(ctx context.Context, id, evaluatorID string) error

	// Levels returns the configured rows and whether the defaults are in use.
	Levels(ctx context.Context) ([]levels.ScoreLevel, bool, error)
	ReplaceLevels(ctx context.Context, rows []levels.ScoreLevel) error
	ResetLevels(ctx context.Context) ([]levels.ScoreLevel, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	levelsHandler     *LevelsHandler
	scoresHandler     *ScoresHandler
	evaluationHandler *EvaluationHandler
	keyResultHandler  *KeyResultHandler
}

// Option configures the Server.
type Option func(*settings)

type settings struct {
	maxBodyBytes int64
	log          logger.Logger
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	cfg := settings{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.NewNop()
	}
	rw := responder{log: cfg.log, maxBodyBytes: cfg.maxBodyBytes}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		levelsHandler:     &LevelsHandler{deps: deps, responder: rw},
		scoresHandler:     &ScoresHandler{deps: deps, responder: rw},
		evaluationHandler: &EvaluationHandler{deps: deps, responder: rw},
		keyResultHandler:  &KeyResultHandler{deps: deps, responder: rw},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/levels/reset", MetricsMiddleware(s.levelsHandler.HandleReset, "levels_reset"))
	mux.HandleFunc("/levels", MetricsMiddleware(s.levelsHandler.HandleLevels, "levels"))
	mux.HandleFunc("/departments/", MetricsMiddleware(s.scoresHandler.HandleGetDepartment, "department"))
	mux.HandleFunc("/departments", MetricsMiddleware(s.scoresHandler.HandleListDepartments, "departments"))
	mux.HandleFunc("/divisions/", MetricsMiddleware(s.scoresHandler.HandleGetDivision, "division"))
	mux.HandleFunc("/divisions", MetricsMiddleware(s.scoresHandler.HandleListDivisions, "divisions"))
	mux.HandleFunc("/evaluations", MetricsMiddleware(s.evaluationHandler.HandlePostEvaluation, "evaluations"))
	mux.HandleFunc("/evaluations/target/", MetricsMiddleware(s.evaluationHandler.HandleListForTarget, "evaluations_target"))
	mux.HandleFunc("/evaluations/", MetricsMiddleware(s.evaluationHandler.HandleEvaluation, "evaluation"))
	mux.HandleFunc("/score/key-result", MetricsMiddleware(s.keyResultHandler.HandleScoreKeyResult, "score_key_result"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// responder holds what every handler needs to read bodies and report failures.
type responder struct {
	log          logger.Logger
	maxBodyBytes int64
}

// readBody reads at most maxBodyBytes and, when schema is set, validates it.
func (rs responder) readBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rs.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if schema != nil {
		if err := validateBody(schema, body); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// fail maps err onto a status code and writes it. Unexpected errors are logged.
func (rs responder) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		rs.log.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		err = errors.New(http.StatusText(status))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrUnsupportedPath):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, dedupe.ErrDuplicateEvaluation):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, evaluation.ErrNotDraft):
		return http.StatusConflict, "not_draft"
	case errors.Is(err, evaluation.ErrNotOwner):
		return http.StatusForbidden, "forbidden"
	case isValidation(err):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

var validationErrors = []error{
	ErrBadRequest,
	ErrSchema,
	ErrMissingID,
	evaluation.ErrMissingField,
	evaluation.ErrUnknownEvaluatorType,
	evaluation.ErrUnknownTargetType,
	evaluation.ErrMissingRating,
	evaluation.ErrInvalidStars,
	evaluation.ErrInvalidLetter,
	evaluation.ErrRatingOutOfRange,
	evaluation.ErrTargetNotAllowed,
	evaluation.ErrAmbiguousRating,
	levels.ErrEmptyConfig,
	levels.ErrInvalidName,
	levels.ErrDuplicateName,
	levels.ErrInvalidColor,
	levels.ErrInvalidScoreValue,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// pathID returns the single path segment after prefix.
func pathID(path, prefix string) (string, error) {
	id := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	switch {
	case id == "":
		return "", ErrMissingID
	case strings.Contains(id, "/"):
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPath, path)
	}
	return id, nil
}
