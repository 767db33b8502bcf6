package repository

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/okian/okrscore/internal/domain/evaluation"
	"github.com/okian/okrscore/internal/domain/levels"
	"github.com/okian/okrscore/internal/domain/model"
	"github.com/okian/okrscore/pkg/metrics"
)

// Snapshot is the organization state handed to the service at startup.
type Snapshot struct {
	Levels      []levels.ScoreLevel `yaml:"levels"`
	Divisions   []model.Division    `yaml:"divisions"`
	Evaluations []model.Evaluation  `yaml:"evaluations"`
}

// LoadSnapshot reads and normalizes a YAML snapshot file.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return DecodeSnapshot(f)
}

// DecodeSnapshot reads a YAML snapshot from r.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	start := time.Now()

	var snap Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if len(snap.Levels) > 0 {
		if err := levels.Validate(snap.Levels); err != nil {
			return nil, fmt.Errorf("%w: levels: %w", ErrInvalidSnapshot, err)
		}
	}
	for i := range snap.Evaluations {
		if err := normalizeEvaluation(&snap.Evaluations[i]); err != nil {
			return nil, fmt.Errorf("%w: evaluation %d: %w", ErrInvalidSnapshot, i, err)
		}
	}

	metrics.RecordSnapshotLoad(float64(time.Since(start).Microseconds()) / 1000)
	return &snap, nil
}

func normalizeEvaluation(e *model.Evaluation) error {
	et, err := evaluation.ParseEvaluatorType(string(e.EvaluatorType))
	if err != nil {
		return err
	}
	tt, err := evaluation.ParseTargetType(string(e.TargetType))
	if err != nil {
		return err
	}
	e.EvaluatorType, e.TargetType = et, tt
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	switch e.Status {
	case "":
		e.Status = evaluation.StatusSubmitted
	case evaluation.StatusDraft, evaluation.StatusSubmitted, evaluation.StatusApproved:
	default:
		return fmt.Errorf("%q: %w", e.Status, ErrInvalidStatus)
	}
	return nil
}
