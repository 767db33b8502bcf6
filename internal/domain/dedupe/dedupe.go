// Package dedupe tracks which evaluator already rated which target.
package dedupe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrDuplicateEvaluation is returned when a key was already claimed.
var ErrDuplicateEvaluation = errors.New("evaluation already submitted")

// Deduper records evaluation keys to ensure one rating per evaluator and target.
type Deduper interface {
	// Claim records key, or returns ErrDuplicateEvaluation if it is already held.
	Claim(ctx context.Context, key string) error

	// Release drops key so it can be claimed again. Used when storing the
	// evaluation failed after the claim.
	Release(ctx context.Context, key string)

	Size() int64
}

// Key builds the idempotency key for one evaluator rating one target.
func Key(evaluatorID, evaluatorType, targetType, targetID string) string {
	return strings.Join([]string{evaluatorID, strings.ToUpper(evaluatorType), strings.ToUpper(targetType), targetID}, "|")
}

type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper. Keys are never evicted.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{seen: make(map[string]struct{})}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) Claim(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return ErrDuplicateEvaluation
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return nil
}

func (d *inMemoryDeduper) Release(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// Size returns the number of claimed keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
