package levels

import (
	"context"
	"fmt"
)

// Source supplies the currently configured level rows.
type Source interface {
	Levels(ctx context.Context) ([]ScoreLevel, error)
}

// Cache is a call-scoped snapshot of a Source. A top-level computation owns
// exactly one Cache and clears it when done; it is not safe for sharing
// between goroutines and must never outlive the call that created it.
type Cache struct {
	src    Source
	cfg    Config
	loaded bool
	loads  int
}

// NewCache returns an empty cache over src.
func NewCache(src Source) *Cache {
	return &Cache{src: src}
}

// Get loads the configuration on first use and returns the same snapshot afterwards.
func (c *Cache) Get(ctx context.Context) (Config, error) {
	if c.loaded {
		return c.cfg, nil
	}
	rows, err := c.src.Levels(ctx)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	c.cfg = New(rows)
	c.loaded = true
	c.loads++
	return c.cfg, nil
}

// Clear drops the snapshot so the next Get reloads.
func (c *Cache) Clear() {
	c.cfg = Config{}
	c.loaded = false
}

// Loads reports how many times the source was queried.
func (c *Cache) Loads() int { return c.loads }
