package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/frenchcercle/cercle/internal/site"
)

// Sweepable is the part of site.Visits the cleaner drives
type Sweepable interface {
	Expired(ctx context.Context) ([]*site.Store, error)
	Delete(ctx context.Context, id string) error
}

// Cleaner handles periodic removal of idle visits
type Cleaner struct {
	visits   Sweepable
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(visits Sweepable, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Cleaner{
		visits:   visits,
		interval: interval,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Cleaner) run(ctx context.Context) {
	slog.Info("visit cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("visit cleanup worker stopped")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep drops every idle visit once and returns how many were removed
func (c *Cleaner) Sweep(ctx context.Context) int {
	expired, err := c.visits.Expired(ctx)
	if err != nil {
		slog.Error("failed to list idle visits", "error", err)
		return 0
	}

	if len(expired) == 0 {
		slog.Debug("no idle visits found")
		return 0
	}

	removed := 0
	for _, s := range expired {
		if err := c.visits.Delete(ctx, s.ID()); err != nil {
			slog.Warn("failed to drop idle visit", "error", err, "visit_id", s.ID())
			continue
		}
		removed++
	}

	slog.Info("idle visits dropped", "count", removed)
	return removed
}
