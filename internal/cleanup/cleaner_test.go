package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/frenchcercle/cercle/internal/admin"
	"github.com/frenchcercle/cercle/internal/models"
	"github.com/frenchcercle/cercle/internal/site"
)

type emptyLister struct{}

func (emptyLister) ListRegistrants(ctx context.Context) ([]models.Registrant, error) {
	return nil, nil
}

func TestSweepDropsIdleVisits(t *testing.T) {
	deps := site.Deps{Directory: admin.NewDirectory(emptyLister{}, nil)}
	visits := site.NewVisits(deps, time.Millisecond)
	ctx := context.Background()

	visits.Create(ctx, "")
	visits.Create(ctx, "")
	time.Sleep(10 * time.Millisecond)

	c := NewCleaner(visits, time.Minute)
	if n := c.Sweep(ctx); n != 2 {
		t.Fatalf("expected 2 visits dropped, got %d", n)
	}
	if visits.Len() != 0 {
		t.Errorf("expected no visits left, got %d", visits.Len())
	}
	if n := c.Sweep(ctx); n != 0 {
		t.Errorf("second sweep must be a no-op, got %d", n)
	}
}
