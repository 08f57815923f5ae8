package admin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frenchcercle/cercle/internal/models"
)

// Lister fetches the full registrant collection, newest first
type Lister interface {
	ListRegistrants(ctx context.Context) ([]models.Registrant, error)
}

// Directory is the in-memory registrant collection shown to admins. New
// registrants are prepended; Load replaces the collection from the store.
type Directory struct {
	mu          sync.RWMutex
	lister      Lister
	logger      *slog.Logger
	items       []models.Registrant
	placeholder bool

	// registrants prepended while at least one Load is fetching
	loading int
	pending []models.Registrant

	subMu   sync.Mutex
	subs    map[int]chan models.Registrant
	nextSub int
}

// NewDirectory creates an empty directory backed by lister
func NewDirectory(lister Lister, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		lister: lister,
		logger: logger,
		subs:   make(map[int]chan models.Registrant),
	}
}

// Load fetches the collection. On failure the built-in placeholder
// collection is shown instead and the failure is logged; Load reports
// whether real data was loaded. Registrants prepended during the fetch
// are kept on top of the fetched snapshot.
func (d *Directory) Load(ctx context.Context) bool {
	d.mu.Lock()
	d.loading++
	d.mu.Unlock()

	items, err := d.lister.ListRegistrants(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	added := d.pending
	d.loading--
	if d.loading == 0 {
		d.pending = nil
	}

	if err != nil {
		d.logger.Error("failed to load registrant directory, showing placeholder data", "error", err)
		d.items = Placeholder()
		d.placeholder = true
		return false
	}
	d.items = mergeAdded(items, added)
	d.placeholder = false
	return true
}

// mergeAdded puts registrants missing from snapshot on top of it, newest
// first. added is in prepend order.
func mergeAdded(snapshot, added []models.Registrant) []models.Registrant {
	if len(added) == 0 {
		return snapshot
	}
	seen := make(map[string]struct{}, len(snapshot))
	for _, r := range snapshot {
		seen[r.ID] = struct{}{}
	}
	out := make([]models.Registrant, 0, len(snapshot)+len(added))
	for i := len(added) - 1; i >= 0; i-- {
		if _, ok := seen[added[i].ID]; ok {
			continue
		}
		seen[added[i].ID] = struct{}{}
		out = append(out, added[i])
	}
	return append(out, snapshot...)
}

// Prepend adds a newly created registrant at the top and notifies
// subscribers
func (d *Directory) Prepend(r models.Registrant) {
	d.mu.Lock()
	next := make([]models.Registrant, 0, len(d.items)+1)
	next = append(next, r)
	d.items = append(next, d.items...)
	if d.loading > 0 {
		d.pending = append(d.pending, r)
	}
	d.mu.Unlock()

	d.publish(r)
}

// List returns a copy of the collection
func (d *Directory) List() []models.Registrant {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Registrant, len(d.items))
	copy(out, d.items)
	return out
}

// IsPlaceholder reports whether the collection is the placeholder data
func (d *Directory) IsPlaceholder() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.placeholder
}

// Subscribe returns a channel receiving every prepended registrant and a
// cancel func. Slow subscribers miss events rather than block writers.
func (d *Directory) Subscribe() (<-chan models.Registrant, func()) {
	ch := make(chan models.Registrant, 16)

	d.subMu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch
	d.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, id)
			d.subMu.Unlock()
			close(ch)
		})
	}
}

func (d *Directory) publish(r models.Registrant) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for id, ch := range d.subs {
		select {
		case ch <- r:
		default:
			d.logger.Warn("directory subscriber is slow, dropping event", "subscriber", id)
		}
	}
}

// Placeholder is shown when the store cannot be read
func Placeholder() []models.Registrant {
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return []models.Registrant{
		{
			ID:             "sample-2",
			FirstName:      "Sophie",
			LastName:       "Example",
			Email:          "sophie@example.com",
			CourseInterest: "French for Business",
			Level:          "B1",
			Mode:           models.ModeInPerson,
			Status:         models.StatusContacted,
			SubmittedDate:  "2025-01-15",
			CreatedAt:      created,
		},
		{
			ID:             "sample-1",
			FirstName:      "Marc",
			LastName:       "Example",
			Email:          "marc@example.com",
			CourseInterest: "General French (A1-B2)",
			Level:          "A1",
			Mode:           models.ModeOnline,
			Status:         models.StatusPending,
			SubmittedDate:  "2025-01-14",
			CreatedAt:      created.Add(-24 * time.Hour),
		},
	}
}
