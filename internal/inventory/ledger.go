// Package inventory implements the household food inventory ledger.
package inventory

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Ledger holds inventory items in memory. Safe for concurrent use.
// The ledger is the sole owner of item state; other components read
// snapshots through its queries.
type Ledger struct {
	mu    sync.RWMutex
	items map[string]*domain.InventoryItem
	log   *logger.Logger
	now   func() time.Time
}

// Option configures the ledger.
type Option func(*Ledger)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// NewLedger creates an empty inventory ledger.
func NewLedger(log *logger.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		items: make(map[string]*domain.InventoryItem),
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add inserts an item, assigning its identity and added timestamp.
// Malformed input is coerced rather than rejected: an empty name
// becomes "Unnamed item" and a non-positive quantity becomes 1.
func (l *Ledger) Add(item domain.InventoryItem) domain.InventoryItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	item.ID = uuid.NewString()
	item.AddedAt = l.now()
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		item.Name = "Unnamed item"
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	l.items[item.ID] = &item
	l.log.Debug("inventory: added %q x%d (%s, %s)", item.Name, item.Quantity, item.Category, item.Location)
	return item
}

// ParseQuantity coerces raw user input to a positive quantity,
// defaulting to 1 when it doesn't parse.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// Remove deletes an item by id. Removing an unknown id is a no-op.
func (l *Ledger) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.items[id]; !ok {
		l.log.Debug("inventory: remove of unknown id %s ignored", id)
		return
	}
	delete(l.items, id)
	l.log.Debug("inventory: removed %s", id)
}

// SetQuantity updates an item's quantity, clamped at zero. Unknown ids
// are ignored.
func (l *Ledger) SetQuantity(id string, quantity int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return
	}
	if quantity < 0 {
		quantity = 0
	}
	item.Quantity = quantity
}

// Get returns a copy of an item by id.
func (l *Ledger) Get(id string) (domain.InventoryItem, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, ok := l.items[id]
	if !ok {
		return domain.InventoryItem{}, false
	}
	return *item, true
}

// All returns every item, sorted by added time then name for stable
// listings.
func (l *Ledger) All() []domain.InventoryItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.InventoryItem, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.Before(out[j].AddedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ExpiringWithin returns items whose expiry is tracked and falls within
// the next N days, sorted ascending by days remaining. Items without an
// expiry date are excluded. This is the critical read path for the
// recommender.
func (l *Ledger) ExpiringWithin(days int) []domain.InventoryItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := l.now()
	cutoff := now.AddDate(0, 0, days)

	var out []domain.InventoryItem
	for _, item := range l.items {
		if item.ExpiresAt == nil {
			continue
		}
		if item.ExpiresAt.After(cutoff) {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ExpiresAt.Before(*out[j].ExpiresAt)
	})
	l.log.Debug("inventory: %d items expiring within %d days", len(out), days)
	return out
}

// ByLocation returns items stored at the given location.
func (l *Ledger) ByLocation(loc domain.Location) []domain.InventoryItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.InventoryItem
	for _, item := range l.items {
		if item.Location == loc {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns items in the given category.
func (l *Ledger) ByCategory(cat domain.Category) []domain.InventoryItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.InventoryItem
	for _, item := range l.items {
		if item.Category == cat {
			out = append(out, *item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Snapshot returns all items for persistence.
func (l *Ledger) Snapshot() []domain.InventoryItem {
	return l.All()
}

// Restore replaces the ledger contents, used when loading saved state.
func (l *Ledger) Restore(items []domain.InventoryItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = make(map[string]*domain.InventoryItem, len(items))
	for i := range items {
		item := items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		l.items[item.ID] = &item
	}
	l.log.Debug("inventory: restored %d items", len(items))
}
