// Package plan owns the meal plan: which recipe is planned or was
// cooked on which day.
package plan

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Store holds meal plan entries in memory. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*domain.MealPlanEntry
	log     *logger.Logger
	now     func() time.Time
}

// Option configures the store.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty meal plan store.
func NewStore(log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*domain.MealPlanEntry),
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates an incomplete entry for a recipe on the given date.
func (s *Store) Add(recipeID string, date time.Time) domain.MealPlanEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &domain.MealPlanEntry{
		ID:        uuid.NewString(),
		RecipeID:  recipeID,
		Date:      date,
		CreatedAt: s.now(),
	}
	s.entries[entry.ID] = entry
	s.log.Debug("plan: added entry %s for recipe %s on %s", entry.ID, recipeID, date.Format("2006-01-02"))
	return *entry
}

// Complete marks an entry cooked, optionally with a rating and notes.
func (s *Store) Complete(id string, rating *int, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	entry.Completed = true
	entry.Rating = rating
	entry.Notes = notes
	s.log.Debug("plan: completed entry %s (rated=%v)", id, rating != nil)
	return nil
}

// Get returns a copy of an entry by id.
func (s *Store) Get(id string) (domain.MealPlanEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return domain.MealPlanEntry{}, false
	}
	return *entry, true
}

// All returns every entry sorted by date.
func (s *Store) All() []domain.MealPlanEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.MealPlanEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Upcoming returns incomplete entries dated today or later, sorted by
// date. This is the input set for prep task derivation.
func (s *Store) Upcoming(now time.Time) []domain.MealPlanEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var out []domain.MealPlanEntry
	for _, e := range s.entries {
		if e.Completed {
			continue
		}
		if e.Date.Before(today) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CompletedCount returns how many entries have been cooked.
func (s *Store) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if e.Completed {
			n++
		}
	}
	return n
}

// Snapshot returns all entries for persistence.
func (s *Store) Snapshot() []domain.MealPlanEntry {
	return s.All()
}

// Restore replaces the store contents, used when loading saved state.
func (s *Store) Restore(entries []domain.MealPlanEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*domain.MealPlanEntry, len(entries))
	for i := range entries {
		e := entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.entries[e.ID] = &e
	}
	s.log.Debug("plan: restored %d entries", len(entries))
}
