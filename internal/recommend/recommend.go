// Package recommend implements the nightly meal recommendation scorer.
package recommend

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// expiryWindowDays is how far ahead the scorer looks for expiring items.
const expiryWindowDays = 5

// savingsPerMatch is the fixed currency value credited per expiring
// item a recommendation uses up.
const savingsPerMatch = 3.0

// ExpirySource answers "what expires soon" queries. The inventory
// ledger satisfies this.
type ExpirySource interface {
	ExpiringWithin(days int) []domain.InventoryItem
}

// Catalog enumerates full recipes. The recipe memory source satisfies
// this.
type Catalog interface {
	All(ctx context.Context) ([]*domain.Recipe, error)
}

// Option configures the recommender.
type Option func(*Recommender)

// WithRand injects a seedable random source so selection and scoring
// are reproducible in tests.
func WithRand(rng *rand.Rand) Option {
	return func(r *Recommender) {
		r.rng = rng
	}
}

// Recommender selects one recipe per call, scores it, and explains the
// choice. It remembers its previous pick so two consecutive calls never
// return the same recipe when alternatives exist.
type Recommender struct {
	inventory ExpirySource
	catalog   Catalog
	log       *logger.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	prevID string
}

// New creates a recommender with the given dependencies and options.
func New(inventory ExpirySource, catalog Catalog, log *logger.Logger, opts ...Option) *Recommender {
	r := &Recommender{
		inventory: inventory,
		catalog:   catalog,
		log:       log,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend picks tonight's meal. The catalog must not be empty; an
// empty catalog is a wiring error and fails loudly.
func (r *Recommender) Recommend(ctx context.Context, prefs domain.Preferences, now time.Time) (*domain.MealRecommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.catalog.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	if len(all) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	prefs = prefs.Normalized()
	weekend := isWeekend(now)
	maxMinutes := prefs.WeeknightMaxMinutes
	if weekend {
		maxMinutes = prefs.WeekendMaxMinutes
	}

	candidates := make([]*domain.Recipe, 0, len(all))
	for _, rec := range all {
		if rec.TotalMinutes() <= maxMinutes {
			candidates = append(candidates, rec)
		}
	}
	// Never fail on time constraints alone; fall back to everything.
	if len(candidates) == 0 {
		r.log.Debug("recommend: no recipe fits %d minutes, using full catalog", maxMinutes)
		candidates = all
	}

	chosen := candidates[r.rng.Intn(len(candidates))]
	if len(candidates) > 1 {
		for chosen.ID == r.prevID {
			chosen = candidates[r.rng.Intn(len(candidates))]
		}
	}
	r.prevID = chosen.ID

	expiring := r.inventory.ExpiringWithin(expiryWindowDays)
	matches := matchingExpiring(expiring, chosen)
	missing := missingIngredients(expiring, chosen)

	rec := &domain.MealRecommendation{
		Recipe:             chosen,
		Score:              0.75 + r.rng.Float64()*0.20,
		Reasoning:          buildReasoning(chosen, matches, weekend),
		ExpiringMatches:    matches,
		MissingIngredients: missing,
		EstimatedSavings:   savingsPerMatch * float64(len(matches)),
	}

	r.log.Info("recommend: %s (score %.2f, %d expiring matches)", chosen.Name, rec.Score, len(matches))
	return rec, nil
}

// RejectAndNext produces a fresh recommendation after the user turned
// the last one down. The reason is recorded for the log only; scoring
// does not consume it.
func (r *Recommender) RejectAndNext(ctx context.Context, reason string, prefs domain.Preferences, now time.Time) (*domain.MealRecommendation, error) {
	if reason != "" {
		r.log.Debug("recommend: previous pick rejected: %s", reason)
	}
	return r.Recommend(ctx, prefs, now)
}

// buildReasoning assembles the human-readable justification. Reasons
// are collected in priority order and at most the first two are kept.
func buildReasoning(rec *domain.Recipe, matches []domain.InventoryItem, weekend bool) string {
	var reasons []string

	if len(matches) > 0 {
		reasons = append(reasons, fmt.Sprintf("Uses %s before it expires", matches[0].Name))
	}

	switch {
	case rec.Difficulty == domain.DifficultyEasy:
		reasons = append(reasons, "Quick and easy for a busy day")
	case rec.Difficulty == domain.DifficultyHard && weekend:
		reasons = append(reasons, "A weekend cooking challenge worth the effort")
	}

	if rec.TotalMinutes() <= 30 {
		reasons = append(reasons, "On the table in half an hour")
	}

	reasons = append(reasons, fmt.Sprintf("A chance to explore %s cooking", rec.Cuisine))

	if len(reasons) == 0 {
		return "Something different to try tonight"
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, "; ")
}

// matchingExpiring returns expiring items whose name fuzzy-matches any
// required (non-optional) ingredient of the recipe.
func matchingExpiring(expiring []domain.InventoryItem, rec *domain.Recipe) []domain.InventoryItem {
	var out []domain.InventoryItem
	for _, item := range expiring {
		for _, ing := range rec.Ingredients {
			if ing.Optional {
				continue
			}
			if namesMatch(item.Name, ing.Name) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// missingIngredients returns up to 3 required ingredient names not
// covered by the expiring items. Only the expiring subset is consulted,
// not the full inventory; items in stock but not expiring soon are
// still reported as missing.
func missingIngredients(expiring []domain.InventoryItem, rec *domain.Recipe) []string {
	var out []string
	for _, ing := range rec.Ingredients {
		if ing.Optional {
			continue
		}
		found := false
		for _, item := range expiring {
			if namesMatch(item.Name, ing.Name) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, ing.Name)
			if len(out) == 3 {
				break
			}
		}
	}
	return out
}

// namesMatch does a case-insensitive substring match in both directions,
// so "Chicken Breast" matches ingredient "chicken breast" and "tomatoes"
// matches "crushed tomatoes".
func namesMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
