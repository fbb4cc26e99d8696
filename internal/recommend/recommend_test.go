package recommend

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Wednesday and Saturday evenings, for deterministic weekday checks.
var (
	weeknight = time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	weekend   = time.Date(2026, 8, 29, 18, 0, 0, 0, time.UTC)
)

type fakeExpiry struct {
	items []domain.InventoryItem
}

func (f *fakeExpiry) ExpiringWithin(days int) []domain.InventoryItem {
	return f.items
}

type fakeCatalog struct {
	recipes []*domain.Recipe
}

func (f *fakeCatalog) All(ctx context.Context) ([]*domain.Recipe, error) {
	return f.recipes, nil
}

func quick(id string) *domain.Recipe {
	return &domain.Recipe{
		ID: id, Name: id, Cuisine: "test",
		PrepMinutes: 10, CookMinutes: 15,
		Difficulty: domain.DifficultyEasy,
		Ingredients: []domain.Ingredient{
			{Name: "chicken breast", Amount: 2, Unit: "pieces"},
			{Name: "lemon", Amount: 1, Unit: "pieces"},
			{Name: "garnish", Amount: 1, Unit: "tbsp", Optional: true},
		},
	}
}

func slow(id string) *domain.Recipe {
	return &domain.Recipe{
		ID: id, Name: id, Cuisine: "test",
		PrepMinutes: 30, CookMinutes: 150,
		Difficulty: domain.DifficultyHard,
		Ingredients: []domain.Ingredient{
			{Name: "beef chuck", Amount: 800, Unit: "g"},
		},
	}
}

func newRecommender(t *testing.T, inv ExpirySource, cat Catalog, seed int64) *Recommender {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	return New(inv, cat, log, WithRand(rand.New(rand.NewSource(seed))))
}

func TestEmptyCatalog(t *testing.T) {
	r := newRecommender(t, &fakeExpiry{}, &fakeCatalog{}, 1)
	_, err := r.Recommend(context.Background(), domain.Preferences{}, weeknight)
	if !errors.Is(err, domain.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestScoreRange(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{quick("a"), quick("b"), quick("c")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 7)

	for i := 0; i < 50; i++ {
		rec, err := r.Recommend(context.Background(), domain.Preferences{}, weeknight)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if rec.Score < 0.75 || rec.Score >= 0.95 {
			t.Fatalf("score %.3f outside [0.75, 0.95)", rec.Score)
		}
	}
}

func TestNoImmediateRepeat(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{quick("a"), quick("b"), quick("c")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 42)
	ctx := context.Background()

	prev := ""
	for i := 0; i < 25; i++ {
		rec, err := r.Recommend(ctx, domain.Preferences{}, weeknight)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if rec.Recipe.ID == prev {
			t.Fatalf("iteration %d repeated %q", i, prev)
		}
		prev = rec.Recipe.ID
	}
}

func TestSingleRecipeMayRepeat(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{quick("only")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec, err := r.Recommend(ctx, domain.Preferences{}, weeknight)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if rec.Recipe.ID != "only" {
			t.Fatalf("got %q", rec.Recipe.ID)
		}
	}
}

func TestWeeknightTimeFilter(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{quick("fast"), slow("braise")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 3)
	ctx := context.Background()

	// Default weeknight budget is 45 minutes; only "fast" fits, so the
	// no-repeat rule is suspended and it comes back every time.
	for i := 0; i < 10; i++ {
		rec, err := r.Recommend(ctx, domain.Preferences{}, weeknight)
		if err != nil {
			t.Fatalf("recommend: %v", err)
		}
		if rec.Recipe.ID != "fast" {
			t.Fatalf("weeknight pick = %q, want fast", rec.Recipe.ID)
		}
	}
}

func TestFallbackWhenNothingFits(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{slow("braise")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 3)

	// Nothing fits 45 minutes; time constraints alone never fail.
	rec, err := r.Recommend(context.Background(), domain.Preferences{}, weeknight)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if rec.Recipe.ID != "braise" {
		t.Fatalf("fallback pick = %q", rec.Recipe.ID)
	}
}

func TestExpiringMatchDrivesEvidence(t *testing.T) {
	exp := time.Now().AddDate(0, 0, 2)
	inv := &fakeExpiry{items: []domain.InventoryItem{
		{Name: "Chicken Breast", ExpiresAt: &exp},
	}}
	cat := &fakeCatalog{recipes: []*domain.Recipe{quick("dinner")}}
	r := newRecommender(t, inv, cat, 9)

	rec, err := r.Recommend(context.Background(), domain.Preferences{}, weeknight)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	if len(rec.ExpiringMatches) != 1 || rec.ExpiringMatches[0].Name != "Chicken Breast" {
		t.Fatalf("expiring matches = %+v", rec.ExpiringMatches)
	}
	if rec.EstimatedSavings != 3.0 {
		t.Fatalf("savings = %.2f, want 3.00", rec.EstimatedSavings)
	}
	if !strings.HasPrefix(rec.Reasoning, "Uses Chicken Breast before it expires") {
		t.Fatalf("reasoning = %q", rec.Reasoning)
	}
	// "lemon" is required but not expiring; the optional garnish is
	// never reported missing.
	if len(rec.MissingIngredients) != 1 || rec.MissingIngredients[0] != "lemon" {
		t.Fatalf("missing = %v", rec.MissingIngredients)
	}
}

func TestMissingIngredientsCappedAtThree(t *testing.T) {
	many := &domain.Recipe{
		ID: "many", Name: "many", Cuisine: "test",
		PrepMinutes: 5, CookMinutes: 5,
		Difficulty: domain.DifficultyEasy,
		Ingredients: []domain.Ingredient{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}, {Name: "e"},
		},
	}
	r := newRecommender(t, &fakeExpiry{}, &fakeCatalog{recipes: []*domain.Recipe{many}}, 2)

	rec, err := r.Recommend(context.Background(), domain.Preferences{}, weeknight)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(rec.MissingIngredients) != 3 {
		t.Fatalf("missing = %v, want exactly 3", rec.MissingIngredients)
	}
}

func TestHardRecipeReasoningOnWeekend(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{slow("braise")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 5)

	rec, err := r.Recommend(context.Background(), domain.Preferences{WeekendMaxMinutes: 300}, weekend)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !strings.Contains(rec.Reasoning, "weekend cooking challenge") {
		t.Fatalf("reasoning = %q", rec.Reasoning)
	}
}

func TestRejectAndNext(t *testing.T) {
	cat := &fakeCatalog{recipes: []*domain.Recipe{quick("a"), quick("b")}}
	r := newRecommender(t, &fakeExpiry{}, cat, 11)
	ctx := context.Background()

	first, err := r.Recommend(ctx, domain.Preferences{}, weeknight)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	second, err := r.RejectAndNext(ctx, "not feeling it", domain.Preferences{}, weeknight)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if second.Recipe.ID == first.Recipe.ID {
		t.Fatal("rejection returned the same recipe")
	}
}

func TestNamesMatch(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Chicken Breast", "chicken breast", true},
		{"tomatoes", "crushed tomatoes", true},
		{"crushed tomatoes", "tomatoes", true},
		{"milk", "salmon", false},
		{"", "salmon", false},
	}
	for _, tt := range tests {
		if got := namesMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("namesMatch(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
