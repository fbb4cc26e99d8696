// Package recipe provides recipe catalog implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds the recipe catalog in memory. Recipes are
// read-only once seeded. Safe for concurrent reads.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a catalog preloaded with the bundled recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	src.seed()
	return src
}

// List returns summaries of all available recipes, sorted by name.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, summarize(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	s.log.Debug("catalog: listed %d recipes", len(out))
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("catalog: recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// All returns every full recipe. The recommender filters this set.
func (s *MemorySource) All(ctx context.Context) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Search returns recipes whose name, cuisine, or tags contain the query.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if s.matches(r, q) {
			out = append(out, summarize(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemorySource) matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Cuisine), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func summarize(r *domain.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:           r.ID,
		Name:         r.Name,
		Cuisine:      r.Cuisine,
		Difficulty:   r.Difficulty,
		TotalMinutes: r.TotalMinutes(),
		Tags:         r.Tags,
	}
}

// seed populates the catalog with bundled recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.Recipe{
		lemonGarlicChicken(),
		weeknightStirFry(),
		slowBraisedRagu(),
		shakshuka(),
		misoSalmonBowl(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("catalog: seeded %d recipes", len(recipes))
}

func lemonGarlicChicken() *domain.Recipe {
	return &domain.Recipe{
		ID:            "lemon-garlic-chicken",
		Name:          "Lemon Garlic Chicken",
		Description:   "Pan-seared chicken breast in a bright lemon garlic butter sauce.",
		PrepMinutes:   10,
		CookMinutes:   25,
		Servings:      2,
		Difficulty:    domain.DifficultyMedium,
		Cuisine:       "mediterranean",
		Tags:          []string{"chicken", "weeknight", "pan"},
		EstimatedCost: 11.50,
		Ingredients: []domain.Ingredient{
			{Name: "chicken breast", Amount: 2, Unit: "pieces"},
			{Name: "garlic", Amount: 4, Unit: "cloves"},
			{Name: "lemon", Amount: 1, Unit: "pieces"},
			{Name: "butter", Amount: 3, Unit: "tbsp"},
			{Name: "olive oil", Amount: 1, Unit: "tbsp"},
			{Name: "parsley", Amount: 2, Unit: "tbsp", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Pound the chicken breasts to even thickness and season both sides with salt and pepper.", Tip: "Even thickness means even cooking, don't skip the pounding."},
			{Order: 2, Instruction: "Heat olive oil in a skillet over medium-high. Sear the chicken 6 minutes per side until golden.", DurationMinutes: 12},
			{Order: 3, Instruction: "Set the chicken aside. Melt butter in the same pan and cook the minced garlic until fragrant.", DurationMinutes: 1, Tip: "Burnt garlic turns the whole sauce bitter."},
			{Order: 4, Instruction: "Squeeze in the lemon juice, scrape up the browned bits, and simmer to a glossy sauce.", DurationMinutes: 3},
			{Order: 5, Instruction: "Return the chicken to the pan, spoon the sauce over, and finish with parsley."},
		},
	}
}

func weeknightStirFry() *domain.Recipe {
	return &domain.Recipe{
		ID:            "weeknight-stir-fry",
		Name:          "Weeknight Vegetable Stir Fry",
		Description:   "Fast and crunchy. A screaming hot pan does most of the work.",
		PrepMinutes:   10,
		CookMinutes:   10,
		Servings:      2,
		Difficulty:    domain.DifficultyEasy,
		Cuisine:       "asian",
		Tags:          []string{"vegetarian", "quick", "wok"},
		EstimatedCost: 7.00,
		Ingredients: []domain.Ingredient{
			{Name: "broccoli", Amount: 2, Unit: "cups"},
			{Name: "bell pepper", Amount: 1, Unit: "pieces"},
			{Name: "carrot", Amount: 1, Unit: "pieces"},
			{Name: "onion", Amount: 0.5, Unit: "pieces"},
			{Name: "garlic", Amount: 3, Unit: "cloves"},
			{Name: "soy sauce", Amount: 2, Unit: "tbsp"},
			{Name: "sesame oil", Amount: 1, Unit: "tbsp"},
			{Name: "rice", Amount: 1, Unit: "cup", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Prep everything first: cut the broccoli into florets, slice the pepper, onion, and carrot, mince the garlic.", Tip: "Nothing gets cut once the pan is hot."},
			{Order: 2, Instruction: "Heat the wok on high until it just starts to smoke, then add oil and swirl."},
			{Order: 3, Instruction: "Stir-fry broccoli and carrot first, then add pepper and onion.", DurationMinutes: 4},
			{Order: 4, Instruction: "Push the vegetables aside, bloom the garlic in the middle, then toss with soy sauce and sesame oil.", DurationMinutes: 1},
			{Order: 5, Instruction: "Serve immediately, over rice if you started some."},
		},
	}
}

func slowBraisedRagu() *domain.Recipe {
	return &domain.Recipe{
		ID:            "slow-braised-ragu",
		Name:          "Slow-Braised Beef Ragu",
		Description:   "A lazy-afternoon braise. Low, slow, and worth every minute.",
		PrepMinutes:   25,
		CookMinutes:   150,
		Servings:      4,
		Difficulty:    domain.DifficultyHard,
		Cuisine:       "italian",
		Tags:          []string{"beef", "weekend", "braise", "pasta"},
		EstimatedCost: 22.00,
		Ingredients: []domain.Ingredient{
			{Name: "beef chuck", Amount: 800, Unit: "g"},
			{Name: "onion", Amount: 1, Unit: "pieces"},
			{Name: "carrot", Amount: 2, Unit: "pieces"},
			{Name: "celery", Amount: 2, Unit: "stalks"},
			{Name: "crushed tomatoes", Amount: 800, Unit: "g"},
			{Name: "red wine", Amount: 1, Unit: "cup"},
			{Name: "pappardelle", Amount: 400, Unit: "g"},
			{Name: "parmesan", Amount: 50, Unit: "g", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Cut the beef into large chunks, season generously, and brown in batches in a heavy pot.", DurationMinutes: 15, Tip: "Crowding the pot steams the meat instead of browning it."},
			{Order: 2, Instruction: "Dice the onion, carrot, and celery and sweat them in the same pot until soft.", DurationMinutes: 8},
			{Order: 3, Instruction: "Deglaze with the wine and reduce by half.", DurationMinutes: 5},
			{Order: 4, Instruction: "Return the beef, add the tomatoes, and braise covered on the lowest heat.", DurationMinutes: 120, Tip: "Stir every half hour or so. The sauce is done when the beef shreds with a spoon."},
			{Order: 5, Instruction: "Shred the beef into the sauce, cook the pappardelle, and toss together with parmesan."},
		},
	}
}

func shakshuka() *domain.Recipe {
	return &domain.Recipe{
		ID:            "shakshuka",
		Name:          "Shakshuka",
		Description:   "Eggs poached in a spiced tomato and pepper sauce. Breakfast for dinner.",
		PrepMinutes:   10,
		CookMinutes:   20,
		Servings:      2,
		Difficulty:    domain.DifficultyEasy,
		Cuisine:       "middle eastern",
		Tags:          []string{"vegetarian", "eggs", "one-pan"},
		EstimatedCost: 8.50,
		Ingredients: []domain.Ingredient{
			{Name: "eggs", Amount: 4, Unit: "pieces"},
			{Name: "crushed tomatoes", Amount: 400, Unit: "g"},
			{Name: "onion", Amount: 1, Unit: "pieces"},
			{Name: "bell pepper", Amount: 1, Unit: "pieces"},
			{Name: "garlic", Amount: 3, Unit: "cloves"},
			{Name: "cumin", Amount: 1, Unit: "tsp"},
			{Name: "paprika", Amount: 1, Unit: "tsp"},
			{Name: "feta", Amount: 50, Unit: "g", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Dice the onion and pepper, mince the garlic."},
			{Order: 2, Instruction: "Soften the onion and pepper in olive oil, then add garlic and spices.", DurationMinutes: 6},
			{Order: 3, Instruction: "Pour in the tomatoes and simmer until slightly thickened.", DurationMinutes: 8},
			{Order: 4, Instruction: "Make wells in the sauce and crack in the eggs. Cover and poach until the whites set.", DurationMinutes: 6, Tip: "Take it off the heat while the yolks still jiggle."},
			{Order: 5, Instruction: "Crumble feta over the top and serve straight from the pan."},
		},
	}
}

func misoSalmonBowl() *domain.Recipe {
	return &domain.Recipe{
		ID:            "miso-salmon-bowl",
		Name:          "Miso Glazed Salmon Bowl",
		Description:   "Broiled miso salmon over rice with quick-pickled cucumber.",
		PrepMinutes:   15,
		CookMinutes:   15,
		Servings:      2,
		Difficulty:    domain.DifficultyMedium,
		Cuisine:       "japanese",
		Tags:          []string{"fish", "rice bowl", "broiler"},
		EstimatedCost: 16.00,
		Ingredients: []domain.Ingredient{
			{Name: "salmon fillet", Amount: 2, Unit: "pieces"},
			{Name: "miso paste", Amount: 2, Unit: "tbsp"},
			{Name: "mirin", Amount: 1, Unit: "tbsp"},
			{Name: "rice", Amount: 1, Unit: "cup"},
			{Name: "cucumber", Amount: 1, Unit: "pieces"},
			{Name: "rice vinegar", Amount: 2, Unit: "tbsp"},
			{Name: "sesame seeds", Amount: 1, Unit: "tsp", Optional: true},
		},
		Steps: []domain.Step{
			{Order: 1, Instruction: "Start the rice. Whisk miso and mirin into a glaze and brush it over the salmon.", DurationMinutes: 15},
			{Order: 2, Instruction: "Slice the cucumber thin and toss with rice vinegar and a pinch of salt."},
			{Order: 3, Instruction: "Broil the salmon until the glaze bubbles and chars at the edges.", DurationMinutes: 8, Tip: "Miso burns fast under the broiler, stay close."},
			{Order: 4, Instruction: "Build the bowls: rice, salmon, pickled cucumber, sesame seeds on top."},
		},
	}
}
