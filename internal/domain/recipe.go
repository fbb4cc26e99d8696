// Package domain defines the core types and interfaces for the meal
// planner. All other packages depend on domain; domain depends on nothing.
package domain

// Difficulty rates how demanding a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recipe represents a complete cooking recipe. Recipes are immutable
// once defined; the catalog owns them.
type Recipe struct {
	ID            string
	Name          string
	Description   string
	PrepMinutes   int
	CookMinutes   int
	Servings      int
	Difficulty    Difficulty
	Cuisine       string
	Ingredients   []Ingredient
	Steps         []Step
	Tags          []string
	EstimatedCost float64
}

// TotalMinutes returns prep plus cook time.
func (r *Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID           string
	Name         string
	Cuisine      string
	Difficulty   Difficulty
	TotalMinutes int
	Tags         []string
}

// Ingredient represents a single ingredient line of a recipe.
type Ingredient struct {
	Name     string
	Amount   float64
	Unit     string // "g", "cups", "tbsp", "pieces", ""
	Optional bool
}

// Step represents a single cooking step.
type Step struct {
	Order           int
	Instruction     string
	DurationMinutes int    // expected duration, 0 if untimed
	Tip             string // optional hint shown with the step
}

// Timed reports whether the step carries a countdown duration.
func (s Step) Timed() bool {
	return s.DurationMinutes > 0
}
