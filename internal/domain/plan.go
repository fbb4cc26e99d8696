package domain

import "time"

// MealPlanEntry records that a recipe is planned (or was cooked) on a
// given day. Entries are created when a cooking session starts and
// marked completed when the session finishes.
type MealPlanEntry struct {
	ID        string
	RecipeID  string
	Date      time.Time
	Completed bool
	Rating    *int // 1-5, nil when the rating was skipped
	Notes     string
	CreatedAt time.Time
}
