package domain

// Preferences holds the user constraints consulted by the recommender.
type Preferences struct {
	// WeeknightMaxMinutes caps total recipe time Monday through Friday.
	WeeknightMaxMinutes int
	// WeekendMaxMinutes caps total recipe time Saturday and Sunday.
	WeekendMaxMinutes int
}

// Normalized returns a copy with malformed values replaced by safe
// defaults. Zero or negative budgets get the stock 45/90 split.
func (p Preferences) Normalized() Preferences {
	if p.WeeknightMaxMinutes <= 0 {
		p.WeeknightMaxMinutes = 45
	}
	if p.WeekendMaxMinutes <= 0 {
		p.WeekendMaxMinutes = 90
	}
	return p
}

// MealRecommendation is the scorer's output: one chosen recipe plus the
// evidence behind the choice. It is derived and never persisted; each
// call to the recommender supersedes the previous value entirely.
type MealRecommendation struct {
	Recipe             *Recipe
	Score              float64 // always within [0, 1]
	Reasoning          string
	ExpiringMatches    []InventoryItem
	MissingIngredients []string
	EstimatedSavings   float64
}
