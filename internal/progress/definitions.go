package progress

import (
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
)

// Achievement ids referenced by the orchestration layer when events
// come in. Progress increments are driven externally; the ledger only
// clamps, unlocks, and answers queries.
const (
	AchFirstMeal      = "first-meal"
	AchTenMeals       = "ten-meals"
	AchFiftyMeals     = "fifty-meals"
	AchWeekStreak     = "week-streak"
	AchCuisineHopper  = "cuisine-hopper"
	AchFiveStarNights = "five-star-nights"
	AchPartnerPlates  = "partner-plates"
	AchLevelTen       = "level-ten"
)

func defaultAchievements() []domain.Achievement {
	return []domain.Achievement{
		{ID: AchFirstMeal, Name: "First Flame", Description: "Complete your first cooking session.", Icon: "🔥", Tier: domain.TierBronze, Target: 1},
		{ID: AchTenMeals, Name: "Regular at the Stove", Description: "Complete 10 cooking sessions.", Icon: "🍳", Tier: domain.TierSilver, Target: 10},
		{ID: AchFiftyMeals, Name: "Household Chef", Description: "Complete 50 cooking sessions.", Icon: "👨‍🍳", Tier: domain.TierGold, Target: 50},
		{ID: AchWeekStreak, Name: "Seven Nights Running", Description: "Cook seven days in a row.", Icon: "📅", Tier: domain.TierGold, Target: 7},
		{ID: AchCuisineHopper, Name: "Cuisine Hopper", Description: "Cook recipes from 5 different cuisines.", Icon: "🌍", Tier: domain.TierSilver, Target: 5},
		{ID: AchFiveStarNights, Name: "Five-Star Nights", Description: "Rate 10 meals five stars.", Icon: "⭐", Tier: domain.TierGold, Target: 10},
		{ID: AchPartnerPlates, Name: "Partner Plates", Description: "Cook 5 meals with your partner.", Icon: "🤝", Tier: domain.TierSilver, Target: 5},
		{ID: AchLevelTen, Name: "Double Digits", Description: "Reach level 10.", Icon: "🏆", Tier: domain.TierPlatinum, Target: 10},
	}
}

func defaultChallenges(now time.Time) []domain.Challenge {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	endOfWeek := endOfDay.AddDate(0, 0, int(time.Saturday-now.Weekday()+7)%7)

	return []domain.Challenge{
		{
			ID:          "daily-cook",
			Name:        "Tonight's the Night",
			Description: "Complete one cooking session today.",
			Type:        domain.ChallengeDaily,
			Target:      1,
			RewardXP:    25,
			ExpiresAt:   endOfDay,
		},
		{
			ID:          "weekly-three",
			Name:        "Three This Week",
			Description: "Cook three meals this week.",
			Type:        domain.ChallengeWeekly,
			Target:      3,
			RewardXP:    100,
			RewardBadge: &domain.Badge{ID: "badge-weekly-three", Name: "Steady Hand", Icon: "🥉"},
			ExpiresAt:   endOfWeek,
		},
		{
			ID:          "weekly-new-cuisine",
			Name:        "Out of the Rut",
			Description: "Cook a cuisine you haven't tried this week.",
			Type:        domain.ChallengeWeekly,
			Target:      1,
			RewardXP:    75,
			ExpiresAt:   endOfWeek,
		},
	}
}
