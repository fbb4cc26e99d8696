package domain

// IntentType classifies what the user wants to do at the prompt.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentRecommend
	IntentReject
	IntentStartCooking
	IntentNextStep
	IntentPrevStep
	IntentToggleIngredient
	IntentServingsUp
	IntentServingsDown
	IntentStartTimer
	IntentPauseTimer
	IntentResetTimer
	IntentRate
	IntentSkipRating
	IntentExitSession
	IntentPantryAdd
	IntentPantryList
	IntentPantryExpiring
	IntentPantryRemove
	IntentListRecipes
	IntentPrepList
	IntentPrepDone
	IntentStats
	IntentInvite
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentRecommend:
		return "recommend"
	case IntentReject:
		return "reject"
	case IntentStartCooking:
		return "start_cooking"
	case IntentNextStep:
		return "next_step"
	case IntentPrevStep:
		return "prev_step"
	case IntentToggleIngredient:
		return "toggle_ingredient"
	case IntentServingsUp:
		return "servings_up"
	case IntentServingsDown:
		return "servings_down"
	case IntentStartTimer:
		return "start_timer"
	case IntentPauseTimer:
		return "pause_timer"
	case IntentResetTimer:
		return "reset_timer"
	case IntentRate:
		return "rate"
	case IntentSkipRating:
		return "skip_rating"
	case IntentExitSession:
		return "exit_session"
	case IntentPantryAdd:
		return "pantry_add"
	case IntentPantryList:
		return "pantry_list"
	case IntentPantryExpiring:
		return "pantry_expiring"
	case IntentPantryRemove:
		return "pantry_remove"
	case IntentListRecipes:
		return "list_recipes"
	case IntentPrepList:
		return "prep_list"
	case IntentPrepDone:
		return "prep_done"
	case IntentStats:
		return "stats"
	case IntentInvite:
		return "invite"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent is a parsed user command with an optional payload (the rest of
// the input line).
type Intent struct {
	Type    IntentType
	Payload string
}
