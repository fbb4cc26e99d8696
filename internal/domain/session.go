package domain

import "time"

// SessionPhase tracks the lifecycle of a guided cooking session.
type SessionPhase int

const (
	PhaseNotStarted SessionPhase = iota
	PhaseInProgress
	PhaseAwaitingRating
	PhaseCompleted
	PhaseExited
)

// String returns a human-readable session phase.
func (p SessionPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not started"
	case PhaseInProgress:
		return "in progress"
	case PhaseAwaitingRating:
		return "awaiting rating"
	case PhaseCompleted:
		return "completed"
	case PhaseExited:
		return "exited"
	default:
		return "unknown"
	}
}

// ServingBounds for the serving multiplier, adjusted in steps of 0.5.
const (
	ServingMultiplierMin  = 0.5
	ServingMultiplierMax  = 4.0
	ServingMultiplierStep = 0.5
)

// Session is the transient state of one guided cooking run. It is
// destroyed on completion or reset; an exited session keeps only its
// step index for resume; checklist and timer start fresh.
type Session struct {
	ID                 string
	RecipeID           string
	PlanEntryID        string
	Phase              SessionPhase
	StepIndex          int
	CheckedIngredients map[int]bool
	CompletedSteps     map[int]bool // monotonic within a session
	Multiplier         float64
	Timer              *StepTimer // nil when no timer is armed
	StartedAt          time.Time
	UpdatedAt          time.Time
}

// StepTimer is the per-step countdown. At most one exists per session.
type StepTimer struct {
	StepIndex        int
	RemainingSeconds int
	Running          bool
}
