// Package engine implements the guided cooking session state machine.
package engine

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// PlanBook is the slice of the meal plan store the engine needs: it
// creates an incomplete entry when a session starts and finalizes it on
// completion.
type PlanBook interface {
	Add(recipeID string, date time.Time) domain.MealPlanEntry
	Complete(id string, rating *int, notes string) error
}

// Awarder is the slice of the progression ledger the engine needs.
type Awarder interface {
	AddXP(amount int)
	UpdateStreak(cookedToday bool)
	State() domain.UserProgress
}

// CompletionXPFunc computes the XP award for a finished session.
type CompletionXPFunc func(difficulty domain.Difficulty, rating *int) int

// CompletionResult summarizes what a finished session earned.
type CompletionResult struct {
	Recipe      *domain.Recipe
	PlanEntryID string
	Rating      *int
	XPAwarded   int
	Progress    domain.UserProgress // state after the award
}

// Option configures the engine.
type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine manages at most one cooking session at a time. It depends only
// on interfaces and is fully testable without a terminal.
type Engine struct {
	recipes      domain.RecipeSource
	plans        PlanBook
	awards       Awarder
	completionXP CompletionXPFunc
	log          *logger.Logger
	now          func() time.Time

	mu        sync.Mutex
	session   *domain.Session
	recipe    *domain.Recipe
	suspended *domain.Session // exited session kept for resume
}

// New creates a cooking engine with the given dependencies and options.
func New(recipes domain.RecipeSource, plans PlanBook, awards Awarder, completionXP CompletionXPFunc, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		recipes:      recipes,
		plans:        plans,
		awards:       awards,
		completionXP: completionXP,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a cooking session for the given recipe. Starting the
// recipe of a previously exited session resumes at its saved step
// index; the ingredient checklist and timer always start fresh. A new
// session also records an incomplete meal plan entry (a resumed one
// reuses the entry from before the exit).
func (e *Engine) Start(ctx context.Context, recipeID string) (*domain.Session, error) {
	recipe, err := e.recipes.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	session := &domain.Session{
		ID:                 generateID(),
		RecipeID:           recipe.ID,
		Phase:              domain.PhaseInProgress,
		CheckedIngredients: make(map[int]bool),
		CompletedSteps:     make(map[int]bool),
		Multiplier:         1.0,
		StartedAt:          now,
		UpdatedAt:          now,
	}

	if e.suspended != nil && e.suspended.RecipeID == recipe.ID {
		session.StepIndex = e.suspended.StepIndex
		session.PlanEntryID = e.suspended.PlanEntryID
		e.suspended = nil
		e.log.Info("engine: resumed %q at step %d", recipe.Name, session.StepIndex+1)
	} else {
		entry := e.plans.Add(recipe.ID, now)
		session.PlanEntryID = entry.ID
		e.log.Info("engine: started session %s for %q", session.ID, recipe.Name)
	}

	e.session = session
	e.recipe = recipe
	return snapshot(session), nil
}

// Session returns a copy of the active session, if any.
func (e *Engine) Session() (*domain.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, false
	}
	return snapshot(e.session), true
}

// Recipe returns the recipe bound to the active session.
func (e *Engine) Recipe() (*domain.Recipe, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recipe == nil {
		return nil, false
	}
	return e.recipe, true
}

// CurrentStep returns the step the session is on.
func (e *Engine) CurrentStep() (domain.Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return domain.Step{}, err
	}
	return e.recipe.Steps[e.session.StepIndex], nil
}

// ToggleIngredient flips the checked state of one ingredient on the
// mise-en-place checklist. Toggling has no effect on steps or timers.
func (e *Engine) ToggleIngredient(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.recipe.Ingredients) {
		return fmt.Errorf("ingredient index %d out of range", index)
	}
	if e.session.CheckedIngredients[index] {
		delete(e.session.CheckedIngredients, index)
	} else {
		e.session.CheckedIngredients[index] = true
	}
	e.touch()
	return nil
}

// AdjustServings moves the serving multiplier by delta, clamped to
// [0.5, 4.0] and snapped to 0.5 steps. Returns the resulting value.
func (e *Engine) AdjustServings(delta float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return 0, err
	}

	m := e.session.Multiplier + delta
	m = math.Round(m/domain.ServingMultiplierStep) * domain.ServingMultiplierStep
	if m < domain.ServingMultiplierMin {
		m = domain.ServingMultiplierMin
	}
	if m > domain.ServingMultiplierMax {
		m = domain.ServingMultiplierMax
	}
	e.session.Multiplier = m
	e.touch()
	e.log.Debug("engine: serving multiplier now %.1f", m)
	return m, nil
}

// ScaledIngredient pairs an ingredient with its display amount under
// the current serving multiplier.
type ScaledIngredient struct {
	domain.Ingredient
	Display string
	Checked bool
}

// ScaledIngredients returns the recipe's ingredient list scaled for
// display.
func (e *Engine) ScaledIngredients() ([]ScaledIngredient, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return nil, err
	}

	out := make([]ScaledIngredient, 0, len(e.recipe.Ingredients))
	for i, ing := range e.recipe.Ingredients {
		out = append(out, ScaledIngredient{
			Ingredient: ing,
			Display:    ScaleAmount(ing.Amount, e.session.Multiplier),
			Checked:    e.session.CheckedIngredients[i],
		})
	}
	return out, nil
}

// StartTimer arms and starts the countdown for the current step. Only
// valid when the step carries a duration.
func (e *Engine) StartTimer() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}

	step := e.recipe.Steps[e.session.StepIndex]
	if !step.Timed() {
		return domain.ErrNoStepTimer
	}

	// Resuming a paused timer keeps its remaining time.
	if t := e.session.Timer; t != nil && t.StepIndex == e.session.StepIndex && t.RemainingSeconds > 0 {
		t.Running = true
		e.touch()
		return nil
	}

	e.session.Timer = &domain.StepTimer{
		StepIndex:        e.session.StepIndex,
		RemainingSeconds: step.DurationMinutes * 60,
		Running:          true,
	}
	e.touch()
	e.log.Debug("engine: timer started for step %d (%dm)", step.Order, step.DurationMinutes)
	return nil
}

// PauseTimer stops the countdown, preserving the remaining time.
func (e *Engine) PauseTimer() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	if e.session.Timer == nil {
		return domain.ErrNoStepTimer
	}
	e.session.Timer.Running = false
	e.touch()
	return nil
}

// ResetTimer restores the timer to the step's full duration, stopped.
func (e *Engine) ResetTimer() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	step := e.recipe.Steps[e.session.StepIndex]
	if !step.Timed() {
		return domain.ErrNoStepTimer
	}
	e.session.Timer = &domain.StepTimer{
		StepIndex:        e.session.StepIndex,
		RemainingSeconds: step.DurationMinutes * 60,
	}
	e.touch()
	return nil
}

// Tick advances the running timer by one second. Returns true exactly
// once, on the tick that reaches zero; the caller surfaces the
// advisory "timer done" notification. Reaching zero never advances the
// step on its own.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.Timer == nil || !e.session.Timer.Running {
		return false
	}

	t := e.session.Timer
	t.RemainingSeconds--
	if t.RemainingSeconds <= 0 {
		t.RemainingSeconds = 0
		t.Running = false
		return true
	}
	return false
}

// NextStep marks the current step completed, clears any timer, and
// advances. On the last step the session moves to the awaiting-rating
// phase instead of completing outright; a rating or an explicit skip is
// required to finish.
func (e *Engine) NextStep() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}

	e.session.CompletedSteps[e.session.StepIndex] = true
	e.session.Timer = nil

	if e.session.StepIndex >= len(e.recipe.Steps)-1 {
		e.session.Phase = domain.PhaseAwaitingRating
		e.touch()
		e.log.Info("engine: all steps done for %q, awaiting rating", e.recipe.Name)
		return nil
	}

	e.session.StepIndex++
	e.touch()
	e.log.Debug("engine: advanced to step %d/%d", e.session.StepIndex+1, len(e.recipe.Steps))
	return nil
}

// PrevStep moves back one step. A no-op at step zero. Going back clears
// the timer but never un-marks completed steps; completion tracking is
// monotonic within a session.
func (e *Engine) PrevStep() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireActive(); err != nil {
		return err
	}
	if e.session.StepIndex == 0 {
		return nil
	}
	e.session.StepIndex--
	e.session.Timer = nil
	e.touch()
	return nil
}

// SubmitRating finishes the session with a 1-5 star rating.
func (e *Engine) SubmitRating(rating int, notes string) (*CompletionResult, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}
	return e.complete(&rating, notes)
}

// SkipRating finishes the session without a rating. XP and streak are
// still granted; only the rating bonus is forfeited.
func (e *Engine) SkipRating() (*CompletionResult, error) {
	return e.complete(nil, "")
}

// complete transitions to Completed, finalizes the plan entry, applies
// the progression award, and only then clears session state, so a
// crash mid-sequence can never lose the award after the session is gone.
func (e *Engine) complete(rating *int, notes string) (*CompletionResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, domain.ErrNoActiveSession
	}
	if e.session.Phase != domain.PhaseAwaitingRating {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionPhase, e.session.Phase)
	}

	e.session.Phase = domain.PhaseCompleted

	if err := e.plans.Complete(e.session.PlanEntryID, rating, notes); err != nil {
		e.log.Error("engine: completing plan entry %s: %v", e.session.PlanEntryID, err)
	}

	xp := e.completionXP(e.recipe.Difficulty, rating)
	e.awards.AddXP(xp)
	e.awards.UpdateStreak(true)

	result := &CompletionResult{
		Recipe:      e.recipe,
		PlanEntryID: e.session.PlanEntryID,
		Rating:      rating,
		XPAwarded:   xp,
		Progress:    e.awards.State(),
	}

	e.log.Info("engine: session %s completed (+%d XP)", e.session.ID, xp)
	e.session = nil
	e.recipe = nil
	return result, nil
}

// Exit suspends the session, preserving only its step index (and plan
// entry) for a later resume. No progression effects.
func (e *Engine) Exit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return domain.ErrNoActiveSession
	}

	e.session.Phase = domain.PhaseExited
	e.session.Timer = nil
	e.suspended = e.session
	e.log.Info("engine: session %s exited at step %d", e.session.ID, e.session.StepIndex+1)
	e.session = nil
	e.recipe = nil
	return nil
}

// requireActive guards navigation operations: they are programmer
// errors without a bound recipe and fail loudly.
func (e *Engine) requireActive() error {
	if e.session == nil || e.recipe == nil {
		return domain.ErrNoActiveSession
	}
	if e.session.Phase != domain.PhaseInProgress {
		return fmt.Errorf("%w: %s", domain.ErrSessionPhase, e.session.Phase)
	}
	return nil
}

func (e *Engine) touch() {
	e.session.UpdatedAt = e.now()
}

func snapshot(s *domain.Session) *domain.Session {
	out := *s
	out.CheckedIngredients = make(map[int]bool, len(s.CheckedIngredients))
	for k, v := range s.CheckedIngredients {
		out.CheckedIngredients[k] = v
	}
	out.CompletedSteps = make(map[int]bool, len(s.CompletedSteps))
	for k, v := range s.CompletedSteps {
		out.CompletedSteps[k] = v
	}
	if s.Timer != nil {
		t := *s.Timer
		out.Timer = &t
	}
	return &out
}
