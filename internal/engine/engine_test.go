package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
	"github.com/pantryloop/pantryloop/internal/plan"
	"github.com/pantryloop/pantryloop/internal/progress"
	"github.com/pantryloop/pantryloop/internal/recipe"
)

func setupEngine(t *testing.T) (*Engine, *plan.Store, *progress.Ledger, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	recipes := recipe.NewMemorySource(log)
	plans := plan.NewStore(log)
	prog := progress.NewLedger(log)
	eng := New(recipes, plans, prog, progress.CompletionXP, log)
	return eng, plans, prog, context.Background()
}

func TestStartSession(t *testing.T) {
	eng, plans, _, ctx := setupEngine(t)

	tests := []struct {
		name     string
		recipeID string
		wantErr  bool
	}{
		{"valid recipe", "weeknight-stir-fry", false},
		{"unknown recipe", "nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := eng.Start(ctx, tt.recipeID)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if session.ID == "" {
				t.Fatal("session ID is empty")
			}
			if session.Phase != domain.PhaseInProgress {
				t.Fatalf("expected in-progress phase, got %s", session.Phase)
			}
			if session.StepIndex != 0 {
				t.Fatalf("expected step index 0, got %d", session.StepIndex)
			}
			if session.Multiplier != 1.0 {
				t.Fatalf("expected multiplier 1.0, got %.1f", session.Multiplier)
			}
			if session.PlanEntryID == "" {
				t.Fatal("no plan entry recorded")
			}
		})
	}

	entries := plans.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 plan entry, got %d", len(entries))
	}
	if entries[0].Completed {
		t.Fatal("plan entry should start incomplete")
	}
}

func TestLastStepAwaitsRating(t *testing.T) {
	eng, plans, prog, ctx := setupEngine(t)

	// Stir fry has 5 steps.
	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	for i := 0; i < 4; i++ {
		if err := eng.NextStep(); err != nil {
			t.Fatalf("advance to step %d: %v", i+2, err)
		}
	}

	// Finishing the last step must not complete the session outright.
	if err := eng.NextStep(); err != nil {
		t.Fatalf("finishing last step: %v", err)
	}
	session, ok := eng.Session()
	if !ok {
		t.Fatal("session gone before rating")
	}
	if session.Phase != domain.PhaseAwaitingRating {
		t.Fatalf("expected awaiting-rating phase, got %s", session.Phase)
	}

	// Navigation is rejected while a rating is pending.
	if err := eng.NextStep(); !errors.Is(err, domain.ErrSessionPhase) {
		t.Fatalf("expected ErrSessionPhase, got %v", err)
	}

	res, err := eng.SubmitRating(4, "solid")
	if err != nil {
		t.Fatalf("submitting rating: %v", err)
	}

	// Easy recipe: 50 base + 4*10 rating bonus.
	if res.XPAwarded != 90 {
		t.Fatalf("expected 90 XP, got %d", res.XPAwarded)
	}
	if res.Progress.CurrentXP != 90 || res.Progress.Level != 1 {
		t.Fatalf("progress not applied: level %d, %d XP", res.Progress.Level, res.Progress.CurrentXP)
	}
	if res.Progress.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", res.Progress.Streak)
	}

	if _, ok := eng.Session(); ok {
		t.Fatal("session should be cleared after completion")
	}

	entry, ok := plans.Get(res.PlanEntryID)
	if !ok {
		t.Fatal("plan entry missing")
	}
	if !entry.Completed || entry.Rating == nil || *entry.Rating != 4 {
		t.Fatalf("plan entry not finalized: %+v", entry)
	}

	if got := prog.State().CurrentXP; got != 90 {
		t.Fatalf("ledger XP = %d, want 90", got)
	}
}

func TestSkipRatingStillAwards(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := eng.NextStep(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	res, err := eng.SkipRating()
	if err != nil {
		t.Fatalf("skipping rating: %v", err)
	}
	if res.XPAwarded != 50 {
		t.Fatalf("expected base 50 XP without rating, got %d", res.XPAwarded)
	}
	if res.Rating != nil {
		t.Fatal("skip should record no rating")
	}
	if res.Progress.Streak != 1 {
		t.Fatalf("streak should still advance, got %d", res.Progress.Streak)
	}
}

func TestSubmitRatingValidation(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := eng.NextStep(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	for _, stars := range []int{0, 6, -1} {
		if _, err := eng.SubmitRating(stars, ""); !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", stars, err)
		}
	}

	// A bad rating must not consume the pending session.
	if _, err := eng.SubmitRating(5, ""); err != nil {
		t.Fatalf("valid rating after invalid ones: %v", err)
	}
}

func TestToggleIngredient(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	if err := eng.ToggleIngredient(0); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	session, _ := eng.Session()
	if !session.CheckedIngredients[0] {
		t.Fatal("ingredient 0 should be checked")
	}

	// Toggling again unchecks.
	if err := eng.ToggleIngredient(0); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	session, _ = eng.Session()
	if session.CheckedIngredients[0] {
		t.Fatal("ingredient 0 should be unchecked")
	}

	if err := eng.ToggleIngredient(99); err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}

func TestAdjustServings(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"up one step", 0.5, 1.5},
		{"snap to half steps", 0.3, 2.0},
		{"clamp at max", 10, 4.0},
		{"stay at max", 0.5, 4.0},
		{"clamp at min", -10, 0.5},
		{"stay at min", -0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.AdjustServings(tt.delta)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("multiplier = %.1f, want %.1f", got, tt.want)
			}
		})
	}
}

func TestStepTimer(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	// Step 1 has no duration.
	if err := eng.StartTimer(); !errors.Is(err, domain.ErrNoStepTimer) {
		t.Fatalf("expected ErrNoStepTimer, got %v", err)
	}

	// Advance to step 3 (4 minutes).
	eng.NextStep()
	eng.NextStep()
	if err := eng.StartTimer(); err != nil {
		t.Fatalf("starting timer: %v", err)
	}

	session, _ := eng.Session()
	if session.Timer == nil || session.Timer.RemainingSeconds != 240 {
		t.Fatalf("timer not armed at 240s: %+v", session.Timer)
	}

	// Pausing preserves the remaining time; restarting resumes it.
	for i := 0; i < 10; i++ {
		eng.Tick()
	}
	if err := eng.PauseTimer(); err != nil {
		t.Fatalf("pausing: %v", err)
	}
	if eng.Tick() {
		t.Fatal("paused timer must not tick")
	}
	if err := eng.StartTimer(); err != nil {
		t.Fatalf("resuming: %v", err)
	}
	session, _ = eng.Session()
	if session.Timer.RemainingSeconds != 230 {
		t.Fatalf("resume lost remaining time: %d", session.Timer.RemainingSeconds)
	}

	// Run it down. Tick reports true exactly once, at zero.
	fired := 0
	for i := 0; i < 235; i++ {
		if eng.Tick() {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("timer fired %d times, want 1", fired)
	}

	// Reaching zero never advances the step.
	session, _ = eng.Session()
	if session.StepIndex != 2 {
		t.Fatalf("step advanced to %d on timer expiry", session.StepIndex)
	}
	if session.Timer.Running {
		t.Fatal("fired timer should be stopped")
	}

	// Moving on clears the timer.
	if err := eng.NextStep(); err != nil {
		t.Fatalf("next: %v", err)
	}
	session, _ = eng.Session()
	if session.Timer != nil {
		t.Fatal("timer should be cleared on step change")
	}
}

func TestPrevStepIsMonotonic(t *testing.T) {
	eng, _, _, ctx := setupEngine(t)

	if _, err := eng.Start(ctx, "weeknight-stir-fry"); err != nil {
		t.Fatalf("starting session: %v", err)
	}

	// At step 0 going back is a no-op.
	if err := eng.PrevStep(); err != nil {
		t.Fatalf("prev at zero: %v", err)
	}
	session, _ := eng.Session()
	if session.StepIndex != 0 {
		t.Fatalf("step index moved to %d", session.StepIndex)
	}

	eng.NextStep()
	if err := eng.PrevStep(); err != nil {
		t.Fatalf("prev: %v", err)
	}
	session, _ = eng.Session()
	if session.StepIndex != 0 {
		t.Fatalf("expected step 0, got %d", session.StepIndex)
	}
	// Going back never un-completes a step.
	if !session.CompletedSteps[0] {
		t.Fatal("completed step was un-marked")
	}
}

func TestExitAndResume(t *testing.T) {
	eng, plans, _, ctx := setupEngine(t)

	first, err := eng.Start(ctx, "weeknight-stir-fry")
	if err != nil {
		t.Fatalf("starting session: %v", err)
	}
	eng.NextStep()
	eng.ToggleIngredient(0)

	if err := eng.Exit(); err != nil {
		t.Fatalf("exiting: %v", err)
	}
	if _, ok := eng.Session(); ok {
		t.Fatal("session should be inactive after exit")
	}

	// Restarting the same recipe resumes at the saved step with the
	// same plan entry, but the checklist starts fresh.
	resumed, err := eng.Start(ctx, "weeknight-stir-fry")
	if err != nil {
		t.Fatalf("resuming: %v", err)
	}
	if resumed.StepIndex != 1 {
		t.Fatalf("expected resume at step index 1, got %d", resumed.StepIndex)
	}
	if resumed.PlanEntryID != first.PlanEntryID {
		t.Fatal("resume should reuse the original plan entry")
	}
	if len(resumed.CheckedIngredients) != 0 {
		t.Fatal("checklist should reset on resume")
	}
	if len(plans.All()) != 1 {
		t.Fatalf("resume created a second plan entry: %d", len(plans.All()))
	}

	// Exiting and starting a different recipe discards the suspension.
	eng.Exit()
	fresh, err := eng.Start(ctx, "shakshuka")
	if err != nil {
		t.Fatalf("starting other recipe: %v", err)
	}
	if fresh.StepIndex != 0 {
		t.Fatalf("different recipe should start at step 0, got %d", fresh.StepIndex)
	}
	if len(plans.All()) != 2 {
		t.Fatalf("expected 2 plan entries, got %d", len(plans.All()))
	}
}

func TestNoActiveSession(t *testing.T) {
	eng, _, _, _ := setupEngine(t)

	if err := eng.NextStep(); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("NextStep: expected ErrNoActiveSession, got %v", err)
	}
	if err := eng.Exit(); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("Exit: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := eng.SubmitRating(5, ""); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("SubmitRating: expected ErrNoActiveSession, got %v", err)
	}
}
