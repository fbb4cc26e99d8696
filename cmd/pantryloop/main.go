// PantryLoop, a household meal planning and kitchen companion.
//
// Usage:
//
//	pantryloop [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pantryloop/pantryloop/internal/conversation"
	"github.com/pantryloop/pantryloop/internal/display"
	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/engine"
	"github.com/pantryloop/pantryloop/internal/inventory"
	"github.com/pantryloop/pantryloop/internal/logger"
	"github.com/pantryloop/pantryloop/internal/plan"
	"github.com/pantryloop/pantryloop/internal/prep"
	"github.com/pantryloop/pantryloop/internal/progress"
	"github.com/pantryloop/pantryloop/internal/recipe"
	"github.com/pantryloop/pantryloop/internal/recommend"
	"github.com/pantryloop/pantryloop/internal/remote"
	"github.com/pantryloop/pantryloop/internal/storage"
	"github.com/pantryloop/pantryloop/internal/timer"
)

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".pantryloop/pantryloop.log", "file to write logs to (use \"stderr\" to log to console)")
	dataFile := flag.String("data-file", ".pantryloop/state.json", "file to persist inventory, plans, and progress to")
	userID := flag.String("user", envOr("PANTRYLOOP_USER", "home-cook"), "profile id for remote sync and partner linking")
	weeknightMax := flag.Int("weeknight-max", envInt("PANTRYLOOP_WEEKNIGHT_MAX", 0), "max total minutes for weeknight recommendations (0 = default)")
	weekendMax := flag.Int("weekend-max", envInt("PANTRYLOOP_WEEKEND_MAX", 0), "max total minutes for weekend recommendations (0 = default)")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so
	// third-party libraries don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Set up context, cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	recipes := recipe.NewMemorySource(log)
	inv := inventory.NewLedger(log)
	plans := plan.NewStore(log)
	prog := progress.NewLedger(log)
	recommender := recommend.New(inv, recipes, log)
	eng := engine.New(recipes, plans, prog, progress.CompletionXP, log)
	deriver := prep.NewDeriver(recipes, plans, log)
	store := storage.NewFileStore(*dataFile, log)

	// Restore persisted state, if any.
	if doc, err := store.Load(); err == nil {
		inv.Restore(doc.Inventory)
		plans.Restore(doc.Plan)
		prog.Restore(doc.Progress)
		deriver.Restore(doc.PrepTasks)
		log.Info("loaded state from %s", *dataFile)
	} else if !errors.Is(err, domain.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "warning: could not load state: %v\n", err)
	}

	status := &statusSource{engine: eng, progress: prog}
	ui := display.NewUI(status)
	notifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewKeywordParser(log)

	profiles := remote.NewMemoryClient()
	syncer := remote.NewSyncer(notifier, log)
	syncer.Start(ctx)
	defer syncer.Stop()

	prefs := domain.Preferences{
		WeeknightMaxMinutes: *weeknightMax,
		WeekendMaxMinutes:   *weekendMax,
	}.Normalized()

	// Register the local profile; fire-and-forget like every remote write.
	uid := *userID
	syncer.Enqueue("profile", func(ctx context.Context) error {
		return profiles.UpdateProfile(ctx, &domain.Profile{ID: uid, DisplayName: uid, Preferences: prefs})
	})

	// Start the background step-timer ticker.
	runner := timer.New(eng, notifier, log)
	runner.Start(ctx)
	defer runner.Stop()

	app := &cliApp{
		engine:      eng,
		recipes:     recipes,
		inventory:   inv,
		plans:       plans,
		progress:    prog,
		recommender: recommender,
		deriver:     deriver,
		store:       store,
		profiles:    profiles,
		syncer:      syncer,
		parser:      parser,
		notifier:    notifier,
		log:         log,
		ui:          ui,
		userID:      uid,
		prefs:       prefs,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'recommend' for tonight's meal, 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	app.save()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// statusSource adapts the engine and progression ledger to the status
// bar. Safe for concurrent use; both dependencies lock internally.
type statusSource struct {
	engine   *engine.Engine
	progress *progress.Ledger
}

func (s *statusSource) StatusBar() display.Status {
	st := display.Status{}

	p := s.progress.State()
	st.Level = p.Level
	st.CurrentXP = p.CurrentXP
	st.NextLevelXP = p.NextLevelXP
	st.Streak = p.Streak

	if sess, ok := s.engine.Session(); ok && sess.Timer != nil {
		st.HasTimer = true
		st.TimerLabel = fmt.Sprintf("Step %d", sess.Timer.StepIndex+1)
		st.Remaining = time.Duration(sess.Timer.RemainingSeconds) * time.Second
		st.TimerDone = sess.Timer.RemainingSeconds == 0 && !sess.Timer.Running
	}
	return st
}

type cliApp struct {
	engine      *engine.Engine
	recipes     *recipe.MemorySource
	inventory   *inventory.Ledger
	plans       *plan.Store
	progress    *progress.Ledger
	recommender *recommend.Recommender
	deriver     *prep.Deriver
	store       *storage.FileStore
	profiles    domain.ProfileClient
	syncer      *remote.Syncer
	parser      domain.IntentParser
	notifier    domain.Notifier
	log         *logger.Logger
	ui          *display.UI
	userID      string
	prefs       domain.Preferences

	lastRec *domain.MealRecommendation
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Evening! Ask me what to cook, or add groceries to the pantry.")
	a.ui.Println("")

	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		session, _ := a.engine.Session()

		intent, err := a.parser.Parse(ctx, input, session)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentRecommend:
		a.recommendMeal(ctx)
	case domain.IntentReject:
		a.rejectMeal(ctx, intent.Payload)
	case domain.IntentStartCooking:
		a.startCooking(ctx, intent.Payload)
	case domain.IntentNextStep:
		a.nextStep(ctx)
	case domain.IntentPrevStep:
		a.prevStep(ctx)
	case domain.IntentToggleIngredient:
		a.toggleIngredient(intent.Payload)
	case domain.IntentServingsUp:
		a.adjustServings(domain.ServingMultiplierStep)
	case domain.IntentServingsDown:
		a.adjustServings(-domain.ServingMultiplierStep)
	case domain.IntentStartTimer:
		a.startTimer()
	case domain.IntentPauseTimer:
		a.pauseTimer()
	case domain.IntentResetTimer:
		a.resetTimer()
	case domain.IntentRate:
		a.rate(ctx, intent.Payload)
	case domain.IntentSkipRating:
		a.skipRating(ctx)
	case domain.IntentExitSession:
		a.exitSession()
	case domain.IntentPantryAdd:
		a.pantryAdd(intent.Payload)
	case domain.IntentPantryList:
		a.pantryList()
	case domain.IntentPantryExpiring:
		a.pantryExpiring()
	case domain.IntentPantryRemove:
		a.pantryRemove(intent.Payload)
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentPrepList:
		a.prepList(ctx)
	case domain.IntentPrepDone:
		a.prepDone(ctx, intent.Payload)
	case domain.IntentStats:
		a.showStats()
	case domain.IntentInvite:
		a.invite(ctx, intent.Payload)
	case domain.IntentStatus:
		a.showStatus()
	case domain.IntentQuit:
		a.quit()
	case domain.IntentUnknown:
		if intent.Payload != "" {
			a.ui.PrintHint(fmt.Sprintf("Didn't catch that (%q). Type 'help' for commands.", intent.Payload))
		}
	}
}

// ── Recommendation ───────────────────────────────────────────────

func (a *cliApp) recommendMeal(ctx context.Context) {
	rec, err := a.recommender.Recommend(ctx, a.prefs, time.Now())
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.lastRec = rec
	a.showRecommendation(rec)
}

func (a *cliApp) rejectMeal(ctx context.Context, reason string) {
	if a.lastRec == nil {
		a.ui.PrintHint("Nothing to reject yet. Type 'recommend' first.")
		return
	}
	rec, err := a.recommender.RejectAndNext(ctx, reason, a.prefs, time.Now())
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	a.lastRec = rec
	a.ui.PrintChat("Fair enough. How about this instead:")
	a.showRecommendation(rec)
}

func (a *cliApp) showRecommendation(rec *domain.MealRecommendation) {
	r := rec.Recipe
	a.ui.PrintStep(fmt.Sprintf("Tonight: %s (%s, %s, ~%dm)", r.Name, r.Cuisine, r.Difficulty, r.TotalMinutes()))
	a.ui.PrintInstruction(r.Description)
	a.ui.PrintChat(rec.Reasoning)

	for _, item := range rec.ExpiringMatches {
		if days, ok := item.DaysUntilExpiry(time.Now()); ok {
			a.ui.PrintHint(fmt.Sprintf("uses %s (expires in %dd)", item.Name, days))
		}
	}
	if rec.EstimatedSavings > 0 {
		a.ui.PrintHint(fmt.Sprintf("estimated savings: $%.2f", rec.EstimatedSavings))
	}
	if len(rec.MissingIngredients) > 0 {
		a.ui.PrintHint("you may need: " + strings.Join(rec.MissingIngredients, ", "))
	}
	a.ui.PrintChat("Type 'cook' to start, or 'no' for another idea.")
}

// ── Cooking session ──────────────────────────────────────────────

func (a *cliApp) startCooking(ctx context.Context, payload string) {
	if _, ok := a.engine.Session(); ok {
		a.ui.PrintHint("A session is already running. Type 'status' to see where you are.")
		return
	}

	recipeID := ""
	if payload == "" {
		if a.lastRec == nil {
			a.ui.PrintHint("Pick a meal first: 'recommend' or 'cook <recipe name>'.")
			return
		}
		recipeID = a.lastRec.Recipe.ID
	} else {
		matches, err := a.recipes.Search(ctx, payload)
		if err != nil || len(matches) == 0 {
			a.ui.PrintHint(fmt.Sprintf("No recipe matching %q. Type 'recipes' to browse.", payload))
			return
		}
		recipeID = matches[0].ID
	}

	session, err := a.engine.Start(ctx, recipeID)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error starting session: %v", err))
		return
	}

	r, _ := a.engine.Recipe()
	if session.StepIndex > 0 {
		a.ui.PrintChat(fmt.Sprintf("Picking %s back up at step %d.", r.Name, session.StepIndex+1))
	} else {
		a.ui.PrintChat(fmt.Sprintf("Let's cook %s. Check off ingredients as you gather them.", r.Name))
	}
	a.showIngredients()
	a.ui.Println("")
	a.showCurrentStep()
}

func (a *cliApp) showIngredients() {
	ings, err := a.engine.ScaledIngredients()
	if err != nil {
		return
	}
	session, _ := a.engine.Session()

	a.ui.PrintStep(fmt.Sprintf("Ingredients (x%.1f servings):", session.Multiplier))
	for i, ing := range ings {
		mark := "[ ]"
		if ing.Checked {
			mark = "[x]"
		}
		opt := ""
		if ing.Optional {
			opt = " (optional)"
		}
		a.ui.PrintInstruction(fmt.Sprintf("  %s %d. %s %s %s%s", mark, i+1, ing.Display, ing.Unit, ing.Name, opt))
	}
}

func (a *cliApp) showCurrentStep() {
	step, err := a.engine.CurrentStep()
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	r, _ := a.engine.Recipe()

	header := fmt.Sprintf("Step %d/%d", step.Order, len(r.Steps))
	if step.Timed() {
		header += fmt.Sprintf(" (~%dm)", step.DurationMinutes)
	}
	a.ui.PrintStep(header)
	a.ui.PrintInstruction(step.Instruction)
	if step.Tip != "" {
		a.ui.PrintHint("tip: " + step.Tip)
	}
	if step.Timed() {
		a.ui.PrintHint(fmt.Sprintf("Timer ready: %dm. Type 'timer' when you're set.", step.DurationMinutes))
	}
}

func (a *cliApp) nextStep(ctx context.Context) {
	if err := a.engine.NextStep(); err != nil {
		a.printSessionErr(err)
		return
	}

	session, _ := a.engine.Session()
	if session.Phase == domain.PhaseAwaitingRating {
		r, _ := a.engine.Recipe()
		a.ui.PrintChat(fmt.Sprintf("That's %s done! How was it? 'rate 1'..'rate 5', or 'skip'.", r.Name))
		return
	}
	a.showCurrentStep()
}

func (a *cliApp) prevStep(ctx context.Context) {
	if err := a.engine.PrevStep(); err != nil {
		a.printSessionErr(err)
		return
	}
	a.showCurrentStep()
}

func (a *cliApp) toggleIngredient(payload string) {
	idx, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		a.ui.PrintHint("Check ingredients by number, e.g. 'check 2'.")
		return
	}
	if err := a.engine.ToggleIngredient(idx - 1); err != nil {
		a.printSessionErr(err)
		return
	}
	a.showIngredients()
}

func (a *cliApp) adjustServings(delta float64) {
	m, err := a.engine.AdjustServings(delta)
	if err != nil {
		a.printSessionErr(err)
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Scaling to x%.1f servings.", m))
	a.showIngredients()
}

func (a *cliApp) startTimer() {
	if err := a.engine.StartTimer(); err != nil {
		if errors.Is(err, domain.ErrNoStepTimer) {
			a.ui.PrintHint("This step has no timer.")
			return
		}
		a.printSessionErr(err)
		return
	}
	a.ui.PrintChat("Timer started. I'll shout when it's up.")
}

func (a *cliApp) pauseTimer() {
	if err := a.engine.PauseTimer(); err != nil {
		if errors.Is(err, domain.ErrNoStepTimer) {
			a.ui.PrintHint("No timer to pause.")
			return
		}
		a.printSessionErr(err)
		return
	}
	a.ui.PrintChat("Timer paused. 'timer' to resume.")
}

func (a *cliApp) resetTimer() {
	if err := a.engine.ResetTimer(); err != nil {
		if errors.Is(err, domain.ErrNoStepTimer) {
			a.ui.PrintHint("This step has no timer.")
			return
		}
		a.printSessionErr(err)
		return
	}
	a.ui.PrintChat("Timer reset. 'timer' to start it again.")
}

func (a *cliApp) rate(ctx context.Context, payload string) {
	stars, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		a.ui.PrintHint("Rate with a number, e.g. 'rate 4'.")
		return
	}
	res, err := a.engine.SubmitRating(stars, "")
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRating) {
			a.ui.PrintHint("Ratings go from 1 to 5.")
			return
		}
		a.printSessionErr(err)
		return
	}
	a.afterCompletion(ctx, res)
}

func (a *cliApp) skipRating(ctx context.Context) {
	res, err := a.engine.SkipRating()
	if err != nil {
		a.printSessionErr(err)
		return
	}
	a.afterCompletion(ctx, res)
}

// afterCompletion applies everything that hangs off a finished session:
// achievement and challenge bookkeeping, persistence, prep refresh, and
// the remote progress backup.
func (a *cliApp) afterCompletion(ctx context.Context, res *engine.CompletionResult) {
	before := time.Now()

	a.ui.PrintReward(fmt.Sprintf("+%d XP", res.XPAwarded))
	a.ui.PrintReward(fmt.Sprintf("Level %d, %d/%d XP, %d-day streak",
		res.Progress.Level, res.Progress.CurrentXP, res.Progress.NextLevelXP, res.Progress.Streak))

	// Count-based achievements are driven from the plan ledger so they
	// survive restarts without separate counters.
	count := a.plans.CompletedCount()
	a.progress.SetAchievementProgress(progress.AchFirstMeal, count)
	a.progress.SetAchievementProgress(progress.AchTenMeals, count)
	a.progress.SetAchievementProgress(progress.AchFiftyMeals, count)
	a.progress.SetAchievementProgress(progress.AchWeekStreak, res.Progress.Streak)
	a.progress.SetAchievementProgress(progress.AchLevelTen, res.Progress.Level)

	cuisines, newCuisine := a.cuisineHistory(ctx, res)
	a.progress.SetAchievementProgress(progress.AchCuisineHopper, len(cuisines))

	if res.Rating != nil && *res.Rating == 5 {
		a.progress.IncrementAchievement(progress.AchFiveStarNights, 1)
	}
	if p, err := a.profiles.FetchProfile(ctx, a.userID); err == nil && p.PartnerID != "" {
		a.progress.IncrementAchievement(progress.AchPartnerPlates, 1)
	}

	a.progress.AdvanceChallenge("daily-cook", 1)
	a.progress.AdvanceChallenge("weekly-three", 1)
	if newCuisine {
		a.progress.AdvanceChallenge("weekly-new-cuisine", 1)
	}

	if ach, ok := a.progress.FirstUnlockedSince(before); ok {
		a.ui.PrintReward(fmt.Sprintf("%s Achievement unlocked: %s (%s)", ach.Icon, ach.Name, ach.Tier))
	}

	a.save()
	if _, err := a.deriver.Regenerate(ctx, time.Now()); err != nil {
		a.log.Warn("prep regenerate: %v", err)
	}

	snap := res.Progress
	a.syncer.Enqueue("progress", func(ctx context.Context) error {
		return a.profiles.PushProgress(ctx, a.userID, &snap)
	})

	a.lastRec = nil
	a.ui.PrintChat("Kitchen's closed. See you tomorrow night?")
}

// cuisineHistory returns the distinct cuisines across completed meals
// and whether this completion introduced a new one.
func (a *cliApp) cuisineHistory(ctx context.Context, res *engine.CompletionResult) (map[string]bool, bool) {
	cuisines := make(map[string]bool)
	seenBefore := false
	for _, e := range a.plans.All() {
		if !e.Completed {
			continue
		}
		r, err := a.recipes.Get(ctx, e.RecipeID)
		if err != nil {
			continue
		}
		cuisines[r.Cuisine] = true
		if e.ID != res.PlanEntryID && r.Cuisine == res.Recipe.Cuisine {
			seenBefore = true
		}
	}
	return cuisines, !seenBefore
}

func (a *cliApp) exitSession() {
	if err := a.engine.Exit(); err != nil {
		a.printSessionErr(err)
		return
	}
	a.ui.PrintChat("Saved your place. 'cook' the same recipe to pick it back up.")
}

func (a *cliApp) printSessionErr(err error) {
	switch {
	case errors.Is(err, domain.ErrNoActiveSession):
		a.ui.PrintHint("No active cooking session. Type 'recommend' or 'cook <recipe>'.")
	case errors.Is(err, domain.ErrSessionPhase):
		a.ui.PrintHint("Can't do that right now: " + err.Error())
	default:
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
	}
}

// ── Pantry ───────────────────────────────────────────────────────

var expiryToken = regexp.MustCompile(`^(\d+)d$`)

// pantryAdd parses free-form "add" payloads. Recognized tokens anywhere
// in the line: a bare number (quantity), a category name, a location,
// and "Nd" (expires in N days). Everything else is the item name.
func (a *cliApp) pantryAdd(payload string) {
	item := domain.InventoryItem{
		Quantity: 1,
		Category: domain.CategoryOther,
		Location: domain.LocationPantry,
	}

	var nameParts []string
	for _, f := range strings.Fields(payload) {
		lf := strings.ToLower(f)
		switch {
		case isCategory(lf):
			item.Category = domain.ParseCategory(lf)
		case lf == "fridge" || lf == "freezer" || lf == "pantry":
			item.Location = domain.ParseLocation(lf)
		case expiryToken.MatchString(lf):
			days, _ := strconv.Atoi(expiryToken.FindStringSubmatch(lf)[1])
			t := time.Now().AddDate(0, 0, days)
			item.ExpiresAt = &t
		case isNumber(lf):
			item.Quantity = inventory.ParseQuantity(lf)
		default:
			nameParts = append(nameParts, f)
		}
	}
	item.Name = strings.Join(nameParts, " ")

	added := a.inventory.Add(item)
	line := fmt.Sprintf("Added %s x%d (%s, %s)", added.Name, added.Quantity, added.Category, added.Location)
	if days, ok := added.DaysUntilExpiry(time.Now()); ok {
		line += fmt.Sprintf(", expires in %dd", days)
	}
	a.ui.PrintChat(line)
	a.save()
}

func isCategory(s string) bool {
	for _, c := range domain.Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

func (a *cliApp) pantryList() {
	items := a.inventory.All()
	if len(items) == 0 {
		a.ui.PrintHint("Pantry's empty. 'add <item>' to stock up.")
		return
	}

	a.ui.PrintStep(fmt.Sprintf("Pantry (%d items):", len(items)))
	now := time.Now()
	for _, item := range items {
		line := fmt.Sprintf("  %s x%d (%s, %s)", item.Name, item.Quantity, item.Category, item.Location)
		if days, ok := item.DaysUntilExpiry(now); ok {
			if days < 0 {
				line += " [EXPIRED]"
			} else {
				line += fmt.Sprintf(" [%dd left]", days)
			}
		}
		a.ui.PrintInstruction(line)
	}
}

func (a *cliApp) pantryExpiring() {
	items := a.inventory.ExpiringWithin(5)
	if len(items) == 0 {
		a.ui.PrintChat("Nothing expiring in the next 5 days. Nice.")
		return
	}

	a.ui.PrintStep("Use these soon:")
	now := time.Now()
	for _, item := range items {
		days, _ := item.DaysUntilExpiry(now)
		if days < 0 {
			a.ui.PrintUrgent(fmt.Sprintf("  %s has expired", item.Name))
		} else {
			a.ui.PrintInstruction(fmt.Sprintf("  %s, %dd left", item.Name, days))
		}
	}
	a.ui.PrintChat("Type 'recommend' and I'll work them into dinner.")
}

func (a *cliApp) pantryRemove(payload string) {
	name := strings.ToLower(strings.TrimSpace(payload))
	for _, item := range a.inventory.All() {
		if strings.Contains(strings.ToLower(item.Name), name) {
			a.inventory.Remove(item.ID)
			a.ui.PrintChat(fmt.Sprintf("Removed %s.", item.Name))
			a.save()
			return
		}
	}
	a.ui.PrintHint(fmt.Sprintf("No pantry item matching %q.", payload))
}

// ── Catalog, prep, stats ─────────────────────────────────────────

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.recipes.List(ctx)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error loading recipes: %v", err))
		return
	}

	a.ui.PrintStep("Recipes:")
	for _, r := range recipes {
		a.ui.PrintInstruction(fmt.Sprintf("  %s (%s, %s, ~%dm)", r.Name, r.Cuisine, r.Difficulty, r.TotalMinutes))
	}
	a.ui.PrintChat("Type 'cook <name>' to start one.")
}

func (a *cliApp) prepList(ctx context.Context) {
	tasks, err := a.deriver.Regenerate(ctx, time.Now())
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		return
	}
	if len(tasks) == 0 {
		a.ui.PrintHint("No prep tasks. Plan a meal first ('recommend', then 'cook').")
		return
	}

	a.ui.PrintStep("Prep ahead:")
	for i, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %d. %s %s (~%dm)", mark, i+1, t.Emoji, t.Label, t.Minutes)
		if len(t.Days) > 0 {
			line += " for " + strings.Join(t.Days, ", ")
		}
		a.ui.PrintInstruction(line)
	}
	a.ui.PrintChat("Mark one off with 'prepped <number>'.")
}

func (a *cliApp) prepDone(ctx context.Context, payload string) {
	idx, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		a.ui.PrintHint("Mark tasks by number, e.g. 'prepped 1'.")
		return
	}
	tasks := a.deriver.Tasks()
	if idx < 1 || idx > len(tasks) {
		a.ui.PrintHint(fmt.Sprintf("No prep task %d. 'prep' to see the list.", idx))
		return
	}
	a.deriver.SetCompleted(tasks[idx-1].ID, true)
	a.ui.PrintChat(fmt.Sprintf("%s done. Future you says thanks.", tasks[idx-1].Label))
	a.save()
}

func (a *cliApp) showStats() {
	p := a.progress.State()

	a.ui.PrintStep(fmt.Sprintf("Level %d (%d/%d XP)", p.Level, p.CurrentXP, p.NextLevelXP))
	a.ui.PrintInstruction(fmt.Sprintf("  Streak: %d days (best %d)", p.Streak, p.LongestStreak))
	a.ui.PrintInstruction(fmt.Sprintf("  Meals cooked: %d", a.plans.CompletedCount()))

	a.ui.Println("")
	a.ui.PrintStep("Achievements:")
	for _, ach := range p.Achievements {
		if ach.Unlocked() {
			a.ui.PrintReward(fmt.Sprintf("  %s %s (%s)", ach.Icon, ach.Name, ach.Tier))
		} else {
			a.ui.PrintHint(fmt.Sprintf("  %s %s: %d/%d", ach.Icon, ach.Name, ach.Progress, ach.Target))
		}
	}

	if len(p.Badges) > 0 {
		a.ui.Println("")
		a.ui.PrintStep("Badges:")
		for _, b := range p.Badges {
			a.ui.PrintReward(fmt.Sprintf("  %s %s", b.Icon, b.Name))
		}
	}

	active := a.progress.ActiveChallenges(time.Now())
	if len(active) > 0 {
		a.ui.Println("")
		a.ui.PrintStep("Challenges:")
		for _, c := range active {
			a.ui.PrintInstruction(fmt.Sprintf("  %s: %d/%d (+%d XP)", c.Name, c.Progress, c.Target, c.RewardXP))
		}
	}
}

// ── Partner linking ──────────────────────────────────────────────

func (a *cliApp) invite(ctx context.Context, payload string) {
	code := strings.ToUpper(strings.TrimSpace(payload))

	if code == "" {
		code = remote.GenerateInviteCode()
		inv := &domain.Invite{
			Code:      code,
			CreatedBy: a.userID,
			ExpiresAt: time.Now().Add(remote.InviteTTL),
		}
		if err := a.profiles.CreateInvite(ctx, inv); err != nil {
			a.ui.PrintUrgent(fmt.Sprintf("Error creating invite: %v", err))
			return
		}
		a.ui.PrintChat(fmt.Sprintf("Partner invite code: %s (valid %d minutes)", code, int(remote.InviteTTL.Minutes())))
		return
	}

	inv, err := a.profiles.ClaimInvite(ctx, code, a.userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInviteExpired):
			a.ui.PrintHint("That invite has expired. Ask for a fresh one.")
		case errors.Is(err, domain.ErrNotFound):
			a.ui.PrintHint("No invite with that code.")
		default:
			a.ui.PrintUrgent(fmt.Sprintf("Error: %v", err))
		}
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Linked with %s. Meals you cook together now count for both of you.", inv.CreatedBy))
}

// ── Status, help, quit ───────────────────────────────────────────

func (a *cliApp) showStatus() {
	session, ok := a.engine.Session()
	if !ok {
		a.ui.PrintHint("No active cooking session.")
		return
	}
	r, _ := a.engine.Recipe()

	a.ui.PrintStep(fmt.Sprintf("Cooking: %s", r.Name))
	a.ui.PrintInstruction(fmt.Sprintf("  Phase: %s", session.Phase))
	a.ui.PrintInstruction(fmt.Sprintf("  Step:  %d/%d", session.StepIndex+1, len(r.Steps)))
	a.ui.PrintInstruction(fmt.Sprintf("  Servings: x%.1f", session.Multiplier))
	a.ui.PrintHint(fmt.Sprintf("  Started %s ago", time.Since(session.StartedAt).Round(time.Second)))

	if t := session.Timer; t != nil {
		state := "paused"
		if t.Running {
			state = "running"
		}
		a.ui.PrintChat(fmt.Sprintf("  Timer: %s, %s", time.Duration(t.RemainingSeconds)*time.Second, state))
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintStep("Planning:")
	a.ui.PrintInstruction("  recommend        Suggest tonight's meal")
	a.ui.PrintInstruction("  no [reason]      Reject the suggestion, get another")
	a.ui.PrintInstruction("  recipes          Browse the recipe catalog")
	a.ui.PrintInstruction("  prep             Show prep-ahead tasks for planned meals")
	a.ui.PrintInstruction("  prepped <n>      Mark a prep task done")
	a.ui.Println("")
	a.ui.PrintStep("Pantry:")
	a.ui.PrintInstruction("  add <item> [qty] [category] [fridge|freezer|pantry] [Nd]")
	a.ui.PrintInstruction("  pantry           List everything in stock")
	a.ui.PrintInstruction("  expiring         Show what's going bad soon")
	a.ui.PrintInstruction("  remove <item>    Take an item out of the pantry")
	a.ui.Println("")
	a.ui.PrintStep("Cooking:")
	a.ui.PrintInstruction("  cook [recipe]    Start cooking (recommendation by default)")
	a.ui.PrintInstruction("  check <n>        Toggle an ingredient on the checklist")
	a.ui.PrintInstruction("  more / less      Scale servings up or down")
	a.ui.PrintInstruction("  next / back      Move between steps")
	a.ui.PrintInstruction("  timer / pause / reset")
	a.ui.PrintInstruction("  rate <1-5>       Rate the finished meal (or 'skip')")
	a.ui.PrintInstruction("  leave            Exit the session, keeping your place")
	a.ui.Println("")
	a.ui.PrintStep("Progress:")
	a.ui.PrintInstruction("  stats            Level, streak, achievements, challenges")
	a.ui.PrintInstruction("  invite [code]    Create or claim a partner invite")
	a.ui.PrintInstruction("  status           Where you are in the current session")
	a.ui.PrintInstruction("  quit             Save and exit")
}

func (a *cliApp) quit() {
	if _, ok := a.engine.Session(); ok {
		if err := a.engine.Exit(); err != nil {
			a.log.Error("exiting session: %v", err)
		}
		a.ui.PrintChat("Saved your place in the recipe.")
	}
	a.save()
	a.ui.PrintChat("Good night!")
	time.Sleep(200 * time.Millisecond)
	a.ui.Quit()
}

func (a *cliApp) save() {
	doc := storage.Document{
		Inventory: a.inventory.Snapshot(),
		Plan:      a.plans.Snapshot(),
		Progress:  a.progress.Snapshot(),
		PrepTasks: a.deriver.Snapshot(),
	}
	if err := a.store.Save(doc); err != nil {
		a.log.Error("saving state: %v", err)
	}
}
