// Package prep derives pre-cooking preparation tasks from the
// ingredient lists of upcoming planned meals.
package prep

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// PlanSource is the slice of the meal plan store the deriver reads.
type PlanSource interface {
	Upcoming(now time.Time) []domain.MealPlanEntry
}

// Deriver scans upcoming meal plans and maintains the prep task list.
// Regeneration is a full replace: completed flags for tasks no longer
// derived are discarded, not diffed.
type Deriver struct {
	recipes domain.RecipeSource
	plans   PlanSource
	log     *logger.Logger

	mu    sync.RWMutex
	tasks []domain.PrepTask
}

// NewDeriver creates a prep task deriver.
func NewDeriver(recipes domain.RecipeSource, plans PlanSource, log *logger.Logger) *Deriver {
	return &Deriver{
		recipes: recipes,
		plans:   plans,
		log:     log,
	}
}

// Regenerate rebuilds the task list from upcoming incomplete plans.
// When no upcoming plans exist the current tasks are left untouched.
func (d *Deriver) Regenerate(ctx context.Context, now time.Time) ([]domain.PrepTask, error) {
	upcoming := d.plans.Upcoming(now)
	if len(upcoming) == 0 {
		d.log.Debug("prep: no upcoming plans, keeping existing tasks")
		return d.Tasks(), nil
	}

	// Merge by label so two meals needing onions on different days
	// yield one task used on both days.
	byLabel := make(map[string]*domain.PrepTask)
	var order []string

	for _, entry := range upcoming {
		recipe, err := d.recipes.Get(ctx, entry.RecipeID)
		if err != nil {
			d.log.Warn("prep: recipe %s for plan %s: %v", entry.RecipeID, entry.ID, err)
			continue
		}
		day := entry.Date.Format("Mon")

		for _, ing := range recipe.Ingredients {
			r, ok := matchRule(ing.Name)
			if !ok {
				continue
			}
			task, seen := byLabel[r.label]
			if !seen {
				task = &domain.PrepTask{
					ID:         uuid.NewString(),
					Label:      r.label,
					Emoji:      r.emoji,
					Minutes:    r.minutes,
					Ingredient: ing.Name,
					Type:       r.kind,
				}
				byLabel[r.label] = task
				order = append(order, r.label)
			}
			appendDay(task, day)
		}
	}

	tasks := make([]domain.PrepTask, 0, len(order))
	for _, label := range order {
		tasks = append(tasks, *byLabel[label])
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		pi, pj := typePriority[tasks[i].Type], typePriority[tasks[j].Type]
		if pi != pj {
			return pi < pj
		}
		return tasks[i].Minutes > tasks[j].Minutes
	})

	d.mu.Lock()
	d.tasks = tasks
	d.mu.Unlock()

	d.log.Info("prep: derived %d tasks from %d upcoming plans", len(tasks), len(upcoming))
	return d.Tasks(), nil
}

// Tasks returns a copy of the current task list.
func (d *Deriver) Tasks() []domain.PrepTask {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]domain.PrepTask(nil), d.tasks...)
}

// SetCompleted toggles a task's completed flag by id. Unknown ids are
// ignored.
func (d *Deriver) SetCompleted(id string, done bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.tasks {
		if d.tasks[i].ID == id {
			d.tasks[i].Completed = done
			return
		}
	}
}

// Snapshot returns the task list for persistence.
func (d *Deriver) Snapshot() []domain.PrepTask {
	return d.Tasks()
}

// Restore replaces the task list, used when loading saved state.
func (d *Deriver) Restore(tasks []domain.PrepTask) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append([]domain.PrepTask(nil), tasks...)
}

func appendDay(task *domain.PrepTask, day string) {
	for _, existing := range task.Days {
		if existing == day {
			return
		}
	}
	task.Days = append(task.Days, day)
}
