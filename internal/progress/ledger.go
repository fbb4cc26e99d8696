// Package progress implements the progression ledger: XP and levels,
// cooking streaks, achievements, challenges, and badges.
package progress

import (
	"math"
	"sync"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Base XP granted for completing a cooking session, by difficulty.
var completionXP = map[domain.Difficulty]int{
	domain.DifficultyEasy:   50,
	domain.DifficultyMedium: 100,
	domain.DifficultyHard:   150,
}

// ratingBonusPerStar is added per star when a rating was submitted.
const ratingBonusPerStar = 10

// XPForLevel returns the XP needed to clear the given level:
// floor(1000 * 1.2^(level-1)).
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(1000 * math.Pow(1.2, float64(level-1))))
}

// CompletionXP returns the XP award for finishing a session: base by
// difficulty plus rating*10 when a rating was submitted.
func CompletionXP(difficulty domain.Difficulty, rating *int) int {
	base, ok := completionXP[difficulty]
	if !ok {
		base = completionXP[domain.DifficultyMedium]
	}
	if rating != nil {
		base += *rating * ratingBonusPerStar
	}
	return base
}

// Ledger owns the user's progression state. Safe for concurrent use.
type Ledger struct {
	mu    sync.RWMutex
	state domain.UserProgress
	log   *logger.Logger
	now   func() time.Time
}

// Option configures the ledger.
type Option func(*Ledger)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// NewLedger creates a fresh progression ledger at level 1 with the
// default achievement and challenge definitions seeded.
func NewLedger(log *logger.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		log: log,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.state = domain.UserProgress{
		Level:        1,
		NextLevelXP:  XPForLevel(1),
		Achievements: defaultAchievements(),
		Challenges:   defaultChallenges(l.now()),
	}
	return l
}

// State returns a copy of the current progression state.
func (l *Ledger) State() domain.UserProgress {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyState(l.state)
}

// AddXP grants XP and re-normalizes level state. A single grant can
// span several levels; the loop keeps carrying the remainder until
// 0 <= CurrentXP < NextLevelXP holds again.
func (l *Ledger) AddXP(amount int) {
	if amount <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.CurrentXP += amount
	for l.state.CurrentXP >= l.state.NextLevelXP {
		l.state.CurrentXP -= l.state.NextLevelXP
		l.state.Level++
		l.state.NextLevelXP = XPForLevel(l.state.Level)
		l.log.Info("progress: reached level %d", l.state.Level)
	}
	l.log.Debug("progress: +%d XP (level %d, %d/%d)", amount, l.state.Level, l.state.CurrentXP, l.state.NextLevelXP)
}

// UpdateStreak records whether today had a cooking event. Called once
// per session completion by the orchestrating caller; the ledger does
// not track calendar days itself.
func (l *Ledger) UpdateStreak(cookedToday bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cookedToday {
		l.state.Streak++
	} else {
		l.state.Streak = 0
	}
	if l.state.Streak > l.state.LongestStreak {
		l.state.LongestStreak = l.state.Streak
	}
	l.log.Debug("progress: streak=%d longest=%d", l.state.Streak, l.state.LongestStreak)
}

// UnlockAchievement forces an achievement to unlocked: progress jumps
// to target and the unlock timestamp is set. Once set it is never
// cleared.
func (l *Ledger) UnlockAchievement(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a := l.find(id)
	if a == nil || a.UnlockedAt != nil {
		return
	}
	a.Progress = a.Target
	t := l.now()
	a.UnlockedAt = &t
	l.log.Info("progress: achievement unlocked: %s", a.Name)
}

// IncrementAchievement advances an achievement by delta, clamped to its
// target, unlocking it when the threshold is crossed. Returns true when
// this call performed the unlock.
func (l *Ledger) IncrementAchievement(id string, delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bump(id, func(a *domain.Achievement) int { return a.Progress + delta })
}

// SetAchievementProgress sets absolute progress for an achievement.
// Progress never moves backwards once the achievement is unlocked.
// Returns true when this call performed the unlock.
func (l *Ledger) SetAchievementProgress(id string, progress int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bump(id, func(*domain.Achievement) int { return progress })
}

func (l *Ledger) bump(id string, next func(*domain.Achievement) int) bool {
	a := l.find(id)
	if a == nil {
		l.log.Warn("progress: unknown achievement %q", id)
		return false
	}

	p := next(a)
	if a.UnlockedAt != nil {
		// Unlocked achievements stay pinned at target.
		a.Progress = a.Target
		return false
	}
	if p < 0 {
		p = 0
	}
	if p > a.Target {
		p = a.Target
	}
	a.Progress = p
	if a.Progress >= a.Target {
		t := l.now()
		a.UnlockedAt = &t
		l.log.Info("progress: achievement unlocked: %s", a.Name)
		return true
	}
	return false
}

// FirstUnlockedSince returns the earliest achievement unlocked at or
// after t, so the caller can surface a notification. Pure query; no
// state changes.
func (l *Ledger) FirstUnlockedSince(t time.Time) (domain.Achievement, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var best *domain.Achievement
	for i := range l.state.Achievements {
		a := &l.state.Achievements[i]
		if a.UnlockedAt == nil || a.UnlockedAt.Before(t) {
			continue
		}
		if best == nil || a.UnlockedAt.Before(*best.UnlockedAt) {
			best = a
		}
	}
	if best == nil {
		return domain.Achievement{}, false
	}
	return *best, true
}

// Achievement returns a copy of one achievement by id.
func (l *Ledger) Achievement(id string) (domain.Achievement, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a := l.find(id)
	if a == nil {
		return domain.Achievement{}, false
	}
	return *a, true
}

// AdvanceChallenge moves a challenge forward by delta, clamped to its
// target. Crossing the target grants the reward XP and badge exactly
// once. Expired challenges no longer advance.
func (l *Ledger) AdvanceChallenge(id string, delta int) {
	l.mu.Lock()

	var reward int
	var badge *domain.Badge
	for i := range l.state.Challenges {
		c := &l.state.Challenges[i]
		if c.ID != id {
			continue
		}
		if c.Expired(l.now()) || c.Progress >= c.Target {
			break
		}
		c.Progress += delta
		if c.Progress >= c.Target {
			c.Progress = c.Target
			reward = c.RewardXP
			if c.RewardBadge != nil {
				b := *c.RewardBadge
				b.EarnedAt = l.now()
				l.state.Badges = append(l.state.Badges, b)
				badge = &b
			}
			l.log.Info("progress: challenge complete: %s (+%d XP)", c.Name, c.RewardXP)
		}
		break
	}
	l.mu.Unlock()

	if reward > 0 {
		l.AddXP(reward)
	}
	_ = badge
}

// ActiveChallenges returns challenges that have not expired, for
// display. Expired ones stay in state; removal is an external
// scheduler's job.
func (l *Ledger) ActiveChallenges(now time.Time) []domain.Challenge {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.Challenge
	for _, c := range l.state.Challenges {
		if !c.Expired(now) {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot returns the full progression state for persistence.
func (l *Ledger) Snapshot() domain.UserProgress {
	return l.State()
}

// Restore replaces the ledger state, used when loading saved state.
// Zero values are normalized back to a fresh level-1 ledger.
func (l *Ledger) Restore(state domain.UserProgress) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if state.Level < 1 {
		state.Level = 1
	}
	state.NextLevelXP = XPForLevel(state.Level)
	if len(state.Achievements) == 0 {
		state.Achievements = defaultAchievements()
	}
	if len(state.Challenges) == 0 {
		state.Challenges = defaultChallenges(l.now())
	}
	l.state = copyState(state)
	l.log.Debug("progress: restored (level %d, streak %d)", state.Level, state.Streak)
}

func (l *Ledger) find(id string) *domain.Achievement {
	for i := range l.state.Achievements {
		if l.state.Achievements[i].ID == id {
			return &l.state.Achievements[i]
		}
	}
	return nil
}

func copyState(s domain.UserProgress) domain.UserProgress {
	out := s
	out.Achievements = append([]domain.Achievement(nil), s.Achievements...)
	out.Badges = append([]domain.Badge(nil), s.Badges...)
	out.Challenges = append([]domain.Challenge(nil), s.Challenges...)
	return out
}
