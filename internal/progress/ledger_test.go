package progress

import (
	"testing"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	return NewLedger(logger.New(logger.LevelOff, nil))
}

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 1000},
		{2, 1200},
		{3, 1440},
		{5, 2073},
		{0, 1000}, // clamped
	}
	for _, tt := range tests {
		if got := XPForLevel(tt.level); got != tt.want {
			t.Errorf("XPForLevel(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestCompletionXP(t *testing.T) {
	four := 4
	tests := []struct {
		name       string
		difficulty domain.Difficulty
		rating     *int
		want       int
	}{
		{"easy unrated", domain.DifficultyEasy, nil, 50},
		{"medium unrated", domain.DifficultyMedium, nil, 100},
		{"hard unrated", domain.DifficultyHard, nil, 150},
		{"easy rated", domain.DifficultyEasy, &four, 90},
		{"unknown difficulty defaults to medium", domain.Difficulty("mystery"), nil, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionXP(tt.difficulty, tt.rating); got != tt.want {
				t.Fatalf("CompletionXP = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddXPSpansLevels(t *testing.T) {
	l := testLedger(t)

	// 2500 XP from level 1: clears 1000 (level 2), clears 1200
	// (level 3), leaves 300 toward 1440.
	l.AddXP(2500)

	s := l.State()
	if s.Level != 3 {
		t.Fatalf("level = %d, want 3", s.Level)
	}
	if s.CurrentXP != 300 {
		t.Fatalf("currentXP = %d, want 300", s.CurrentXP)
	}
	if s.NextLevelXP != 1440 {
		t.Fatalf("nextLevelXP = %d, want 1440", s.NextLevelXP)
	}
	if s.CurrentXP < 0 || s.CurrentXP >= s.NextLevelXP {
		t.Fatalf("XP invariant violated: %d/%d", s.CurrentXP, s.NextLevelXP)
	}
}

func TestAddXPIgnoresNonPositive(t *testing.T) {
	l := testLedger(t)
	l.AddXP(0)
	l.AddXP(-50)
	if s := l.State(); s.CurrentXP != 0 || s.Level != 1 {
		t.Fatalf("state changed: level %d, %d XP", s.Level, s.CurrentXP)
	}
}

func TestStreakHighWater(t *testing.T) {
	l := testLedger(t)

	for i := 0; i < 3; i++ {
		l.UpdateStreak(true)
	}
	if s := l.State(); s.Streak != 3 || s.LongestStreak != 3 {
		t.Fatalf("streak %d/%d, want 3/3", s.Streak, s.LongestStreak)
	}

	// A break resets the streak but the high-water mark stays.
	l.UpdateStreak(false)
	if s := l.State(); s.Streak != 0 || s.LongestStreak != 3 {
		t.Fatalf("streak %d/%d after break, want 0/3", s.Streak, s.LongestStreak)
	}

	l.UpdateStreak(true)
	if s := l.State(); s.Streak != 1 || s.LongestStreak != 3 {
		t.Fatalf("streak %d/%d, want 1/3", s.Streak, s.LongestStreak)
	}
}

func TestAchievementUnlockIsMonotonic(t *testing.T) {
	l := testLedger(t)

	if l.IncrementAchievement(AchTenMeals, 4) {
		t.Fatal("4/10 should not unlock")
	}
	if !l.IncrementAchievement(AchTenMeals, 6) {
		t.Fatal("10/10 should unlock")
	}

	a, ok := l.Achievement(AchTenMeals)
	if !ok || !a.Unlocked() {
		t.Fatal("achievement should be unlocked")
	}
	unlockedAt := *a.UnlockedAt

	// Further progress never re-unlocks or moves the timestamp, and
	// progress stays pinned at target.
	if l.IncrementAchievement(AchTenMeals, 5) {
		t.Fatal("already-unlocked achievement reported a second unlock")
	}
	if l.SetAchievementProgress(AchTenMeals, 2) {
		t.Fatal("set on unlocked achievement reported an unlock")
	}
	a, _ = l.Achievement(AchTenMeals)
	if a.Progress != a.Target {
		t.Fatalf("progress %d drifted off target %d", a.Progress, a.Target)
	}
	if !a.UnlockedAt.Equal(unlockedAt) {
		t.Fatal("unlock timestamp changed")
	}
}

func TestSetAchievementProgressClamps(t *testing.T) {
	l := testLedger(t)

	if !l.SetAchievementProgress(AchTenMeals, 50) {
		t.Fatal("overshoot should still unlock")
	}
	a, _ := l.Achievement(AchTenMeals)
	if a.Progress != 10 {
		t.Fatalf("progress = %d, want clamped 10", a.Progress)
	}

	l.SetAchievementProgress(AchWeekStreak, -3)
	a, _ = l.Achievement(AchWeekStreak)
	if a.Progress != 0 {
		t.Fatalf("progress = %d, want clamped 0", a.Progress)
	}
}

func TestFirstUnlockedSince(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	l := NewLedger(logger.New(logger.LevelOff, nil), WithClock(func() time.Time { return clock }))

	if _, ok := l.FirstUnlockedSince(base); ok {
		t.Fatal("nothing unlocked yet")
	}

	clock = base.Add(time.Minute)
	l.UnlockAchievement(AchFirstMeal)
	clock = base.Add(2 * time.Minute)
	l.UnlockAchievement(AchTenMeals)

	got, ok := l.FirstUnlockedSince(base)
	if !ok || got.ID != AchFirstMeal {
		t.Fatalf("got %q, want %q", got.ID, AchFirstMeal)
	}

	// Query windows after the first unlock skip it.
	got, ok = l.FirstUnlockedSince(base.Add(90 * time.Second))
	if !ok || got.ID != AchTenMeals {
		t.Fatalf("got %q, want %q", got.ID, AchTenMeals)
	}
}

func TestChallengeRewardGrantedOnce(t *testing.T) {
	l := testLedger(t)

	l.AdvanceChallenge("daily-cook", 1)
	if got := l.State().CurrentXP; got != 25 {
		t.Fatalf("XP = %d, want 25 reward", got)
	}

	// A completed challenge never pays out again.
	l.AdvanceChallenge("daily-cook", 1)
	if got := l.State().CurrentXP; got != 25 {
		t.Fatalf("XP = %d after repeat, want 25", got)
	}
}

func TestChallengeBadgeReward(t *testing.T) {
	l := testLedger(t)

	for i := 0; i < 3; i++ {
		l.AdvanceChallenge("weekly-three", 1)
	}
	s := l.State()
	if s.CurrentXP != 100 {
		t.Fatalf("XP = %d, want 100", s.CurrentXP)
	}
	if len(s.Badges) != 1 || s.Badges[0].Name != "Steady Hand" {
		t.Fatalf("badges = %+v, want Steady Hand", s.Badges)
	}
}

func TestExpiredChallengeDoesNotAdvance(t *testing.T) {
	base := time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)
	clock := base
	l := NewLedger(logger.New(logger.LevelOff, nil), WithClock(func() time.Time { return clock }))

	// Jump past the daily window.
	clock = base.AddDate(0, 0, 2)
	l.AdvanceChallenge("daily-cook", 1)
	if got := l.State().CurrentXP; got != 0 {
		t.Fatalf("expired challenge paid out %d XP", got)
	}

	if active := l.ActiveChallenges(clock); len(active) >= len(l.State().Challenges) {
		t.Fatal("expired challenge still listed as active")
	}
}

func TestRestoreNormalizes(t *testing.T) {
	l := testLedger(t)

	l.Restore(domain.UserProgress{})
	s := l.State()
	if s.Level != 1 || s.NextLevelXP != 1000 {
		t.Fatalf("restore left level %d / next %d", s.Level, s.NextLevelXP)
	}
	if len(s.Achievements) == 0 || len(s.Challenges) == 0 {
		t.Fatal("restore should reseed definitions")
	}

	l.Restore(domain.UserProgress{Level: 4, CurrentXP: 10, Streak: 2})
	s = l.State()
	if s.Level != 4 || s.NextLevelXP != XPForLevel(4) {
		t.Fatalf("restore level 4: got %d/%d", s.Level, s.NextLevelXP)
	}
}
