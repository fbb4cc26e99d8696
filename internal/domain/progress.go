package domain

import "time"

// UserProgress is the gamification state for one user.
//
// Invariant: after any XP grant, 0 <= CurrentXP < NextLevelXP for the
// resulting level. Level never decreases.
type UserProgress struct {
	Level         int
	CurrentXP     int
	NextLevelXP   int
	Streak        int // consecutive cooking days
	LongestStreak int // high-water mark, always >= Streak
	Achievements  []Achievement
	Badges        []Badge
	Challenges    []Challenge
}

// AchievementTier ranks achievements.
type AchievementTier string

const (
	TierBronze   AchievementTier = "bronze"
	TierSilver   AchievementTier = "silver"
	TierGold     AchievementTier = "gold"
	TierPlatinum AchievementTier = "platinum"
)

// Achievement tracks progress toward a count threshold. Once unlocked,
// UnlockedAt is never cleared and Progress never drops below Target.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Tier        AchievementTier
	Target      int
	Progress    int // 0 <= Progress <= Target
	UnlockedAt  *time.Time
}

// Unlocked reports whether the achievement has been earned.
func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

// Badge is a cosmetic reward, typically granted by challenges.
type Badge struct {
	ID       string
	Name     string
	Icon     string
	EarnedAt time.Time
}

// ChallengeType classifies challenge cadence.
type ChallengeType string

const (
	ChallengeDaily   ChallengeType = "daily"
	ChallengeWeekly  ChallengeType = "weekly"
	ChallengeSpecial ChallengeType = "special"
)

// Challenge is a time-boxed goal with an XP (and optional badge) reward.
// Progress is clamped to Target. Expired challenges are not removed
// here; callers filter them out via the store's active query.
type Challenge struct {
	ID          string
	Name        string
	Description string
	Type        ChallengeType
	Progress    int
	Target      int
	RewardXP    int
	RewardBadge *Badge
	ExpiresAt   time.Time
}

// Expired reports whether the challenge window has closed.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
