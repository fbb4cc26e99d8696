package domain

import (
	"context"
	"time"
)

// RecipeSource provides recipes. Implementations can be in-memory
// (bundled), file-based, or backed by a remote catalog.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// IntentParser converts raw user input into an Intent. The session is
// passed so parsers can disambiguate by context (a bare number is a
// rating while a session awaits one, an ingredient index otherwise).
type IntentParser interface {
	Parse(ctx context.Context, input string, session *Session) (*Intent, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout, the TUI scrollback, or push notifications.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Profile is the remotely synced slice of user state.
type Profile struct {
	ID          string
	DisplayName string
	Preferences Preferences
	PartnerID   string // linked cooking partner, "" when unlinked
}

// Invite is a partner-link invite record keyed by a short code.
type Invite struct {
	Code      string
	CreatedBy string
	ClaimedBy string
	ExpiresAt time.Time
}

// ProfileClient talks to the remote profile store. It is consumed only
// by preference sync and partner linking; the recommendation, session,
// and progression core never depends on it. All failures are retried in
// the background and never block local operations.
type ProfileClient interface {
	FetchProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
	FetchProgress(ctx context.Context, userID string) (*UserProgress, error)
	PushProgress(ctx context.Context, userID string, progress *UserProgress) error
	CreateInvite(ctx context.Context, invite *Invite) error
	ClaimInvite(ctx context.Context, code, userID string) (*Invite, error)
}
