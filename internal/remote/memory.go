// Package remote talks to the remote profile store: preference sync,
// progress backup, and partner-link invites. The core engine never
// depends on it; all traffic is fire-and-forget through the Syncer.
package remote

import (
	"context"
	"sync"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
)

// Compile-time interface check.
var _ domain.ProfileClient = (*MemoryClient)(nil)

// MemoryClient is an in-memory ProfileClient used for offline mode and
// tests. Safe for concurrent use.
type MemoryClient struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
	progress map[string]*domain.UserProgress
	invites  map[string]*domain.Invite
	now      func() time.Time
}

// NewMemoryClient creates an empty in-memory profile store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		profiles: make(map[string]*domain.Profile),
		progress: make(map[string]*domain.UserProgress),
		invites:  make(map[string]*domain.Invite),
		now:      time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (c *MemoryClient) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// FetchProfile returns a stored profile by user id.
func (c *MemoryClient) FetchProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

// UpdateProfile stores a profile.
func (c *MemoryClient) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := *profile
	c.profiles[p.ID] = &p
	return nil
}

// FetchProgress returns the backed-up progression record for a user.
func (c *MemoryClient) FetchProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.progress[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

// PushProgress stores a progression record for a user.
func (c *MemoryClient) PushProgress(ctx context.Context, userID string, progress *domain.UserProgress) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := *progress
	c.progress[userID] = &p
	return nil
}

// CreateInvite stores a partner invite keyed by its code.
func (c *MemoryClient) CreateInvite(ctx context.Context, invite *domain.Invite) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.invites[invite.Code]; ok {
		return domain.ErrAlreadyExists
	}
	in := *invite
	c.invites[in.Code] = &in
	return nil
}

// ClaimInvite marks an invite claimed and links the two profiles.
// Expired or unknown codes fail.
func (c *MemoryClient) ClaimInvite(ctx context.Context, code, userID string) (*domain.Invite, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	invite, ok := c.invites[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.now().After(invite.ExpiresAt) {
		return nil, domain.ErrInviteExpired
	}
	invite.ClaimedBy = userID

	if creator, ok := c.profiles[invite.CreatedBy]; ok {
		creator.PartnerID = userID
	}
	if claimer, ok := c.profiles[userID]; ok {
		claimer.PartnerID = invite.CreatedBy
	}

	out := *invite
	return &out, nil
}
