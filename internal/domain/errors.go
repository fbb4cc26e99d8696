package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrNoActiveSession = errors.New("no active cooking session")
	ErrSessionPhase    = errors.New("operation not valid in current session phase")
	ErrEmptyCatalog    = errors.New("recipe catalog is empty")
	ErrNoStepTimer     = errors.New("current step has no timer")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInviteExpired   = errors.New("invite code has expired")
	ErrAlreadyExists   = errors.New("already exists")
)
