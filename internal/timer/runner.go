// Package timer implements the background ticker that counts down the
// active cooking step's timer and fires the advisory notification when
// it reaches zero.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// Session is the slice of the cooking engine the runner drives. Tick
// decrements the running timer by one second and reports true exactly
// once, when it reaches zero.
type Session interface {
	Tick() bool
	CurrentStep() (domain.Step, error)
}

// Option configures the runner.
type Option func(*Runner)

// WithTickInterval sets how often the runner ticks. Tests shrink this.
func WithTickInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.tickInterval = d
	}
}

// Runner runs in the background and drives the session timer. The
// notification it sends on expiry is advisory only; the step never
// advances on its own.
type Runner struct {
	session      Session
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a timer runner with the given dependencies and options.
func New(session Session, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Runner {
	r := &Runner{
		session:      session,
		notifier:     notifier,
		log:          log,
		tickInterval: 1 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the background tick loop. Non-blocking.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("timer runner already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true

	go r.loop(childCtx)
	r.log.Info("timer runner started (tick=%s)", r.tickInterval)
}

// Stop shuts down the runner.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	r.running = false
	r.log.Info("timer runner stopped")
}

func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	if !r.session.Tick() {
		return
	}

	msg := "[Timer] Time's up."
	if step, err := r.session.CurrentStep(); err == nil {
		msg = fmt.Sprintf("[Timer] Step %d timer is up. Check it when you're ready.", step.Order)
	}
	if err := r.notifier.NotifyUrgent(ctx, msg); err != nil {
		r.log.Error("timer: notify: %v", err)
	}
}
