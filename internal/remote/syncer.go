package remote

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/pantryloop/pantryloop/internal/domain"
	"github.com/pantryloop/pantryloop/internal/logger"
)

// job is one queued remote write.
type job struct {
	label string
	op    func(ctx context.Context) error
}

// Option configures the syncer.
type Option func(*Syncer)

// WithMaxTries caps retry attempts per job.
func WithMaxTries(n uint) Option {
	return func(s *Syncer) {
		s.maxTries = n
	}
}

// WithMaxInterval caps the backoff interval between retries.
func WithMaxInterval(d time.Duration) Option {
	return func(s *Syncer) {
		s.maxInterval = d
	}
}

// Syncer ships local state changes to the remote profile store in the
// background. Local operations are authoritative the moment they
// complete; a sync failure is retried with exponential backoff and, if
// it still fails, surfaces only as a dismissible notification. It never
// blocks or fails the local operation that queued it.
type Syncer struct {
	notifier    domain.Notifier
	log         *logger.Logger
	maxTries    uint
	maxInterval time.Duration

	mu      sync.Mutex
	jobs    chan job
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSyncer creates a sync queue with the given dependencies.
func NewSyncer(notifier domain.Notifier, log *logger.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		notifier:    notifier,
		log:         log,
		maxTries:    4,
		maxInterval: 30 * time.Second,
		jobs:        make(chan job, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background worker. Non-blocking.
func (s *Syncer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("syncer already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.wg.Add(1)
	go s.loop(childCtx)
	s.log.Info("remote syncer started")
}

// Stop shuts down the worker, abandoning any queued jobs.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("remote syncer stopped")
}

// Enqueue schedules a remote write. Never blocks: if the queue is full
// the job is dropped with a log entry (the next successful sync of the
// same record supersedes it anyway).
func (s *Syncer) Enqueue(label string, op func(ctx context.Context) error) {
	select {
	case s.jobs <- job{label: label, op: op}:
	default:
		s.log.Warn("syncer: queue full, dropping %s", label)
	}
}

func (s *Syncer) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			s.run(ctx, j)
		}
	}
}

func (s *Syncer) run(ctx context.Context, j job) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = s.maxInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, j.op(ctx)
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(s.maxTries))
	if err != nil {
		s.log.Error("syncer: %s failed after %d tries: %v", j.label, s.maxTries, err)
		// Non-blocking, dismissible; local state already won.
		if nerr := s.notifier.Notify(ctx, "Couldn't sync "+j.label+" to your profile. Will try again later."); nerr != nil {
			s.log.Error("syncer: notify: %v", nerr)
		}
		return
	}
	s.log.Debug("syncer: %s synced", j.label)
}
