package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/memory"
)

// Default backoff periods.
const (
	DefaultInterval = 30 * time.Second
	DefaultRetry    = 5 * time.Second
)

// Process is an attached target that can be released.
type Process interface {
	df.Target
	PID() int
	Close() error
}

// AttachFunc opens the target process.
type AttachFunc func(ctx context.Context) (Process, error)

// AttachByName attaches to the first process whose name matches.
func AttachByName(name string) AttachFunc {
	return func(context.Context) (Process, error) {
		p, err := memory.Attach(name)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Rebuilder decodes snapshots from an attached target.
type Rebuilder interface {
	Rebuild(ctx context.Context, t df.Target) (*df.Snapshot, error)
	RefreshCreatures(ctx context.Context, t df.Target) (*df.Snapshot, error)
	EmbarkScreen(t df.Target) bool
}

// Options configures a Scheduler.
type Options struct {
	// Interval is the wait after a successful refresh.
	Interval time.Duration
	// Retry is the wait after any failure.
	Retry  time.Duration
	Logger *slog.Logger
	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Scheduler runs the refresh loop. Only the scheduler decides backoff and
// updates the liveness marker.
type Scheduler struct {
	attach   AttachFunc
	builder  Rebuilder
	store    *Store
	log      *slog.Logger
	interval time.Duration
	retry    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	kick     chan struct{}
}

// New returns a scheduler publishing into store.
func New(attach AttachFunc, builder Rebuilder, store *Store, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Retry <= 0 {
		opts.Retry = DefaultRetry
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{
		attach:   attach,
		builder:  builder,
		store:    store,
		log:      opts.Logger,
		interval: opts.Interval,
		retry:    opts.Retry,
		sleep:    opts.Sleep,
		kick:     make(chan struct{}, 1),
	}
	if s.sleep == nil {
		s.sleep = s.wait
	}
	return s
}

// Store returns the store the scheduler publishes into.
func (s *Scheduler) Store() *Store { return s.store }

// Refresh cuts the current backoff short.
func (s *Scheduler) Refresh() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Run refreshes until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		backoff, _ := s.Once(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err := s.sleep(ctx, backoff); err != nil {
			return nil
		}
	}
}

// Once runs one refresh cycle and returns how long to wait before the next.
func (s *Scheduler) Once(ctx context.Context) (time.Duration, error) {
	p, err := s.attach(ctx)
	if err != nil {
		s.store.setPID(0)
		s.store.setError(err)
		s.log.Warn("attach failed", "err", err, "retry", s.retry)
		return s.retry, fmt.Errorf("attaching: %w", err)
	}
	defer p.Close()
	s.store.setPID(p.PID())

	start := time.Now()
	snap, err := s.builder.Rebuild(ctx, p)
	if err == nil {
		s.store.Swap(snap)
		s.log.Info("snapshot swapped",
			"generation", snap.Generation,
			"dwarves", len(snap.Dwarves),
			"took", time.Since(start))
		return s.interval, nil
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	s.store.setError(err)
	if errors.Is(err, df.ErrNoFortress) {
		if s.builder.EmbarkScreen(p) {
			s.log.Info("no fortress, refreshing embark party")
			s.refreshCreatures(ctx, p)
		} else {
			s.log.Info("no fortress loaded", "retry", s.retry)
		}
	} else {
		s.log.Error("rebuild failed", "err", err, "retry", s.retry)
	}
	return s.retry, fmt.Errorf("rebuilding: %w", err)
}

func (s *Scheduler) refreshCreatures(ctx context.Context, p Process) {
	snap, err := s.builder.RefreshCreatures(ctx, p)
	if err != nil {
		s.log.Warn("creature refresh failed", "err", err)
		return
	}
	s.store.Swap(snap)
}

func (s *Scheduler) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.kick:
		return nil
	case <-t.C:
		return nil
	}
}
