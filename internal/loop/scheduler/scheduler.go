// Package scheduler drives the loop autonomously: each tick analyzes the
// objection pattern table and applies patches for the priority categories,
// against a persisted tick budget that is resumable across restarts. The tick
// counter is written before any tick work runs, so a crash mid-tick burns the
// tick instead of repeating it (at-most-once).
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"revloop/internal/loop"
	"revloop/internal/loop/metrics"
	dErrors "revloop/pkg/domain-errors"
	"revloop/pkg/platform/sentinel"
)

// Store persists the scheduler snapshot, separately from the loop's.
type Store interface {
	Save(ctx context.Context, state *loop.SchedulerState) error
	Load(ctx context.Context) (*loop.SchedulerState, error)
}

// Loop is the slice of the loop service the scheduler drives. Each tick
// analyzes the pattern table and applies patches for the priority categories.
type Loop interface {
	Status(ctx context.Context) *loop.Summary
	Start(ctx context.Context, current, target float64) (*loop.State, error)
	Analyze(ctx context.Context) (*loop.Analysis, error)
	ApplyPatches(ctx context.Context, categories []string) (*loop.PatchOutcome, error)
}

// Defaults configure the loop run the scheduler starts when none exists.
type Defaults struct {
	Current float64
	Target  float64
}

// Scheduler ticks the loop on a fixed interval until its tick budget is
// exhausted or the loop reports the friction target met.
type Scheduler struct {
	mu       sync.Mutex
	logger   *slog.Logger
	store    Store
	loop     Loop
	metrics  *metrics.Metrics
	interval time.Duration
	defaults Defaults
	clock    func() time.Time

	state  loop.SchedulerState
	ticker *time.Ticker
	done   chan struct{}
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithClock injects a clock for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMetrics attaches loop metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// New builds the scheduler. Call Restore before Start so a restarted process
// keeps its spent ticks.
func New(store Store, lp Loop, interval time.Duration, defaults Defaults, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:   logger,
		store:    store,
		loop:     lp,
		interval: interval,
		defaults: defaults,
		clock:    time.Now,
		state:    loop.SchedulerState{Schema: loop.Schema},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads persisted scheduler state, if any. The Running flag is not
// resumed automatically: after a restart the operator restarts the schedule
// explicitly, with the spent tick count intact.
func (s *Scheduler) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore scheduler state: %w", err)
	}
	state.Running = false
	s.state = *state
	s.logger.Info("scheduler state restored",
		"tick", state.Tick,
		"target", state.Target,
	)
	return nil
}

// Start begins ticking toward targetTicks. The first tick runs immediately
// and synchronously; subsequent ticks fire on the interval. Spent ticks
// survive a restart, so a resumed schedule keeps counting where it left off.
//
// Errors: CodeAlreadyRunning when the schedule is active; CodeInvalidState
// when the tick budget is already exhausted; CodeInvalidInput for a
// non-positive target.
func (s *Scheduler) Start(ctx context.Context, targetTicks int) error {
	s.mu.Lock()

	if targetTicks <= 0 {
		s.mu.Unlock()
		return dErrors.New(dErrors.CodeInvalidInput, "tick target must be positive")
	}
	if s.state.Running {
		s.mu.Unlock()
		return dErrors.New(dErrors.CodeAlreadyRunning, "schedule is already running")
	}
	if s.state.Tick >= targetTicks {
		s.mu.Unlock()
		return dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("tick budget exhausted: %d of %d spent", s.state.Tick, targetTicks))
	}

	summary := s.loop.Status(ctx)
	if !summary.Started || summary.Status.Terminal() {
		state, err := s.loop.Start(ctx, s.defaults.Current, s.defaults.Target)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("start loop for schedule: %w", err)
		}
		s.state.LoopID = state.ID
	} else {
		s.state.LoopID = summary.LoopID
	}

	s.state.Running = true
	s.state.Target = targetTicks
	s.persistLocked(ctx)

	s.ticker = time.NewTicker(s.interval)
	s.done = make(chan struct{})
	ticker, done := s.ticker, s.done
	s.mu.Unlock()

	// First tick runs before Start returns so callers observe tick 1.
	s.runTick(ctx)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.runTick(context.Background())
			}
		}
	}()
	return nil
}

// runTick spends one tick: analyze the pattern table, apply patches for the
// priority categories, then check whether the schedule should keep going. The
// incremented counter is persisted before the loop is touched: a crash after
// the write burns the tick rather than repeating its work.
func (s *Scheduler) runTick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Running {
		return
	}

	s.state.Tick++
	now := s.clock()
	s.state.LastRunAt = &now
	s.persistLocked(ctx)
	s.metrics.IncSchedulerTick()

	summary := s.loop.Status(ctx)
	if summary.Started && summary.Status == loop.StatusRunning {
		s.patchPriorityCategories(ctx, summary)
		summary = s.loop.Status(ctx)
	}

	s.logger.Info("scheduler tick",
		"tick", s.state.Tick,
		"target", s.state.Target,
		"loop_status", string(summary.Status),
		"friction", summary.Current,
	)

	if summary.ReadyForTarget || (summary.Started && summary.Status.Terminal()) {
		s.logger.Info("loop reached terminal state, stopping schedule", "tick", s.state.Tick)
		s.stopLocked(ctx)
		return
	}
	if s.state.Tick >= s.state.Target {
		s.logger.Info("tick budget exhausted, stopping schedule", "tick", s.state.Tick)
		s.stopLocked(ctx)
	}
}

// patchPriorityCategories runs the tick's analysis-and-patch step. Categories
// already patched on this run are skipped so a tick is idempotent over an
// unchanged pattern table. Failures are logged; a bad tick never stops the
// schedule by itself.
func (s *Scheduler) patchPriorityCategories(ctx context.Context, summary *loop.Summary) {
	analysis, err := s.loop.Analyze(ctx)
	if err != nil {
		s.logger.Error("scheduler tick analysis failed", "tick", s.state.Tick, "error", err.Error())
		return
	}

	pending := make([]string, 0, len(analysis.PriorityCategories))
	for _, category := range analysis.PriorityCategories {
		if !containsCategory(summary.AppliedPatches, category) {
			pending = append(pending, category)
		}
	}
	if len(pending) == 0 {
		return
	}

	outcome, err := s.loop.ApplyPatches(ctx, pending)
	if err != nil {
		s.logger.Error("scheduler tick patch application failed", "tick", s.state.Tick, "error", err.Error())
		return
	}
	s.logger.Info("scheduler tick applied patches",
		"tick", s.state.Tick,
		"applied", len(outcome.Applied),
		"blocked", len(outcome.Blocked),
	)
}

func containsCategory(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Stop halts the schedule. Idempotent; the spent tick count is preserved. An
// in-flight tick completes before Stop returns.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(ctx)
}

func (s *Scheduler) stopLocked(ctx context.Context) {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	if s.state.Running {
		s.state.Running = false
		s.persistLocked(ctx)
	}
}

// Reset stops the schedule and clears the spent tick count.
func (s *Scheduler) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(ctx)
	s.state.Tick = 0
	s.state.Target = 0
	s.state.LastRunAt = nil
	s.persistLocked(ctx)
}

// Status returns a copy of the scheduler state.
func (s *Scheduler) Status(ctx context.Context) loop.SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// persistLocked overwrites the scheduler snapshot. Failures are logged; the
// in-memory counter stands so the schedule keeps running.
func (s *Scheduler) persistLocked(ctx context.Context) {
	state := s.state
	if err := s.store.Save(ctx, &state); err != nil {
		s.metrics.IncPersistenceFailure()
		s.logger.Error("scheduler snapshot write failed, continuing in memory",
			"tick", s.state.Tick,
			"error", err.Error(),
		)
	}
}
