package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revloop/internal/loop"
	"revloop/internal/loop/classifier"
	"revloop/internal/loop/policy"
	"revloop/internal/loop/service"
	"revloop/internal/loop/store"
	"revloop/pkg/domain"
	dErrors "revloop/pkg/domain-errors"
)

// testInterval is long enough that only the synchronous first tick runs
// during a test; background ticks never fire.
const testInterval = time.Hour

type fixture struct {
	sched *Scheduler
	loop  *service.Service
	store *store.Memory[loop.SchedulerState]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	loopSvc := service.New(
		store.NewMemory[loop.State](),
		classifier.New(logger),
		policy.NewGate(),
		logger,
		service.WithIterationCap(5),
	)

	schedStore := store.NewMemory[loop.SchedulerState]()
	sched := New(schedStore, loopSvc, testInterval,
		Defaults{Current: 28, Target: 27},
		logger,
	)
	return &fixture{sched: sched, loop: loopSvc, store: schedStore}
}

func TestStartRunsFirstTickImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	defer f.sched.Stop(ctx)

	require.NoError(t, f.sched.Start(ctx, 10))

	status := f.sched.Status(ctx)
	assert.True(t, status.Running)
	assert.Equal(t, 1, status.Tick)
	assert.Equal(t, 10, status.Target)
	require.NotNil(t, status.LastRunAt)

	// The schedule started a loop with the configured defaults.
	summary := f.loop.Status(ctx)
	assert.True(t, summary.Started)
	assert.Equal(t, 28.0, summary.Current)
	assert.Equal(t, status.LoopID, summary.LoopID)
}

func captureObjection(t *testing.T, svc *service.Service, text string) {
	t.Helper()
	_, err := svc.Capture(context.Background(), service.CaptureInput{
		Source: domain.SourceForm,
		Text:   text,
	})
	require.NoError(t, err)
}

func TestTickAnalyzesAndAppliesPriorityPatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	defer f.sched.Stop(ctx)

	_, err := f.loop.Start(ctx, 28, 27)
	require.NoError(t, err)
	captureObjection(t, f.loop, "the board has no confidence in a new vendor")
	captureObjection(t, f.loop, "hard to justify this to the board")
	captureObjection(t, f.loop, "too expensive for our current budget")

	require.NoError(t, f.sched.Start(ctx, 5))

	summary := f.loop.Status(ctx)
	require.NotEmpty(t, summary.AppliedPatches, "a tick must patch the priority categories")
	assert.Contains(t, summary.AppliedPatches, "stakeholder_confidence")
	assert.Contains(t, summary.AppliedPatches, "price_resistance")

	status := f.sched.Status(ctx)
	assert.True(t, status.Running, "target not yet met, schedule keeps going")
	assert.Equal(t, 1, status.Tick)
}

func TestTickSkipsAlreadyAppliedCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	defer f.sched.Stop(ctx)

	_, err := f.loop.Start(ctx, 28, 27)
	require.NoError(t, err)
	captureObjection(t, f.loop, "our leadership needs convincing first")

	require.NoError(t, f.sched.Start(ctx, 5))
	applied := f.loop.Status(ctx).AppliedPatches
	require.NotEmpty(t, applied)

	f.sched.Stop(ctx)
	require.NoError(t, f.sched.Start(ctx, 5))

	assert.Equal(t, applied, f.loop.Status(ctx).AppliedPatches,
		"an unchanged pattern table must not be re-patched")
	assert.Equal(t, 2, f.sched.Status(ctx).Tick)
}

func TestTickIsPersistedBeforeWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	defer f.sched.Stop(ctx)

	require.NoError(t, f.sched.Start(ctx, 10))

	persisted, err := f.store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, persisted.Tick, "spent tick must be durable")
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	defer f.sched.Stop(ctx)

	require.NoError(t, f.sched.Start(ctx, 10))
	err := f.sched.Start(ctx, 10)
	assert.True(t, dErrors.Is(err, dErrors.CodeAlreadyRunning))
}

func TestStartRejectsNonPositiveTarget(t *testing.T) {
	f := newFixture(t)
	err := f.sched.Start(context.Background(), 0)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestExhaustedBudgetRefusesRestart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sched.Start(ctx, 1))

	// The single budgeted tick ran synchronously, stopping the schedule.
	status := f.sched.Status(ctx)
	assert.False(t, status.Running)
	assert.Equal(t, 1, status.Tick)

	err := f.sched.Start(ctx, 1)
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidState))
}

func TestStopIsIdempotentAndPreservesTicks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Stop before any start is a no-op.
	f.sched.Stop(ctx)

	require.NoError(t, f.sched.Start(ctx, 10))
	f.sched.Stop(ctx)
	f.sched.Stop(ctx)

	status := f.sched.Status(ctx)
	assert.False(t, status.Running)
	assert.Equal(t, 1, status.Tick, "stop must not clear spent ticks")
}

func TestResetClearsTicks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sched.Start(ctx, 1))
	require.Equal(t, 1, f.sched.Status(ctx).Tick)

	f.sched.Reset(ctx)
	status := f.sched.Status(ctx)
	assert.Equal(t, 0, status.Tick)
	assert.False(t, status.Running)

	// Budget is usable again after reset.
	require.NoError(t, f.sched.Start(ctx, 1))
}

func TestTargetMetStopsSchedule(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	loopSvc := service.New(
		store.NewMemory[loop.State](),
		classifier.New(logger),
		policy.NewGate(),
		logger,
	)

	// Defaults where the loop opens already at target: the first tick sees
	// the target met and stops without burning the remaining budget.
	sched := New(store.NewMemory[loop.SchedulerState](), loopSvc, testInterval,
		Defaults{Current: 27, Target: 27}, logger)
	ctx := context.Background()

	require.NoError(t, sched.Start(ctx, 10))

	status := sched.Status(ctx)
	assert.False(t, status.Running, "schedule must stop once the loop reports target met")
	assert.Equal(t, 1, status.Tick)
}

func TestStartOnTerminalLoopOpensFreshRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	defer f.sched.Stop(ctx)

	_, err := f.loop.Start(ctx, 28, 27)
	require.NoError(t, err)
	_, err = f.loop.CompleteIteration(ctx, 27)
	require.NoError(t, err)
	firstID := f.loop.Status(ctx).LoopID

	require.NoError(t, f.sched.Start(ctx, 10))

	summary := f.loop.Status(ctx)
	assert.NotEqual(t, firstID, summary.LoopID, "a terminal loop is replaced, not resumed")
	assert.Equal(t, loop.StatusRunning, summary.Status)
}

func TestRestoreResumesTickCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sched.Start(ctx, 10))
	f.sched.Stop(ctx)

	revived := New(f.store, f.loop, testInterval, Defaults{Current: 28, Target: 27}, slog.New(slog.DiscardHandler))
	require.NoError(t, revived.Restore(ctx))

	status := revived.Status(ctx)
	assert.Equal(t, 1, status.Tick)
	assert.False(t, status.Running, "running flag never survives a restart")
}
