// Package service owns the loop aggregate. All mutation happens here, under a
// single mutex: the loop and scheduler are process singletons and no
// multi-writer concurrency is supported. Every mutation overwrites the
// persisted snapshot; a failed write degrades persistence but never aborts
// the in-memory operation.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"revloop/internal/ledger"
	"revloop/internal/loop"
	"revloop/internal/loop/classifier"
	"revloop/internal/loop/metrics"
	"revloop/internal/loop/patches"
	"revloop/internal/loop/policy"
	"revloop/pkg/domain"
	dErrors "revloop/pkg/domain-errors"
	"revloop/pkg/platform/sentinel"
	pkgstrings "revloop/pkg/platform/strings"
)

// PriorityShareThreshold selects categories at or above this share of total
// objections into the priority set.
const PriorityShareThreshold = 0.10

// Store persists the loop snapshot.
type Store interface {
	Save(ctx context.Context, state *loop.State) error
	Load(ctx context.Context) (*loop.State, error)
}

// Ledger receives append-only activity records. Implementations must not
// block the caller.
type Ledger interface {
	Emit(ctx context.Context, entry ledger.Entry)
}

// CaptureInput is one inbound objection.
type CaptureInput struct {
	Source        domain.SourceChannel
	Text          string
	Persona       string
	CampaignRef   string
	HypothesisRef string
	ClientIP      string
	ClientAgent   string
}

// Service is the loop aggregate owner.
type Service struct {
	mu         sync.Mutex
	logger     *slog.Logger
	store      Store
	classifier *classifier.Classifier
	gate       *policy.Gate
	metrics    *metrics.Metrics
	ledger     Ledger
	cap        int
	clock      func() time.Time

	state    *loop.State
	degraded bool
}

// Option configures the Service.
type Option func(*Service)

// WithClock injects a clock for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIterationCap overrides the iteration cap.
func WithIterationCap(cap int) Option {
	return func(s *Service) {
		if cap > 0 {
			s.cap = cap
		}
	}
}

// WithLedger attaches the performance-ledger publisher.
func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithMetrics attaches loop metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds the loop service. Call Restore before serving traffic so a
// restarted process resumes from the persisted snapshot.
func New(store Store, cls *classifier.Classifier, gate *policy.Gate, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		logger:     logger,
		store:      store,
		classifier: cls,
		gate:       gate,
		cap:        5,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads persisted state, if any. A missing snapshot means the loop
// was never started, which is not an error.
func (s *Service) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore loop state: %w", err)
	}
	s.state = state
	s.metrics.SetFriction(state.Current)
	s.logger.Info("loop state restored",
		"loop_id", state.ID.String(),
		"status", string(state.Status),
		"iterations", len(state.Iterations),
	)
	return nil
}

// Start begins a new loop run.
//
// Errors: CodeAlreadyRunning when a non-terminal loop exists.
func (s *Service) Start(ctx context.Context, current, target float64) (*loop.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil && !s.state.Status.Terminal() {
		return nil, dErrors.New(dErrors.CodeAlreadyRunning, "an objection loop is already running")
	}

	now := s.clock()
	state := &loop.State{
		ID:        domain.NewLoopID(),
		Schema:    loop.Schema,
		StartedAt: now,
		Target:    target,
		Current:   current,
		Status:    loop.StatusRunning,
		Patterns:  make(map[string]int),
		Iterations: []loop.Iteration{{
			Sequence:       1,
			Status:         loop.IterationActive,
			StartedAt:      now,
			FrictionBefore: current,
		}},
	}
	s.state = state
	s.metrics.SetFriction(current)
	s.emit(ctx, ledger.Entry{
		LoopID:    state.ID,
		Iteration: 1,
		Action:    ledger.ActionLoopStarted,
		Detail:    fmt.Sprintf("current=%.2f target=%.2f cap=%d", current, target, s.cap),
	})
	s.persist(ctx)

	out := state.Clone()
	return out, nil
}

// Capture classifies and records one objection. This is the only path that
// grows the objection list and the pattern frequency table.
//
// Errors: CodeNotStarted when no loop exists; CodeInvalidState when the loop
// is not running.
func (s *Service) Capture(ctx context.Context, input CaptureInput) (*loop.Objection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}
	if s.state.Status != loop.StatusRunning {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			"capture requires a running loop, status is "+string(s.state.Status))
	}

	category, severity := s.classifier.Classify(input.Text, input.Persona)
	gateResult := s.gate.Validate(input.Text)

	objection := loop.Objection{
		ID:            domain.NewObjectionID(),
		Source:        input.Source,
		Text:          input.Text,
		Persona:       input.Persona,
		Category:      category,
		Severity:      severity,
		CapturedAt:    s.clock(),
		Compliant:     gateResult.Compliant,
		Violations:    gateResult.Violations,
		CampaignRef:   input.CampaignRef,
		HypothesisRef: input.HypothesisRef,
	}

	s.state.Objections = append(s.state.Objections, objection)
	s.state.Patterns[category]++

	active := s.state.ActiveIteration()
	if active != nil {
		active.ObjectionsCaptured++
		active.ObserveCategory(category)
	}

	s.metrics.IncObjection(category, severity.String())
	s.emit(ctx, ledger.Entry{
		LoopID:      s.state.ID,
		Iteration:   s.iterationSequence(),
		Action:      ledger.ActionObjectionCaptured,
		Category:    category,
		CampaignRef: input.CampaignRef,
		Detail:      string(input.Source) + "/" + severity.String(),
		ClientIP:    input.ClientIP,
		ClientAgent: input.ClientAgent,
	})
	s.persist(ctx)

	captured := objection
	return &captured, nil
}

// Analyze ranks the pattern frequency table. It is a pure read: priority-class
// categories sort first regardless of raw count; the priority set is every
// category at or above the materiality threshold, unioned with any
// priority-class category that has been observed at all.
//
// Errors: CodeNotStarted when no loop exists.
func (s *Service) Analyze(ctx context.Context) (*loop.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}
	return s.analyzeLocked(), nil
}

func (s *Service) analyzeLocked() *loop.Analysis {
	total := 0
	ranked := make([]loop.CategoryCount, 0, len(s.state.Patterns))
	for category, count := range s.state.Patterns {
		total += count
		ranked = append(ranked, loop.CategoryCount{
			Category: category,
			Count:    count,
			Priority: s.classifier.IsPriority(category),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority
		}
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})

	var priority []string
	for _, cc := range ranked {
		material := total > 0 && float64(cc.Count) >= PriorityShareThreshold*float64(total)
		if (cc.Priority && cc.Count > 0) || material {
			priority = append(priority, cc.Category)
		}
	}

	var recommended []string
	for _, category := range priority {
		if _, ok := patches.Lookup(category); ok {
			recommended = append(recommended, category)
		}
	}

	return &loop.Analysis{
		TotalObjections:    total,
		RankedCategories:   ranked,
		PriorityCategories: priority,
		RecommendedPatches: recommended,
	}
}

// ApplyPatches routes each requested category through the policy gate. Blocked
// patches are returned with the specific violated terms, never dropped.
//
// Errors: CodeNotStarted when no loop exists; CodeInvalidState when the loop
// is not running. A policy violation is never an error.
func (s *Service) ApplyPatches(ctx context.Context, categories []string) (*loop.PatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}
	if s.state.Status != loop.StatusRunning {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			"patches require a running loop, status is "+string(s.state.Status))
	}

	outcome := &loop.PatchOutcome{Applied: []string{}, Blocked: []loop.BlockedPatch{}}
	active := s.state.ActiveIteration()

	for _, category := range pkgstrings.DedupeAndTrim(categories) {
		patch, ok := patches.Lookup(category)
		if !ok {
			outcome.Blocked = append(outcome.Blocked, loop.BlockedPatch{
				Category: category,
				Reasons:  []string{"no catalog patch for category"},
			})
			continue
		}
		if !patch.Compliant {
			outcome.Blocked = append(outcome.Blocked, loop.BlockedPatch{
				Category: category,
				Reasons:  []string{"catalog entry marked non-compliant: " + patch.ComplianceNote},
			})
			continue
		}
		if result := s.gate.Validate(patch.MessagingShift); !result.Compliant {
			outcome.Blocked = append(outcome.Blocked, loop.BlockedPatch{
				Category: category,
				Reasons:  result.Violations,
			})
			continue
		}

		outcome.Applied = append(outcome.Applied, category)
		s.state.AppliedPatches = append(s.state.AppliedPatches, category)
		if active != nil {
			active.PatchesApplied = append(active.PatchesApplied, category)
		}
		s.emit(ctx, ledger.Entry{
			LoopID:    s.state.ID,
			Iteration: s.iterationSequence(),
			Action:    ledger.ActionPatchApplied,
			Category:  category,
			Detail:    patch.MessagingShift,
		})
	}

	for _, blocked := range outcome.Blocked {
		s.emit(ctx, ledger.Entry{
			LoopID:    s.state.ID,
			Iteration: s.iterationSequence(),
			Action:    ledger.ActionPatchBlocked,
			Category:  blocked.Category,
			Detail:    fmt.Sprintf("%v", blocked.Reasons),
		})
	}

	s.metrics.IncPatchesApplied(len(outcome.Applied))
	s.metrics.IncPatchesBlocked(len(outcome.Blocked))
	s.persist(ctx)
	return outcome, nil
}

// CompleteIteration closes the active iteration with a measured friction
// value and advances the loop. Transition order: target met wins over cap;
// cap exhaustion terminates with status completed.
//
// Errors: CodeNotStarted when no loop exists; CodeInvalidState when the loop
// is not running or no iteration is active.
func (s *Service) CompleteIteration(ctx context.Context, frictionAfter float64) (*loop.Iteration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}
	if s.state.Status != loop.StatusRunning {
		return nil, dErrors.New(dErrors.CodeInvalidState,
			"complete requires a running loop, status is "+string(s.state.Status))
	}
	active := s.state.ActiveIteration()
	if active == nil {
		return nil, dErrors.New(dErrors.CodeInvalidState, "no active iteration to complete")
	}

	now := s.clock()
	delta := active.FrictionBefore - frictionAfter
	active.Status = loop.IterationCompleted
	active.CompletedAt = &now
	active.FrictionAfter = &frictionAfter
	active.FrictionDelta = &delta
	s.state.Current = frictionAfter

	completed := *active

	switch {
	case frictionAfter <= s.state.Target:
		s.state.Status = loop.StatusFrictionTargetMet
	case len(s.state.Iterations) < s.cap:
		s.state.Iterations = append(s.state.Iterations, loop.Iteration{
			Sequence:       completed.Sequence + 1,
			Status:         loop.IterationActive,
			StartedAt:      now,
			FrictionBefore: frictionAfter,
		})
	default:
		s.state.Status = loop.StatusCompleted
	}

	s.metrics.IncIterationCompleted()
	s.metrics.SetFriction(frictionAfter)
	s.emit(ctx, ledger.Entry{
		LoopID:    s.state.ID,
		Iteration: completed.Sequence,
		Action:    ledger.ActionIterationCompleted,
		Delta:     delta,
		Detail:    fmt.Sprintf("friction %.2f -> %.2f, status %s", completed.FrictionBefore, frictionAfter, s.state.Status),
	})
	s.persist(ctx)

	return &completed, nil
}

// Pause suspends a running loop.
//
// Errors: CodeNotStarted / CodeInvalidState.
func (s *Service) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}
	if s.state.Status != loop.StatusRunning {
		return dErrors.New(dErrors.CodeInvalidState, "only a running loop can be paused")
	}
	s.state.Status = loop.StatusPaused
	s.persist(ctx)
	return nil
}

// Resume reactivates a paused loop.
//
// Errors: CodeNotStarted / CodeInvalidState.
func (s *Service) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}
	if s.state.Status != loop.StatusPaused {
		return dErrors.New(dErrors.CodeInvalidState, "only a paused loop can be resumed")
	}
	s.state.Status = loop.StatusRunning
	s.persist(ctx)
	return nil
}

// Status returns the read-only summary. It has zero side effects and is
// well-defined before any loop has started.
func (s *Service) Status(ctx context.Context) *loop.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return &loop.Summary{Started: false, PersistenceDegraded: s.degraded}
	}

	analysis := s.analyzeLocked()
	top := analysis.RankedCategories
	if len(top) > 5 {
		top = top[:5]
	}

	applied := make([]string, len(s.state.AppliedPatches))
	copy(applied, s.state.AppliedPatches)

	met := s.state.TargetMet() || s.state.Status == loop.StatusFrictionTargetMet
	return &loop.Summary{
		Started:             true,
		LoopID:              s.state.ID,
		Status:              s.state.Status,
		Current:             s.state.Current,
		Target:              s.state.Target,
		Gap:                 s.state.Current - s.state.Target,
		CompletedIterations: s.state.CompletedIterations(),
		TotalObjections:     len(s.state.Objections),
		TopCategories:       top,
		AppliedPatches:      applied,
		TargetMet:           met,
		ReadyForTarget:      met,
		PersistenceDegraded: s.degraded,
	}
}

// FrictionDeltaReport summarizes measured movement across completed
// iterations.
//
// Errors: CodeNotStarted when no loop exists.
func (s *Service) FrictionDeltaReport(ctx context.Context) (*loop.FrictionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, dErrors.New(dErrors.CodeNotStarted, "no objection loop has been started")
	}

	report := &loop.FrictionReport{
		LoopID:     s.state.ID,
		Current:    s.state.Current,
		Target:     s.state.Target,
		TargetMet:  s.state.TargetMet(),
		Iterations: []loop.IterationDelta{},
	}
	if len(s.state.Iterations) > 0 {
		report.StartValue = s.state.Iterations[0].FrictionBefore
	}
	for _, it := range s.state.Iterations {
		if it.Status != loop.IterationCompleted || it.FrictionAfter == nil {
			continue
		}
		report.Iterations = append(report.Iterations, loop.IterationDelta{
			Sequence:       it.Sequence,
			FrictionBefore: it.FrictionBefore,
			FrictionAfter:  *it.FrictionAfter,
			Delta:          *it.FrictionDelta,
			Patches:        len(it.PatchesApplied),
			Objections:     it.ObjectionsCaptured,
		})
		report.TotalDelta += *it.FrictionDelta
	}
	return report, nil
}

// Constraints exposes the policy gate's active policy.
func (s *Service) Constraints() policy.Constraints {
	return s.gate.Constraints()
}

// iterationSequence returns the active iteration's sequence, or the last
// known sequence once the loop has terminated.
func (s *Service) iterationSequence() int {
	if active := s.state.ActiveIteration(); active != nil {
		return active.Sequence
	}
	if n := len(s.state.Iterations); n > 0 {
		return s.state.Iterations[n-1].Sequence
	}
	return 0
}

// emit hands one record to the performance ledger and counts it against the
// active iteration.
func (s *Service) emit(ctx context.Context, entry ledger.Entry) {
	if s.ledger == nil {
		return
	}
	s.ledger.Emit(ctx, entry)
	if active := s.state.ActiveIteration(); active != nil {
		active.LedgerEntries++
	}
}

// persist overwrites the snapshot. Failures are logged and surfaced through
// status; the in-memory mutation stands either way: a stale backup beats
// lost progress.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.state); err != nil {
		s.degraded = true
		s.metrics.IncPersistenceFailure()
		s.logger.Error("loop snapshot write failed, continuing in memory",
			"loop_id", s.state.ID.String(),
			"error", err.Error(),
		)
		return
	}
	s.degraded = false
}
