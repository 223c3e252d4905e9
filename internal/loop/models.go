// Package loop defines the objection-intelligence loop aggregate: captured
// objections, bounded iterations, the pattern frequency table and the
// scheduler's independent state. The service package owns all mutation.
package loop

import (
	"time"

	"revloop/pkg/domain"
)

// Schema is stamped into persisted snapshots so a future migration has a hook.
const Schema = 1

// Status is the loop lifecycle state.
type Status string

const (
	StatusRunning           Status = "running"
	StatusPaused            Status = "paused"
	StatusFrictionTargetMet Status = "friction_target_met"
	StatusCompleted         Status = "completed"
)

// Terminal reports whether the loop accepts no further mutation.
func (s Status) Terminal() bool {
	return s == StatusFrictionTargetMet || s == StatusCompleted
}

// IterationStatus is the per-iteration lifecycle state.
type IterationStatus string

const (
	IterationActive    IterationStatus = "active"
	IterationCompleted IterationStatus = "completed"
)

// Objection is an immutable captured fact. Only the Resolved flag may flip
// after capture, by an external reviewer action.
type Objection struct {
	ID            domain.ObjectionID   `json:"id"`
	Source        domain.SourceChannel `json:"source"`
	Text          string               `json:"text"`
	Persona       string               `json:"persona"`
	Category      string               `json:"category"`
	Severity      domain.Severity      `json:"severity"`
	CapturedAt    time.Time            `json:"captured_at"`
	Compliant     bool                 `json:"compliant"`
	Violations    []string             `json:"violations,omitempty"`
	Resolved      bool                 `json:"resolved"`
	CampaignRef   string               `json:"campaign_ref,omitempty"`
	HypothesisRef string               `json:"hypothesis_ref,omitempty"`
}

// Iteration is one bounded capture → analyze → patch → measure cycle.
type Iteration struct {
	Sequence           int             `json:"sequence"`
	Status             IterationStatus `json:"status"`
	StartedAt          time.Time       `json:"started_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	ObjectionsCaptured int             `json:"objections_captured"`
	Categories         []string        `json:"categories,omitempty"`
	PatchesApplied     []string        `json:"patches_applied,omitempty"`
	FrictionBefore     float64         `json:"friction_before"`
	FrictionAfter      *float64        `json:"friction_after,omitempty"`
	FrictionDelta      *float64        `json:"friction_delta,omitempty"`
	LedgerEntries      int             `json:"ledger_entries"`
}

// ObserveCategory records a distinct category on the iteration, preserving
// first-seen order.
func (it *Iteration) ObserveCategory(category string) {
	for _, c := range it.Categories {
		if c == category {
			return
		}
	}
	it.Categories = append(it.Categories, category)
}

// State is the loop aggregate root. Invariants:
//   - at most one Iteration is active;
//   - Current equals the last completed iteration's FrictionAfter, or the
//     start value if no iteration has completed yet;
//   - Iterations and AppliedPatches are append-only.
type State struct {
	ID             domain.LoopID  `json:"id"`
	Schema         int            `json:"schema"`
	StartedAt      time.Time      `json:"started_at"`
	Target         float64        `json:"target"`
	Current        float64        `json:"current"`
	Status         Status         `json:"status"`
	Objections     []Objection    `json:"objections"`
	Patterns       map[string]int `json:"patterns"`
	Iterations     []Iteration    `json:"iterations"`
	AppliedPatches []string       `json:"applied_patches,omitempty"`
}

// ActiveIteration returns the single active iteration, or nil.
func (s *State) ActiveIteration() *Iteration {
	for i := range s.Iterations {
		if s.Iterations[i].Status == IterationActive {
			return &s.Iterations[i]
		}
	}
	return nil
}

// CompletedIterations counts iterations that have been closed.
func (s *State) CompletedIterations() int {
	n := 0
	for i := range s.Iterations {
		if s.Iterations[i].Status == IterationCompleted {
			n++
		}
	}
	return n
}

// TargetMet reports whether the friction metric has reached the target.
// Lower friction is better.
func (s *State) TargetMet() bool {
	return s.Current <= s.Target
}

// Clone returns a deep copy safe to hand outside the service's mutex.
func (s *State) Clone() *State {
	out := *s
	out.Objections = append([]Objection(nil), s.Objections...)
	out.Iterations = append([]Iteration(nil), s.Iterations...)
	out.AppliedPatches = append([]string(nil), s.AppliedPatches...)
	out.Patterns = make(map[string]int, len(s.Patterns))
	for k, v := range s.Patterns {
		out.Patterns[k] = v
	}
	return &out
}

// SchedulerState is persisted independently of the loop so a restarted
// process can resume ticking without re-reading loop bookkeeping.
type SchedulerState struct {
	Running   bool          `json:"running"`
	Tick      int           `json:"tick"`
	Target    int           `json:"target"`
	LastRunAt *time.Time    `json:"last_run_at,omitempty"`
	LoopID    domain.LoopID `json:"loop_id"`
	Schema    int           `json:"schema"`
}

// CategoryCount pairs a category with its observed frequency.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Priority bool   `json:"priority"`
}

// Analysis is the read-only result of ranking the pattern frequency table.
type Analysis struct {
	TotalObjections    int             `json:"total_objections"`
	RankedCategories   []CategoryCount `json:"ranked_categories"`
	PriorityCategories []string        `json:"priority_categories"`
	RecommendedPatches []string        `json:"recommended_patches"`
}

// BlockedPatch reports why a requested patch was not applied.
type BlockedPatch struct {
	Category string   `json:"category"`
	Reasons  []string `json:"reasons"`
}

// PatchOutcome separates applied from blocked so callers can always tell the
// two apart, with reasons.
type PatchOutcome struct {
	Applied []string       `json:"applied"`
	Blocked []BlockedPatch `json:"blocked"`
}

// Summary is the zero-side-effect status aggregate. Started is false when no
// loop has ever been started; the remaining fields are then zero values.
type Summary struct {
	Started             bool            `json:"started"`
	LoopID              domain.LoopID   `json:"loop_id,omitempty"`
	Status              Status          `json:"status,omitempty"`
	Current             float64         `json:"current"`
	Target              float64         `json:"target"`
	Gap                 float64         `json:"gap"`
	CompletedIterations int             `json:"completed_iterations"`
	TotalObjections     int             `json:"total_objections"`
	TopCategories       []CategoryCount `json:"top_categories,omitempty"`
	AppliedPatches      []string        `json:"applied_patches,omitempty"`
	TargetMet           bool            `json:"target_met"`
	ReadyForTarget      bool            `json:"ready_for_target"`
	PersistenceDegraded bool            `json:"persistence_degraded"`
}

// IterationDelta is one row of the friction-delta report.
type IterationDelta struct {
	Sequence       int     `json:"sequence"`
	FrictionBefore float64 `json:"friction_before"`
	FrictionAfter  float64 `json:"friction_after"`
	Delta          float64 `json:"delta"`
	Patches        int     `json:"patches"`
	Objections     int     `json:"objections"`
}

// FrictionReport summarizes measured movement across completed iterations.
type FrictionReport struct {
	LoopID     domain.LoopID    `json:"loop_id"`
	StartValue float64          `json:"start_value"`
	Current    float64          `json:"current"`
	Target     float64          `json:"target"`
	TotalDelta float64          `json:"total_delta"`
	TargetMet  bool             `json:"target_met"`
	Iterations []IterationDelta `json:"iterations"`
}
