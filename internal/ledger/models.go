// Package ledger is the secondary performance ledger: an append-only record
// of loop activity (captures, applied patches, completed iterations) handed
// off to downstream consumers. The loop's own snapshot remains the source of
// truth for loop state; the ledger exists for reporting and external systems.
package ledger

import (
	"time"

	"revloop/pkg/domain"
)

// Action classifies a ledger entry.
type Action string

const (
	ActionLoopStarted        Action = "loop_started"
	ActionObjectionCaptured  Action = "objection_captured"
	ActionPatchApplied       Action = "patch_applied"
	ActionPatchBlocked       Action = "patch_blocked"
	ActionIterationCompleted Action = "iteration_completed"
)

// Entry is one append-only ledger record. Keep it transport-agnostic so the
// store and the Kafka hand-off can fan out from the same value.
type Entry struct {
	ID          domain.LedgerEntryID `json:"id"`
	Timestamp   time.Time            `json:"timestamp"`
	LoopID      domain.LoopID        `json:"loop_id"`
	Iteration   int                  `json:"iteration"`
	Action      Action               `json:"action"`
	Category    string               `json:"category,omitempty"`
	CampaignRef string               `json:"campaign_ref,omitempty"`
	Detail      string               `json:"detail,omitempty"`
	Delta       float64              `json:"delta,omitempty"`
	ClientIP    string               `json:"client_ip,omitempty"`
	ClientAgent string               `json:"client_agent,omitempty"`
}
