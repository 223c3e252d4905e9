package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"revloop/internal/ledger"
	ledgersvc "revloop/internal/ledger/service"
	"revloop/internal/loop"
	"revloop/internal/loop/policy"
)

// Cache keys for the two canned reports.
const (
	cacheKeyStressTest = "reports:stress-test"
	cacheKeyDailyBrief = "reports:daily-brief"
)

// briefWindow bounds how far back the daily brief reads the ledger.
const briefWindow = 24 * time.Hour

// LoopReader is the read-only slice of the loop service reports need.
type LoopReader interface {
	Status(ctx context.Context) *loop.Summary
	FrictionDeltaReport(ctx context.Context) (*loop.FrictionReport, error)
	Constraints() policy.Constraints
}

// LedgerReader lists recent ledger entries.
type LedgerReader interface {
	List(ctx context.Context, input ledgersvc.ListInput) ([]ledger.Entry, error)
}

// Service builds reports from loop status and ledger history.
type Service struct {
	loop   LoopReader
	ledger LedgerReader
	cache  *Cache
	logger *slog.Logger
	clock  func() time.Time
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

// New builds the reports service. cache may be nil.
func New(lr LoopReader, lg LedgerReader, cache *Cache, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		loop:   lr,
		ledger: lg,
		cache:  cache,
		logger: logger,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StressTest grades the messaging program. Served from cache when fresh.
func (s *Service) StressTest(ctx context.Context) (*StressTestReport, error) {
	if payload, ok := s.cache.Get(ctx, cacheKeyStressTest); ok {
		var cached StressTestReport
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		s.cache.Invalidate(ctx, cacheKeyStressTest)
	}

	report, err := s.buildStressTest(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheReport(ctx, cacheKeyStressTest, report)
	return report, nil
}

func (s *Service) buildStressTest(ctx context.Context) (*StressTestReport, error) {
	summary := s.loop.Status(ctx)
	constraints := s.loop.Constraints()

	report := &StressTestReport{
		GeneratedAt: s.clock().UTC(),
		LoopStarted: summary.Started,
	}

	report.add("policy gate armed",
		len(constraints.ForbiddenTerms) > 0,
		fmt.Sprintf("%d forbidden terms enforced", len(constraints.ForbiddenTerms)))

	report.add("doctrine present",
		constraints.Doctrine != "",
		"value-quantification doctrine attached to all patch decisions")

	if !summary.Started {
		report.add("loop engaged", false, "no objection loop has been started")
		report.finalize()
		return report, nil
	}

	report.add("loop engaged", true, fmt.Sprintf("status %s", summary.Status))

	report.add("friction trending to target",
		summary.Gap <= 0 || summary.CompletedIterations == 0 || s.improving(ctx),
		fmt.Sprintf("current %.2f, target %.2f, gap %.2f", summary.Current, summary.Target, summary.Gap))

	unpatched := 0
	for _, cc := range summary.TopCategories {
		if cc.Priority && !contains(summary.AppliedPatches, cc.Category) {
			unpatched++
		}
	}
	report.add("priority categories patched",
		unpatched == 0,
		fmt.Sprintf("%d priority categories without an applied patch", unpatched))

	report.add("state persistence healthy",
		!summary.PersistenceDegraded,
		"snapshot writes succeeding")

	blocked, err := s.ledger.List(ctx, ledgersvc.ListInput{Categories: nil, Limit: 200})
	if err != nil {
		return nil, fmt.Errorf("stress test ledger read: %w", err)
	}
	blockedCount := 0
	for _, entry := range blocked {
		if entry.Action == ledger.ActionPatchBlocked {
			blockedCount++
		}
	}
	report.add("no unresolved policy blocks",
		blockedCount == 0,
		fmt.Sprintf("%d blocked patches in recent ledger history", blockedCount))

	report.finalize()
	return report, nil
}

// improving reports whether completed iterations have reduced friction overall.
func (s *Service) improving(ctx context.Context) bool {
	fr, err := s.loop.FrictionDeltaReport(ctx)
	if err != nil {
		return false
	}
	return fr.TotalDelta > 0
}

// DailyBrief assembles the operations intelligence summary. Served from cache
// when fresh.
func (s *Service) DailyBrief(ctx context.Context) (*DailyBrief, error) {
	if payload, ok := s.cache.Get(ctx, cacheKeyDailyBrief); ok {
		var cached DailyBrief
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		s.cache.Invalidate(ctx, cacheKeyDailyBrief)
	}

	brief, err := s.buildDailyBrief(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheReport(ctx, cacheKeyDailyBrief, brief)
	return brief, nil
}

func (s *Service) buildDailyBrief(ctx context.Context) (*DailyBrief, error) {
	now := s.clock().UTC()
	summary := s.loop.Status(ctx)

	brief := &DailyBrief{GeneratedAt: now}

	health := BriefSection{Title: "Messaging Health"}
	if !summary.Started {
		health.Lines = append(health.Lines, BriefLine{
			Label:  "Objection Loop",
			Value:  "not started",
			Status: statusWarn,
		})
		brief.Sections = append(brief.Sections, health)
		brief.Actions = append(brief.Actions, "Start an objection loop to begin friction tracking")
		return brief, nil
	}

	health.Lines = append(health.Lines,
		BriefLine{
			Label:  "Loop Status",
			Value:  string(summary.Status),
			Status: statusFor(summary.Status == loop.StatusRunning || summary.TargetMet),
		},
		BriefLine{
			Label:  "Friction",
			Value:  fmt.Sprintf("%.2f (target: %.2f)", summary.Current, summary.Target),
			Status: statusFor(summary.TargetMet),
		},
		BriefLine{
			Label:  "Iterations Completed",
			Value:  fmt.Sprintf("%d", summary.CompletedIterations),
			Status: statusOK,
		},
		BriefLine{
			Label:  "State Persistence",
			Value:  persistenceLabel(summary.PersistenceDegraded),
			Status: statusFor(!summary.PersistenceDegraded),
		},
	)
	brief.Sections = append(brief.Sections, health)

	entries, err := s.ledger.List(ctx, ledgersvc.ListInput{Limit: 500})
	if err != nil {
		return nil, fmt.Errorf("daily brief ledger read: %w", err)
	}
	var captured, applied, blocked int
	cutoff := now.Add(-briefWindow)
	for _, entry := range entries {
		if entry.Timestamp.Before(cutoff) {
			continue
		}
		switch entry.Action {
		case ledger.ActionObjectionCaptured:
			captured++
		case ledger.ActionPatchApplied:
			applied++
		case ledger.ActionPatchBlocked:
			blocked++
		}
	}

	activity := BriefSection{Title: "Last 24h Activity"}
	activity.Lines = append(activity.Lines,
		BriefLine{Label: "Objections Captured", Value: fmt.Sprintf("%d", captured), Status: statusOK},
		BriefLine{Label: "Patches Applied", Value: fmt.Sprintf("%d", applied), Status: statusOK},
		BriefLine{Label: "Patches Blocked", Value: fmt.Sprintf("%d", blocked), Status: statusFor(blocked == 0)},
	)
	brief.Sections = append(brief.Sections, activity)

	patterns := BriefSection{Title: "Objection Patterns"}
	for _, cc := range summary.TopCategories {
		status := statusOK
		if cc.Priority && !contains(summary.AppliedPatches, cc.Category) {
			status = statusWarn
		}
		patterns.Lines = append(patterns.Lines, BriefLine{
			Label:  cc.Category,
			Value:  fmt.Sprintf("%d observed", cc.Count),
			Status: status,
		})
	}
	brief.Sections = append(brief.Sections, patterns)

	for _, cc := range summary.TopCategories {
		if cc.Priority && !contains(summary.AppliedPatches, cc.Category) {
			brief.Actions = append(brief.Actions,
				fmt.Sprintf("Apply the %s content patch: priority category with %d unaddressed objections", cc.Category, cc.Count))
		}
	}
	if blocked > 0 {
		brief.Actions = append(brief.Actions,
			fmt.Sprintf("Review %d blocked patches with regulatory affairs before retrying", blocked))
	}
	if summary.PersistenceDegraded {
		brief.Actions = append(brief.Actions, "Investigate snapshot write failures: loop progress is at risk on restart")
	}
	return brief, nil
}

const (
	statusOK   = "ok"
	statusWarn = "attention"
)

func statusFor(ok bool) string {
	if ok {
		return statusOK
	}
	return statusWarn
}

func persistenceLabel(degraded bool) string {
	if degraded {
		return "degraded"
	}
	return "healthy"
}

func (r *StressTestReport) add(name string, pass bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Pass: pass, Detail: detail})
	if pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

func (r *StressTestReport) finalize() {
	switch {
	case r.Failed == 0:
		r.Grade = "pass"
	case r.Failed <= 2:
		r.Grade = "conditional"
	default:
		r.Grade = "fail"
	}
}

func (s *Service) cacheReport(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("report marshal for cache failed", "key", key, "error", err.Error())
		return
	}
	s.cache.Set(ctx, key, payload)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
