// Package reports builds the canned governance reports: the messaging
// stress-test and the daily operations brief. Reports are deterministic
// functions of loop status and ledger history; a short-TTL Redis cache sits
// in front of the builders.
package reports

import "time"

// Check is one pass/fail line of the stress-test report.
type Check struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Detail string `json:"detail"`
}

// StressTestReport grades the messaging program's resilience.
type StressTestReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	LoopStarted bool      `json:"loop_started"`
	Checks      []Check   `json:"checks"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Grade       string    `json:"grade"`
}

// BriefLine is one KPI row of the daily brief.
type BriefLine struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

// BriefSection groups related KPI rows.
type BriefSection struct {
	Title string      `json:"title"`
	Lines []BriefLine `json:"lines"`
}

// DailyBrief is the operations intelligence summary.
type DailyBrief struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Sections    []BriefSection `json:"sections"`
	Actions     []string       `json:"actions"`
}
