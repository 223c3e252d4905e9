package domain

// Severity grades how damaging an objection is to the active campaign.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRank orders severities for comparisons and reporting.
var severityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank returns the numeric weight of the severity; unknown values rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool {
	return severityRank[s] != 0
}

func (s Severity) String() string {
	return string(s)
}
