// Package policy implements the compliance gate every outbound messaging
// change must clear before it may be applied. A failed check is a structured
// result, never an error: blocked content is an expected, frequent outcome.
package policy

import "strings"

// DefaultForbiddenTerms are the claims the marketing-compliance review board
// has barred from outbound messaging. Matching is case-insensitive substring.
var DefaultForbiddenTerms = []string{
	"guaranteed",
	"guarantee",
	"risk-free",
	"no risk",
	"100% compliant",
	"zero findings",
	"never fail",
	"always passes",
	"assured approval",
	"cannot fail",
	"instant certification",
}

// Doctrine is the standing constraint all patches are aligned against.
const Doctrine = "All outbound messaging must stay aligned with the validated-quality-system (VQS) doctrine: " +
	"claims are limited to documented, auditable capabilities."

// Result is the outcome of validating a piece of text.
type Result struct {
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations,omitempty"`
}

// Constraints describes the gate's active policy for external callers.
type Constraints struct {
	ForbiddenTerms []string `json:"forbidden_terms"`
	Doctrine       string   `json:"doctrine"`
}

// Gate validates text against the forbidden-term list.
type Gate struct {
	forbidden []string
}

// NewGate builds a gate over the default forbidden-term list.
func NewGate() *Gate {
	return NewGateWithTerms(DefaultForbiddenTerms)
}

// NewGateWithTerms builds a gate over an explicit term list. Used by tests.
func NewGateWithTerms(terms []string) *Gate {
	return &Gate{forbidden: terms}
}

// Validate scans text for forbidden terms. Each matched term is reported once
// with the specific violated term, so callers never see a bare "blocked".
// Validate is deterministic: the same text always yields the same violations.
func (g *Gate) Validate(text string) Result {
	lowered := strings.ToLower(text)
	var violations []string
	for _, term := range g.forbidden {
		if strings.Contains(lowered, term) {
			violations = append(violations, `forbidden term: "`+term+`"`)
		}
	}
	return Result{Compliant: len(violations) == 0, Violations: violations}
}

// Constraints returns the active policy.
func (g *Gate) Constraints() Constraints {
	terms := make([]string, len(g.forbidden))
	copy(terms, g.forbidden)
	return Constraints{ForbiddenTerms: terms, Doctrine: Doctrine}
}
