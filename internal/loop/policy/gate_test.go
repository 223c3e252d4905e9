package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanText(t *testing.T) {
	gate := NewGate()

	result := gate.Validate("Our validated workflow reduced audit preparation time in documented deployments.")
	assert.True(t, result.Compliant)
	assert.Empty(t, result.Violations)
}

func TestValidateReportsSpecificTerms(t *testing.T) {
	gate := NewGate()

	result := gate.Validate("Our risk-free onboarding means zero findings at your next audit.")
	require.False(t, result.Compliant)
	assert.Contains(t, result.Violations, `forbidden term: "risk-free"`)
	assert.Contains(t, result.Violations, `forbidden term: "zero findings"`)
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	gate := NewGate()

	lower := gate.Validate("this outcome is guaranteed")
	upper := gate.Validate("THIS OUTCOME IS GUARANTEED")
	mixed := gate.Validate("This Outcome Is GuArAnTeEd")

	assert.False(t, lower.Compliant)
	assert.Equal(t, lower.Violations, upper.Violations)
	assert.Equal(t, lower.Violations, mixed.Violations)
}

func TestValidateIsIdempotent(t *testing.T) {
	gate := NewGate()
	text := "a guaranteed, risk-free rollout"

	first := gate.Validate(text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, gate.Validate(text))
	}
}

func TestValidateMatchesSubstringsInsideWords(t *testing.T) {
	gate := NewGateWithTerms([]string{"guarantee"})

	// Substring matching is deliberate: "guaranteed" must trip "guarantee".
	result := gate.Validate("success is guaranteed")
	assert.False(t, result.Compliant)
}

func TestConstraintsExposesPolicyCopy(t *testing.T) {
	gate := NewGate()

	constraints := gate.Constraints()
	require.NotEmpty(t, constraints.ForbiddenTerms)
	assert.NotEmpty(t, constraints.Doctrine)

	// Mutating the returned slice must not affect the gate.
	constraints.ForbiddenTerms[0] = "mutated"
	assert.False(t, gate.Validate("guaranteed results").Compliant)
}
