package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "revloop/pkg/domain-errors"
)

func TestCanApprove(t *testing.T) {
	cases := []struct {
		name     string
		approver string
		subject  string
		allowed  bool
	}{
		{"ceo approves coo", "ceo", "coo", true},
		{"ceo approves manager", "ceo", "manager", true},
		{"coo approves director", "coo", "director", true},
		{"director approves manager", "director", "manager", true},
		{"manager cannot approve director", "manager", "director", false},
		{"coo cannot approve ceo", "coo", "ceo", false},
		{"peers cannot approve each other", "cmo", "cro", false},
		{"self-approval denied", "coo", "coo", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := CanApprove(tc.approver, tc.subject)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, decision.CanApprove)
			assert.NotEmpty(t, decision.Reason)
		})
	}
}

func TestEqualRankSuggestsEscalation(t *testing.T) {
	decision, err := CanApprove("cmo", "cro")
	require.NoError(t, err)
	assert.False(t, decision.CanApprove)
	assert.Contains(t, decision.Reason, "escalate")
}

func TestCanApproveNormalizesInput(t *testing.T) {
	decision, err := CanApprove("  CEO ", "Manager")
	require.NoError(t, err)
	assert.True(t, decision.CanApprove)
	assert.Equal(t, "ceo", decision.Approver)
	assert.Equal(t, "manager", decision.Subject)
}

func TestCanApproveRejectsUnknownRoles(t *testing.T) {
	_, err := CanApprove("intern", "manager")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))

	_, err = CanApprove("ceo", "intern")
	assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput))
}

func TestRolesOrderedByRank(t *testing.T) {
	roles := Roles()
	require.Len(t, roles, 7)
	assert.Equal(t, "ceo", roles[0])
	assert.Equal(t, []string{"cmo", "coo", "cro"}, roles[1:4], "equal ranks sort by name")
	assert.Equal(t, "manager", roles[len(roles)-1])
}
