// Package authority encodes the executive approval hierarchy. Checks are
// plain rank comparisons over a fixed role table; there is no authentication
// here, only the organizational rule of who may approve whose actions.
package authority

import (
	"sort"
	"strings"

	dErrors "revloop/pkg/domain-errors"
)

// roleRank is the fixed hierarchy. Higher outranks lower; equals cannot
// approve each other.
var roleRank = map[string]int{
	"ceo":      5,
	"coo":      4,
	"cmo":      4,
	"cro":      4,
	"cos":      3,
	"director": 2,
	"manager":  1,
}

// Decision is the result of one authority check.
type Decision struct {
	Approver   string `json:"approver"`
	Subject    string `json:"subject"`
	CanApprove bool   `json:"can_approve"`
	Reason     string `json:"reason"`
}

// CanApprove reports whether approver outranks subject.
//
// Errors: CodeInvalidInput for an unknown role.
func CanApprove(approver, subject string) (*Decision, error) {
	approver = normalize(approver)
	subject = normalize(subject)

	approverRank, ok := roleRank[approver]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+approver)
	}
	subjectRank, ok := roleRank[subject]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+subject)
	}

	decision := &Decision{Approver: approver, Subject: subject}
	switch {
	case approverRank > subjectRank:
		decision.CanApprove = true
		decision.Reason = approver + " outranks " + subject
	case approverRank == subjectRank:
		decision.Reason = approver + " and " + subject + " hold equal rank; escalate upward"
	default:
		decision.Reason = approver + " does not outrank " + subject
	}
	return decision, nil
}

// Roles returns the known roles sorted by rank descending, then name.
func Roles() []string {
	out := make([]string, 0, len(roleRank))
	for role := range roleRank {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool {
		if roleRank[out[i]] != roleRank[out[j]] {
			return roleRank[out[i]] > roleRank[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
