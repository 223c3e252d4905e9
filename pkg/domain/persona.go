package domain

// Persona labels the buyer role an objection is attributed to.
//
// The allowlist mirrors the approved audience segments from the messaging
// playbook. An unapproved persona never blocks capture; callers flag it for
// review instead.
type Persona string

// Approved personas.
const (
	PersonaComplianceOfficer Persona = "compliance_officer"
	PersonaQualityDirector   Persona = "quality_director"
	PersonaOperationsLead    Persona = "operations_lead"
	PersonaExecutiveSponsor  Persona = "executive_sponsor"
	PersonaRegulatoryLead    Persona = "regulatory_affairs_lead"
)

var approvedPersonas = map[Persona]bool{
	PersonaComplianceOfficer: true,
	PersonaQualityDirector:   true,
	PersonaOperationsLead:    true,
	PersonaExecutiveSponsor:  true,
	PersonaRegulatoryLead:    true,
}

// IsApproved reports whether the persona is on the approved segment list.
func (p Persona) IsApproved() bool {
	return approvedPersonas[p]
}

func (p Persona) String() string {
	return string(p)
}

// ApprovedPersonas returns the allowlist in a stable order for reporting.
func ApprovedPersonas() []Persona {
	return []Persona{
		PersonaComplianceOfficer,
		PersonaQualityDirector,
		PersonaOperationsLead,
		PersonaExecutiveSponsor,
		PersonaRegulatoryLead,
	}
}
