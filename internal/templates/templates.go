// Package templates holds the governed outbound email catalog. Every template
// is validated against the policy gate before it leaves the process: a
// template that picks up a forbidden term is served with its violations
// attached so reviewers see exactly what tripped.
package templates

import (
	"sort"

	"revloop/internal/loop/policy"
	dErrors "revloop/pkg/domain-errors"
)

// Template is one governed outbound email.
type Template struct {
	Key        string   `json:"key"`
	Subject    string   `json:"subject"`
	Audience   string   `json:"audience"`
	Body       string   `json:"body"`
	Compliant  bool     `json:"compliant"`
	Violations []string `json:"violations,omitempty"`
}

var catalog = map[string]Template{
	"ceo_autonomy_checklist": {
		Key:      "ceo_autonomy_checklist",
		Subject:  "CEO Autonomy Checklist — Weekly Strategic Oversight",
		Audience: "executive_sponsor",
		Body: "This week's autonomous-governance summary is attached.\n\n" +
			"- Objection loop status and friction movement against target\n" +
			"- Content patches applied, with compliance notes\n" +
			"- Items escalated for human decision\n\n" +
			"Review the live dashboard for per-iteration detail. Reply with any " +
			"category you want prioritized in the next iteration.",
	},
	"daily_brief": {
		Key:      "daily_brief",
		Subject:  "Daily Operations Brief — Messaging Program",
		Audience: "operations_lead",
		Body: "Today's brief covers objection capture volume, classifier " +
			"category movement, and patch outcomes.\n\n" +
			"Every recommendation in this brief has passed the value-quantification " +
			"review. Where evidence is still being gathered, the brief says so " +
			"rather than projecting certainty.",
	},
	"objection_followup": {
		Key:      "objection_followup",
		Subject:  "Following up on your validation questions",
		Audience: "quality_director",
		Body: "Thanks for raising your concerns about the validation package.\n\n" +
			"We've documented how comparable organizations quantified audit-preparation " +
			"savings in their first two quarters, and we can walk through the same " +
			"worksheet with your team. No projection in it goes beyond what the " +
			"reference data supports.",
	},
	"stakeholder_reassurance": {
		Key:      "stakeholder_reassurance",
		Subject:  "Evidence pack for your stakeholder review",
		Audience: "compliance_officer",
		Body: "Ahead of your internal review, here is the evidence pack: validation " +
			"methodology, audit-trail samples, and the quantified-value worksheet.\n\n" +
			"Each claim is tied to a measured outcome from a reference deployment. " +
			"We'd rather under-promise here than put a number in front of your " +
			"stakeholders that we cannot defend.",
	},
}

// Catalog wraps the static template set with gate validation.
type Catalog struct {
	gate *policy.Gate
}

// New builds the governed catalog.
func New(gate *policy.Gate) *Catalog {
	return &Catalog{gate: gate}
}

// Get returns the template for key with its gate verdict stamped.
//
// Errors: CodeNotFound for an unknown key.
func (c *Catalog) Get(key string) (*Template, error) {
	tpl, ok := catalog[key]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "no email template named "+key)
	}
	c.stamp(&tpl)
	return &tpl, nil
}

// List returns all templates sorted by key, each with its gate verdict.
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(catalog))
	for _, tpl := range catalog {
		c.stamp(&tpl)
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// stamp runs subject and body through the policy gate.
func (c *Catalog) stamp(tpl *Template) {
	result := c.gate.Validate(tpl.Subject + "\n" + tpl.Body)
	tpl.Compliant = result.Compliant
	tpl.Violations = result.Violations
}
