// Package patches holds the static remediation catalog: one pre-written
// messaging shift per objection category. Entries are looked up at runtime,
// never created.
package patches

import "sort"

// ContentPatch is one predefined messaging remediation.
type ContentPatch struct {
	Category           string `json:"category"`
	MessagingShift     string `json:"messaging_shift"`
	SupportingEvidence string `json:"supporting_evidence"`
	CTAAdjustment      string `json:"cta_adjustment"`
	ComplianceNote     string `json:"compliance_note"`
	Compliant          bool   `json:"compliant"`
}

// catalog is keyed by objection category. The competitor-comparison entry is
// marked non-compliant: comparative claims are parked pending legal review.
var catalog = map[string]ContentPatch{
	"stakeholder_confidence": {
		Category:           "stakeholder_confidence",
		MessagingShift:     "Lead with the executive briefing pack: audit history, validation summaries and the named customer council.",
		SupportingEvidence: "Three audited deployments in regulated life-sciences programs; board-level references available on request.",
		CTAAdjustment:      "Offer a 30-minute leadership walkthrough instead of a product demo.",
		ComplianceNote:     "Claims restricted to documented audit outcomes.",
		Compliant:          true,
	},
	"price_resistance": {
		Category:           "price_resistance",
		MessagingShift:     "Reframe pricing against the cost of a failed audit cycle and the internal hours a validated workflow replaces.",
		SupportingEvidence: "Published time-to-validation benchmarks from current deployments.",
		CTAAdjustment:      "Offer the phased-adoption tier in the first reply.",
		ComplianceNote:     "No savings figures beyond the published benchmark set.",
		Compliant:          true,
	},
	"timing_urgency": {
		Category:           "timing_urgency",
		MessagingShift:     "Anchor on the next regulatory submission window rather than our sales calendar.",
		SupportingEvidence: "Regulatory calendar excerpt relevant to the prospect's filing cycle.",
		CTAAdjustment:      "Propose a readiness assessment dated to their submission window.",
		ComplianceNote:     "Dates sourced from public regulatory calendars only.",
		Compliant:          true,
	},
	"trust_credibility": {
		Category:           "trust_credibility",
		MessagingShift:     "Replace aspirational language with the documented validation record and named third-party audit summaries.",
		SupportingEvidence: "Redacted audit reports and customer-council membership list.",
		CTAAdjustment:      "Offer a reference call with a current compliance officer.",
		ComplianceNote:     "Only third-party-verifiable statements.",
		Compliant:          true,
	},
	"feature_gap": {
		Category:           "feature_gap",
		MessagingShift:     "Acknowledge the gap, show the published roadmap slot, and pivot to the validated-workflow coverage that exists today.",
		SupportingEvidence: "Public roadmap entry and current integration matrix.",
		CTAAdjustment:      "Offer a scoping session with solutions engineering.",
		ComplianceNote:     "No committed dates beyond the published roadmap.",
		Compliant:          true,
	},
	"competitor_comparison": {
		Category:           "competitor_comparison",
		MessagingShift:     "Side-by-side chart positioning us ahead of incumbent platforms on every compliance axis.",
		SupportingEvidence: "Internal comparison matrix (unverified).",
		CTAAdjustment:      "Push a switch-incentive offer.",
		ComplianceNote:     "Comparative claims not yet cleared by legal review.",
		Compliant:          false,
	},
	"status_quo": {
		Category:           "status_quo",
		MessagingShift:     "Quantify the audit exposure of the current manual process using the prospect's own stated figures.",
		SupportingEvidence: "Gap-analysis template populated from discovery notes.",
		CTAAdjustment:      "Offer the self-serve exposure calculator.",
		ComplianceNote:     "Uses only prospect-provided inputs.",
		Compliant:          true,
	},
	"general_hesitation": {
		Category:           "general_hesitation",
		MessagingShift:     "Slow the cadence: send the plain-language overview and invite questions rather than pushing a meeting.",
		SupportingEvidence: "Plain-language product overview.",
		CTAAdjustment:      "Single soft CTA, no deadline framing.",
		ComplianceNote:     "Standard approved overview content.",
		Compliant:          true,
	},
}

// Lookup returns the catalog patch for a category.
func Lookup(category string) (ContentPatch, bool) {
	p, ok := catalog[category]
	return p, ok
}

// Categories lists every category with a catalog entry, sorted for stable
// output.
func Categories() []string {
	out := make([]string, 0, len(catalog))
	for c := range catalog {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
