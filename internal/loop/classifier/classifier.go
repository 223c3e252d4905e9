// Package classifier maps raw objection text to a (category, severity) pair
// using an ordered rule table. Rule order is itself policy: priority-class
// rules sit at the head of the table and win over general patterns regardless
// of how specific the later match would be.
package classifier

import (
	"log/slog"
	"regexp"

	"revloop/pkg/domain"
)

// FallbackCategory is assigned when no rule matches.
const FallbackCategory = "general_hesitation"

// Priority-class categories must always surface first in analysis.
const CategoryStakeholderConfidence = "stakeholder_confidence"

// General categories.
const (
	CategoryPriceResistance      = "price_resistance"
	CategoryTimingUrgency        = "timing_urgency"
	CategoryTrustCredibility     = "trust_credibility"
	CategoryFeatureGap           = "feature_gap"
	CategoryCompetitorComparison = "competitor_comparison"
	CategoryStatusQuo            = "status_quo"
)

// Rule is one (pattern, category, severity) tuple. First match wins.
type Rule struct {
	Pattern  *regexp.Regexp
	Category string
	Severity domain.Severity
	Priority bool
}

// DefaultRules returns the production rule table. Priority-class rules come
// first; the slice order is the evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Pattern:  regexp.MustCompile(`(?i)(board|leadership|stakeholder|exec\w*|ceo|cfo|my boss)\W+(?:\w+\W+){0,6}?(confiden\w*|buy.?in|convinc\w*|approv\w*|sign.?off|on board)`),
			Category: CategoryStakeholderConfidence,
			Severity: domain.SeverityHigh,
			Priority: true,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)(convince|justify|sell)\W+(?:\w+\W+){0,4}?(board|boss|leadership|executives?)`),
			Category: CategoryStakeholderConfidence,
			Severity: domain.SeverityHigh,
			Priority: true,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)too (expensive|pricey)|price|pricing|cost|budget|cheaper`),
			Category: CategoryPriceResistance,
			Severity: domain.SeverityMedium,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)not (the )?right time|next (quarter|year)|too (soon|early)|revisit|bad timing`),
			Category: CategoryTimingUrgency,
			Severity: domain.SeverityMedium,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)proof|case stud|track record|references?|skeptic\w*|credib\w*|never heard of`),
			Category: CategoryTrustCredibility,
			Severity: domain.SeverityHigh,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)missing|lacks|doesn.?t (support|have|integrate)|no integration|feature gap`),
			Category: CategoryFeatureGap,
			Severity: domain.SeverityMedium,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)competitor|alternative|already us(e|ing)|switch(ing)? from|compared? (to|with)`),
			Category: CategoryCompetitorComparison,
			Severity: domain.SeverityHigh,
		},
		{
			Pattern:  regexp.MustCompile(`(?i)current (process|vendor|system)|works fine|no need|why change|happy with`),
			Category: CategoryStatusQuo,
			Severity: domain.SeverityLow,
		},
	}
}

// Classifier evaluates the rule table. Classification is a pure function of
// (text, persona, rule table): re-running it over a stored objection log
// reproduces the original categories.
type Classifier struct {
	rules  []Rule
	logger *slog.Logger
}

// New builds a classifier over the default rule table.
func New(logger *slog.Logger) *Classifier {
	return NewWithRules(DefaultRules(), logger)
}

// NewWithRules builds a classifier over an explicit rule table. Used by tests
// to pin rule order.
func NewWithRules(rules []Rule, logger *slog.Logger) *Classifier {
	return &Classifier{rules: rules, logger: logger}
}

// Classify resolves text to a category and severity. The persona check is
// advisory: an unapproved persona is logged for review but never blocks
// capture and never influences the result.
func (c *Classifier) Classify(text, persona string) (string, domain.Severity) {
	if persona != "" && !domain.Persona(persona).IsApproved() {
		c.logger.Warn("objection captured with unapproved persona, flagging for review",
			"persona", persona,
		)
	}

	for _, rule := range c.rules {
		if rule.Pattern.MatchString(text) {
			return rule.Category, rule.Severity
		}
	}
	return FallbackCategory, domain.SeverityLow
}

// IsPriority reports whether the category belongs to the priority class.
func (c *Classifier) IsPriority(category string) bool {
	for _, rule := range c.rules {
		if rule.Priority && rule.Category == category {
			return true
		}
	}
	return false
}

// Categories returns every category the rule table can produce, in rule
// order, including the fallback.
func (c *Classifier) Categories() []string {
	seen := make(map[string]bool, len(c.rules))
	out := make([]string, 0, len(c.rules)+1)
	for _, rule := range c.rules {
		if !seen[rule.Category] {
			seen[rule.Category] = true
			out = append(out, rule.Category)
		}
	}
	return append(out, FallbackCategory)
}
