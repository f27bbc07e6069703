// Package tier classifies a round into a reward tier.
package tier

// ID identifies a reward tier.
type ID string

// Known tiers, best first.
const (
	Pristine    ID = "pristine"
	Exceptional ID = "exceptional"
	Adequate    ID = "adequate"
	Disaster    ID = "disaster"
)

// NoErrorLimit disables the error constraint of a rule.
const NoErrorLimit = -1

// Rule matches when wpm reaches MinWPM and errors stay within MaxErrors.
type Rule struct {
	Tier      ID
	MinWPM    float64
	MaxErrors int
}

func (r Rule) matches(wpm float64, errors int) bool {
	if wpm < r.MinWPM {
		return false
	}
	return r.MaxErrors == NoErrorLimit || errors <= r.MaxErrors
}

// Thresholds holds the configurable cut-offs of the default cascade.
type Thresholds struct {
	PristineWPM       float64
	PristineMaxErrors int
	ExceptionalWPM    float64
	AdequateWPM       float64
}

// DefaultThresholds returns the stock thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PristineWPM:       90,
		PristineMaxErrors: 0,
		ExceptionalWPM:    80,
		AdequateWPM:       70,
	}
}

// Rules expands thresholds into the ordered cascade.
func (t Thresholds) Rules() []Rule {
	return []Rule{
		{Tier: Pristine, MinWPM: t.PristineWPM, MaxErrors: t.PristineMaxErrors},
		{Tier: Exceptional, MinWPM: t.ExceptionalWPM, MaxErrors: NoErrorLimit},
		{Tier: Adequate, MinWPM: t.AdequateWPM, MaxErrors: NoErrorLimit},
	}
}

// Classifier evaluates rules top-down; the first match wins.
type Classifier struct {
	rules    []Rule
	fallback ID
}

// NewClassifier builds the default cascade from thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return NewRuleClassifier(t.Rules(), Disaster)
}

// NewRuleClassifier builds a classifier from an explicit rule list.
func NewRuleClassifier(rules []Rule, fallback ID) *Classifier {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &Classifier{rules: cp, fallback: fallback}
}

// Classify maps a round's speed and error count to a tier.
func (c *Classifier) Classify(wpm float64, errors int) ID {
	for _, r := range c.rules {
		if r.matches(wpm, errors) {
			return r.Tier
		}
	}
	return c.fallback
}
