// Package issues matches CI run logs against a registry of known-failure
// signatures, so that recurring infrastructure problems are called out in the
// report instead of being re-triaged by hand for every run.
//
// Rules are registered once at construction as an explicit ordered list and
// are immutable afterwards. Each rule is evaluated independently against the
// same log text; the classifier returns the descriptions of every matching
// rule in registration order.
package issues

import "slices"

// Classifier evaluates an ordered, immutable set of rules against log text.
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier evaluating the given rules in order.
func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{rules: slices.Clone(rules)}
}

// Classify returns the descriptions of every rule matching logText, in
// registration order. An empty result is the common case and means no known
// issue was recognized.
func (classifier *Classifier) Classify(logText string) []string {
	var knownIssues []string

	for _, rule := range classifier.rules {
		if description, matched := rule.Evaluate(logText); matched {
			knownIssues = append(knownIssues, description)
		}
	}

	return knownIssues
}
