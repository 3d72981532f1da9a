package issues

import (
	"regexp"
	"strings"
)

// Detector inspects the full text of one log and reports whether a known
// issue is present, together with its human-readable description. Detectors
// must be pure: no side effects, no dependence on other rules.
type Detector func(logText string) (description string, matched bool)

// Rule ties a stable name to a detector. The name is used for registration
// and diagnostics only; it never appears in the report. Description and
// Patterns are informational and filled in only for pattern-based rules.
type Rule struct {
	Name        string
	Description string
	Patterns    []string

	detector Detector
}

// NewRule creates a rule evaluating the given detector.
func NewRule(name string, detector Detector) Rule {
	return Rule{Name: name, detector: detector}
}

// PatternRule creates a rule that reports description when every pattern
// matches somewhere in the log, keeping the patterns inspectable.
func PatternRule(name, description string, patterns ...string) Rule {
	return Rule{
		Name:        name,
		Description: description,
		Patterns:    patterns,
		detector:    MatchAllPatterns(description, patterns...),
	}
}

// Evaluate runs the rule's detector against logText.
func (rule Rule) Evaluate(logText string) (string, bool) {
	return rule.detector(logText)
}

// MatchAllPatterns returns a detector that fires when every pattern matches
// at least one line of the log. The patterns are independent of each other;
// the order in which they appear in the log does not matter.
func MatchAllPatterns(description string, patterns ...string) Detector {
	regexps := compilePatterns(patterns)

	return func(logText string) (string, bool) {
		lines := strings.Split(logText, "\n")

		for _, re := range regexps {
			if !anyLineMatches(re, lines) {
				return "", false
			}
		}

		return description, true
	}
}

// MatchOrderedPatterns returns a detector that fires only when pattern i+1
// matches on a line strictly after the line pattern i matched on.
func MatchOrderedPatterns(description string, patterns ...string) Detector {
	regexps := compilePatterns(patterns)

	return func(logText string) (string, bool) {
		lines := strings.Split(logText, "\n")
		next := 0

		for _, line := range lines {
			if next == len(regexps) {
				break
			}

			if regexps[next].MatchString(line) {
				next++
			}
		}

		if next != len(regexps) {
			return "", false
		}

		return description, true
	}
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	regexps := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		regexps = append(regexps, regexp.MustCompile(pattern))
	}

	return regexps
}

func anyLineMatches(re *regexp.Regexp, lines []string) bool {
	for _, line := range lines {
		if re.MatchString(line) {
			return true
		}
	}

	return false
}
