package issues_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/internal/issues"
)

const cleanupFailureDescription = "After scenario RuntimeError raised while getting project during cleanup."

var cleanupFailureLines = []string{
	"=== After Scenario: user cleanup",
	"some unrelated noise",
	"Error from server (ServiceUnavailable): the server is currently unable to handle the request (get projects.project.openshift.io)",
	"RuntimeError: error getting projects by user 'qe-tester'",
}

func defaultClassifier() *issues.Classifier {
	return issues.NewClassifier(issues.DefaultRules()...)
}

func TestClassifyRecognizesCleanupFailure(t *testing.T) {
	t.Parallel()

	logText := strings.Join(cleanupFailureLines, "\n")

	knownIssues := defaultClassifier().Classify(logText)
	assert.Equal(t, []string{cleanupFailureDescription}, knownIssues)
}

func TestClassifyIgnoresPatternOrder(t *testing.T) {
	t.Parallel()

	reversed := make([]string, 0, len(cleanupFailureLines))
	for i := len(cleanupFailureLines) - 1; i >= 0; i-- {
		reversed = append(reversed, cleanupFailureLines[i])
	}

	knownIssues := defaultClassifier().Classify(strings.Join(reversed, "\n"))
	assert.Equal(t, []string{cleanupFailureDescription}, knownIssues)
}

func TestClassifyRequiresEveryPattern(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		omittedLine int
	}{
		{"without after-scenario marker", 0},
		{"without service-unavailable error", 2},
		{"without runtime error", 3},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var lines []string

			for i, line := range cleanupFailureLines {
				if i != testCase.omittedLine {
					lines = append(lines, line)
				}
			}

			knownIssues := defaultClassifier().Classify(strings.Join(lines, "\n"))
			assert.Empty(t, knownIssues)
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	t.Parallel()

	classifier := defaultClassifier()
	logText := strings.Join(cleanupFailureLines, "\n")

	first := classifier.Classify(logText)
	second := classifier.Classify(logText)

	assert.Equal(t, first, second)
}

func TestClassifyFollowsRegistrationOrder(t *testing.T) {
	t.Parallel()

	first := issues.NewRule("first", issues.MatchAllPatterns("first issue", `alpha`))
	never := issues.NewRule("never", issues.MatchAllPatterns("never matched", `not-in-log`))
	third := issues.NewRule("third", issues.MatchAllPatterns("third issue", `gamma`))

	logText := "alpha\nbeta\ngamma"

	knownIssues := issues.NewClassifier(first, never, third).Classify(logText)
	assert.Equal(t, []string{"first issue", "third issue"}, knownIssues)

	knownIssues = issues.NewClassifier(third, never, first).Classify(logText)
	assert.Equal(t, []string{"third issue", "first issue"}, knownIssues)
}

func TestMatchOrderedPatterns(t *testing.T) {
	t.Parallel()

	detector := issues.MatchOrderedPatterns("ordered issue", `=== Scenario:`, `step failed`)

	testCases := []struct {
		name    string
		logText string
		matched bool
	}{
		{
			name:    "patterns on increasing lines",
			logText: "=== Scenario: deploy\nsome output\nstep failed",
			matched: true,
		},
		{
			name:    "patterns reversed",
			logText: "step failed\n=== Scenario: deploy",
			matched: false,
		},
		{
			name:    "patterns on the same line",
			logText: "=== Scenario: deploy step failed",
			matched: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			description, matched := detector(testCase.logText)
			require.Equal(t, testCase.matched, matched)

			if matched {
				assert.Equal(t, "ordered issue", description)
			}
		})
	}
}

func TestDefaultRuleNamesAreUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}

	for _, rule := range issues.DefaultRules() {
		require.False(t, seen[rule.Name], "duplicate rule name %q", rule.Name)
		seen[rule.Name] = true
	}
}
