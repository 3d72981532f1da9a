package report

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	prefix                 = "   "
	triageSummaryHeader    = "❯❯ Triage Summary"
	ownersLabel            = "Owners"
	scriptsLabel           = "Scripts"
	failedCasesLabel       = "Failed Cases"
	knownIssuesLabel       = "Known Issues"
	separatorLineLength    = 28
	headerUnitCountSpacing = 2
	summaryPadder          = "."
)

// Summary holds the counts displayed after a run of the monitor.
type Summary struct {
	Owners            int
	Scripts           int
	FailedCases       int
	KnownIssueMatches int

	duration    time.Duration
	shouldColor bool
	padder      string
}

// Summarize walks the aggregation tree and returns its totals.
func (report *Report) Summarize() *Summary {
	report.mu.RLock()
	defer report.mu.RUnlock()

	summary := &Summary{padder: summaryPadder}

	for _, scripts := range report.owners {
		summary.Owners++

		for _, cases := range scripts {
			summary.Scripts++

			for _, record := range cases {
				summary.FailedCases++
				summary.KnownIssueMatches += len(record.KnownIssues)
			}
		}
	}

	return summary
}

// WithDuration sets the wall-clock duration shown in the summary header.
func (s *Summary) WithDuration(duration time.Duration) *Summary {
	s.duration = duration
	return s
}

// WithColor enables ANSI colors in the rendered summary.
func (s *Summary) WithColor(shouldColor bool) *Summary {
	s.shouldColor = shouldColor
	return s
}

// WriteSummary renders the report's summary to a writer. Nothing is written
// for an empty report.
func (report *Report) WriteSummary(w io.Writer, shouldColor bool, duration time.Duration) error {
	summary := report.Summarize().WithDuration(duration).WithColor(shouldColor)

	if summary.FailedCases == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return err
	}

	if err := summary.Write(w); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n")

	return err
}

// Write renders the summary to a writer.
func (s *Summary) Write(w io.Writer) error {
	colorizer := NewColorizer(s.shouldColor)

	header := fmt.Sprintf("%s  %s  %s",
		colorizer.headingColorizer(triageSummaryHeader),
		colorizer.countColorizer(fmt.Sprintf("%d failed", s.FailedCases)),
		colorizer.colorDuration(s.duration),
	)
	if _, err := fmt.Fprintf(w, "%s\n", header); err != nil {
		return err
	}

	separatorLine := fmt.Sprintf("%s%s", prefix, strings.Repeat("─", separatorLineLength))
	if _, err := fmt.Fprintf(w, "%s\n", separatorLine); err != nil {
		return err
	}

	entries := []struct {
		label     string
		colorizer func(string) string
		value     int
	}{
		{ownersLabel, colorizer.defaultColorizer, s.Owners},
		{scriptsLabel, colorizer.defaultColorizer, s.Scripts},
		{failedCasesLabel, colorizer.failureColorizer, s.FailedCases},
		{knownIssuesLabel, colorizer.knownIssueColorizer, s.KnownIssueMatches},
	}

	for _, entry := range entries {
		if err := s.writeSummaryEntry(w, entry.colorizer(entry.label), strconv.Itoa(entry.value)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Summary) writeSummaryEntry(w io.Writer, label string, value string) error {
	_, err := fmt.Fprintf(w, "%s%s%s%s\n", prefix, label, s.padding(label), value)

	return err
}

func (s *Summary) padding(label string) string {
	headerValuePosition := s.visualLength(triageSummaryHeader) + headerUnitCountSpacing

	currentPosition := len(prefix) + s.visualLength(label)

	paddingNeeded := headerValuePosition - currentPosition
	if paddingNeeded < 2 {
		return "  "
	}

	return " " + strings.Repeat(s.padder, paddingNeeded-2) + " "
}

// ansiRegex is used to remove ANSI escape codes from strings.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visualLength returns the printable width of text, ignoring color codes.
func (s *Summary) visualLength(text string) int {
	cleanText := ansiRegex.ReplaceAllString(text, "")

	return len([]rune(cleanText))
}
