package report

import (
	"fmt"
	"time"

	"github.com/mgutz/ansi"
)

// Colorizer colors the post-run triage summary.
type Colorizer struct {
	headingColorizer     func(string) string
	countColorizer       func(string) string
	failureColorizer     func(string) string
	knownIssueColorizer  func(string) string
	millisecondColorizer func(string) string
	secondColorizer      func(string) string
	minuteColorizer      func(string) string
	defaultColorizer     func(string) string
}

// NewColorizer creates a new Colorizer.
func NewColorizer(shouldColor bool) *Colorizer {
	if !shouldColor {
		return &Colorizer{
			headingColorizer:     func(s string) string { return s },
			countColorizer:       func(s string) string { return s },
			failureColorizer:     func(s string) string { return s },
			knownIssueColorizer:  func(s string) string { return s },
			millisecondColorizer: func(s string) string { return s },
			secondColorizer:      func(s string) string { return s },
			minuteColorizer:      func(s string) string { return s },
			defaultColorizer:     func(s string) string { return s },
		}
	}

	return &Colorizer{
		headingColorizer:     ansi.ColorFunc("yellow+bh"),
		countColorizer:       ansi.ColorFunc("white+bh"),
		failureColorizer:     ansi.ColorFunc("red+bh"),
		knownIssueColorizer:  ansi.ColorFunc("cyan+bh"),
		millisecondColorizer: ansi.ColorFunc("cyan+bh"),
		secondColorizer:      ansi.ColorFunc("green+bh"),
		minuteColorizer:      ansi.ColorFunc("yellow+bh"),
		defaultColorizer:     ansi.ColorFunc("white+bh"),
	}
}

// colorDuration returns the duration as a string, colored based on the duration.
func (c *Colorizer) colorDuration(duration time.Duration) string {
	if duration < 0 {
		return c.defaultColorizer("N/A")
	}

	if duration < time.Second {
		return c.millisecondColorizer(fmt.Sprintf("%dms", duration.Milliseconds()))
	}

	if duration < time.Minute {
		return c.secondColorizer(fmt.Sprintf("%ds", int(duration.Seconds())))
	}

	return c.minuteColorizer(fmt.Sprintf("%dm", int(duration.Minutes())))
}
