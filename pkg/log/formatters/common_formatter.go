package formatters

import (
	"fmt"
	"strings"
	"time"

	"github.com/gruntwork-io/go-commons/collections"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

// Option names accepted after the format name in the log format flag, e.g.
// "pretty,no-color".
const (
	ColorOptName = "color"
	TimeOptName  = "time"
	LevelOptName = "level"
)

// CommonFormatter carries the machinery shared by all formatters: the
// registered name and the named options parsed from the log format flag.
type CommonFormatter struct {
	// TimestampFormat is the layout used when a full timestamp is printed.
	TimestampFormat string

	name             string
	options          map[string]any
	supportedOptions []string
}

// Name implements log.Formatter.
func (formatter *CommonFormatter) Name() string {
	return formatter.name
}

// SupportedOptions implements log.Formatter.
func (formatter *CommonFormatter) SupportedOptions() []string {
	return formatter.supportedOptions
}

// SetOption implements log.Formatter.
func (formatter *CommonFormatter) SetOption(name string, value any) error {
	if !collections.ListContainsElement(formatter.supportedOptions, name) {
		return errors.Errorf("invalid option %q for the format %q, supported options: %s", name, formatter.Name(), strings.Join(formatter.supportedOptions, ", "))
	}

	if formatter.options == nil {
		formatter.options = make(map[string]any)
	}

	formatter.options[name] = value

	return nil
}

func (formatter *CommonFormatter) boolOption(name string, fallback bool) bool {
	if val, ok := formatter.options[name]; ok {
		if val, ok := val.(bool); ok {
			return val
		}
	}

	return fallback
}

func (formatter *CommonFormatter) getTimestamp(t time.Time) string {
	timestampFormat := formatter.TimestampFormat

	if val, ok := formatter.options[TimeOptName]; ok {
		switch val := val.(type) {
		case bool:
			if !val {
				return ""
			}

		case string:
			timestampFormat = val
		}
	}

	return t.Format(timestampFormat)
}

func (formatter *CommonFormatter) getLevel(level log.Level) string {
	levelStr := fmt.Sprintf("%-6s", strings.ToUpper(level.String()))

	if val, ok := formatter.options[LevelOptName]; ok {
		switch val := val.(type) {
		case bool:
			if !val {
				return ""
			}

		case string:
			if strings.EqualFold(val, "short") {
				levelStr = level.ShortName()
			}
		}
	}

	return levelStr
}
