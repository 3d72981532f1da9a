// Package formatters contains the log output formats selectable with the
// log format flag: a colored human-oriented format, a plain key=value
// format and a machine-readable JSON format.
package formatters

import (
	"strings"

	"golang.org/x/exp/maps"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

// Formatters is a list of log formatters.
type Formatters []log.Formatter

// Names returns the names of all formatters in the list.
func (formatters Formatters) Names() []string {
	strs := make([]string, len(formatters))

	for i, formatter := range formatters {
		strs[i] = formatter.Name()
	}

	return strs
}

// String implements fmt.Stringer.
func (formatters Formatters) String() string {
	return strings.Join(formatters.Names(), ", ")
}

// AllFormatters returns a new instance of each formatter.
func AllFormatters() Formatters {
	return Formatters{
		NewPrettyFormatter(),
		NewKeyValueFormatter(),
		NewJSONFormatter(),
	}
}

// ParseFormat takes a string in the form "name,opt,opt:value,no-opt", e.g.
// "pretty,no-color,level:short", and returns a Formatter instance with the
// given options set.
func ParseFormat(str string) (log.Formatter, error) {
	var (
		allFormatters = AllFormatters()
		opts          = make(map[string]any)
		formatter     log.Formatter
	)

	formatters := make(map[string]log.Formatter, len(allFormatters))
	for _, f := range allFormatters {
		formatters[f.Name()] = f
	}

	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSpace(part)
		part = strings.ToLower(part)

		if f, ok := formatters[part]; ok {
			formatter = f
			continue
		}

		name := part

		var value any = true

		if nameValue := strings.SplitN(name, ":", 2); len(nameValue) > 1 {
			name = nameValue[0]
			value = nameValue[1]
		}

		if strings.HasPrefix(name, "no-") {
			name = strings.TrimPrefix(name, "no-")
			value = false
		}

		opts[name] = value
	}

	if formatter == nil {
		return nil, errors.Errorf("invalid format %q, supported formats: %s", str, strings.Join(maps.Keys(formatters), ", "))
	}

	for name, value := range opts {
		if err := formatter.SetOption(name, value); err != nil {
			return nil, err
		}
	}

	return formatter, nil
}
