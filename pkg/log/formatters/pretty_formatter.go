package formatters

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

const (
	PrettyFormatterName = "pretty"

	defaultPrettyFormatterTimestampFormat = "15:04:05.000"
)

// PrettyFormatter implements log.Formatter
var _ log.Formatter = new(PrettyFormatter)

// PrettyFormatter renders entries for humans: colored level, short
// timestamp, a bracketed prefix and the remaining fields in key=value form.
type PrettyFormatter struct {
	CommonFormatter

	// PrefixStyle is used to assign different styles (colors) to each prefix.
	PrefixStyle PrefixStyle

	// Color scheme to use.
	colorScheme compiledColorScheme

	// Reuse for printing fields in key=value format.
	keyValueFormatter *KeyValueFormatter
}

// NewPrettyFormatter returns a new PrettyFormatter instance with default values.
func NewPrettyFormatter() *PrettyFormatter {
	return &PrettyFormatter{
		CommonFormatter: CommonFormatter{
			TimestampFormat:  defaultPrettyFormatterTimestampFormat,
			name:             PrettyFormatterName,
			supportedOptions: []string{ColorOptName, TimeOptName, LevelOptName},
		},
		PrefixStyle:       NewPrefixStyle(),
		colorScheme:       defaultColorScheme.Compile(),
		keyValueFormatter: new(KeyValueFormatter),
	}
}

// Format implements logrus.Formatter
func (formatter *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	var (
		level     = formatter.getLevel(log.FromLogrusLevel(entry.Level))
		timestamp = formatter.getTimestamp(entry.Time)
		fields    = log.Fields(entry.Data)
		prefix    string
	)

	if val, ok := fields[log.FieldKeyPrefix]; ok && val != nil {
		if val, ok := val.(string); ok && val != "" {
			prefix = fmt.Sprintf("[%s] ", val)
		}
	}

	if timestamp != "" {
		timestamp += " "
	}

	if level != "" {
		level += " "
	}

	if formatter.boolOption(ColorOptName, true) {
		if level != "" {
			level = formatter.colorScheme.LevelColorFunc(log.FromLogrusLevel(entry.Level))(level)
		}

		if prefix != "" {
			prefix = formatter.PrefixStyle.ColorFunc(prefix)(prefix)
		}

		if timestamp != "" {
			timestamp = formatter.colorScheme.ColorFunc(TimestampStyle)(timestamp)
		}
	}

	if _, err := fmt.Fprintf(buf, "%s%s%s%s", timestamp, level, prefix, entry.Message); err != nil {
		return nil, errors.New(err)
	}

	for _, key := range fields.Keys(log.FieldKeyPrefix) {
		if err := formatter.keyValueFormatter.appendKeyValue(buf, key, fields[key], true); err != nil {
			return nil, err
		}
	}

	if err := buf.WriteByte('\n'); err != nil {
		return nil, errors.New(err)
	}

	return buf.Bytes(), nil
}
