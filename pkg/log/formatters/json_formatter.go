package formatters

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

const (
	JSONFormatterName = "json"

	reservedJSONFields = 4
)

// JSONFormatter implements log.Formatter
var _ log.Formatter = new(JSONFormatter)

// JSONFormatter formats entries as parsable JSON, one object per line.
type JSONFormatter struct {
	CommonFormatter

	// DisableHTMLEscape allows disabling html escaping in output.
	DisableHTMLEscape bool

	// PrettyPrint will indent all json logs.
	PrettyPrint bool
}

// NewJSONFormatter returns a new JSONFormatter instance with default values.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{
		CommonFormatter: CommonFormatter{
			TimestampFormat:  time.RFC3339,
			name:             JSONFormatterName,
			supportedOptions: []string{TimeOptName},
		},
	}
}

// Format implements logrus.Formatter
func (formatter *JSONFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	data := make(log.Fields, len(entry.Data)+reservedJSONFields)

	for key, value := range entry.Data {
		switch value := value.(type) {
		case error:
			// Otherwise errors are ignored by `encoding/json`
			// https://github.com/sirupsen/logrus/issues/137
			data[key] = value.Error()
		default:
			data[key] = value
		}
	}

	if timestamp := formatter.getTimestamp(entry.Time); timestamp != "" {
		data[log.FieldKeyTime] = timestamp
	}

	data[log.FieldKeyLevel] = log.FromLogrusLevel(entry.Level).String()
	data[log.FieldKeyMsg] = entry.Message

	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(!formatter.DisableHTMLEscape)

	if formatter.PrettyPrint {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(data); err != nil {
		return nil, errors.Errorf("failed to marshal fields to JSON: %w", err)
	}

	return buf.Bytes(), nil
}
