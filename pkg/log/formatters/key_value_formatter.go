package formatters

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

const KeyValueFormatterName = "key-value"

// KeyValueFormatter implements log.Formatter
var _ log.Formatter = new(KeyValueFormatter)

// KeyValueFormatter renders the entire entry in key=value form, quoting
// values that contain characters unsafe for later splitting.
type KeyValueFormatter struct {
	CommonFormatter

	// QuoteEmptyFields wraps empty fields in quotes if true.
	QuoteEmptyFields bool
}

// NewKeyValueFormatter returns a new KeyValueFormatter instance with default values.
func NewKeyValueFormatter() *KeyValueFormatter {
	return &KeyValueFormatter{
		CommonFormatter: CommonFormatter{
			TimestampFormat:  time.RFC3339,
			name:             KeyValueFormatterName,
			supportedOptions: []string{TimeOptName, LevelOptName},
		},
	}
}

// Format implements logrus.Formatter
func (formatter *KeyValueFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	buf := entry.Buffer
	if buf == nil {
		buf = new(bytes.Buffer)
	}

	fields := log.Fields(entry.Data)

	if timestamp := formatter.getTimestamp(entry.Time); timestamp != "" {
		if err := formatter.appendKeyValue(buf, log.FieldKeyTime, timestamp, false); err != nil {
			return nil, err
		}
	}

	if level := formatter.getLevel(log.FromLogrusLevel(entry.Level)); level != "" {
		if err := formatter.appendKeyValue(buf, log.FieldKeyLevel, strings.TrimSpace(level), true); err != nil {
			return nil, err
		}
	}

	if val, ok := fields[log.FieldKeyPrefix]; ok && val != nil {
		if val, ok := val.(string); ok && val != "" {
			if err := formatter.appendKeyValue(buf, log.FieldKeyPrefix, val, true); err != nil {
				return nil, err
			}
		}
	}

	if err := formatter.appendKeyValue(buf, log.FieldKeyMsg, entry.Message, true); err != nil {
		return nil, err
	}

	for _, key := range fields.Keys(log.FieldKeyPrefix) {
		if err := formatter.appendKeyValue(buf, key, fields[key], true); err != nil {
			return nil, err
		}
	}

	if err := buf.WriteByte('\n'); err != nil {
		return nil, errors.New(err)
	}

	return buf.Bytes(), nil
}

func (formatter *KeyValueFormatter) appendKeyValue(buf *bytes.Buffer, key string, value any, prependSpace bool) error {
	if prependSpace && buf.Len() > 0 {
		if err := buf.WriteByte(' '); err != nil {
			return errors.New(err)
		}
	}

	if _, err := buf.WriteString(key); err != nil {
		return errors.New(err)
	}

	if err := buf.WriteByte('='); err != nil {
		return errors.New(err)
	}

	return formatter.appendValue(buf, value)
}

func (formatter *KeyValueFormatter) appendValue(buf *bytes.Buffer, value any) error {
	str, ok := value.(string)
	if !ok {
		str = fmt.Sprint(value)
	}

	if !formatter.needsQuoting(str) {
		if _, err := buf.WriteString(str); err != nil {
			return errors.New(err)
		}

		return nil
	}

	if _, err := buf.WriteString(fmt.Sprintf("%q", str)); err != nil {
		return errors.New(err)
	}

	return nil
}

func (formatter *KeyValueFormatter) needsQuoting(text string) bool {
	if formatter.QuoteEmptyFields && len(text) == 0 {
		return true
	}

	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.' || ch == '_' || ch == '/' || ch == '@' || ch == '^' || ch == '+') {
			return true
		}
	}

	return false
}
