package formatters_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/pkg/log/formatters"
)

func newEntry(message string, fields logrus.Fields) *logrus.Entry {
	return &logrus.Entry{
		Time:    time.Date(2026, time.August, 23, 10, 0, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: message,
		Data:    fields,
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		str          string
		expectedName string
		expectedErr  string
	}{
		{"pretty", formatters.PrettyFormatterName, ""},
		{"key-value", formatters.KeyValueFormatterName, ""},
		{"json", formatters.JSONFormatterName, ""},
		{"pretty,no-color", formatters.PrettyFormatterName, ""},
		{"pretty, level:short", formatters.PrettyFormatterName, ""},
		{"bare-metal", "", "invalid format"},
		{"json,color", "", "invalid option"},
		{"", "", "invalid format"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.str, func(t *testing.T) {
			t.Parallel()

			formatter, err := formatters.ParseFormat(testCase.str)
			if testCase.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expectedName, formatter.Name())
		})
	}
}

func TestPrettyFormatterOutput(t *testing.T) {
	t.Parallel()

	formatter, err := formatters.ParseFormat("pretty,no-color")
	require.NoError(t, err)

	out, err := formatter.Format(newEntry("processing record", logrus.Fields{"case": "OCP-12345"}))
	require.NoError(t, err)
	assert.Equal(t, "10:00:00.000 INFO   processing record case=OCP-12345\n", string(out))

	out, err = formatter.Format(newEntry("fetching log", logrus.Fields{"prefix": "19743"}))
	require.NoError(t, err)
	assert.Equal(t, "10:00:00.000 INFO   [19743] fetching log\n", string(out))
}

func TestPrettyFormatterColorsByDefault(t *testing.T) {
	t.Parallel()

	out, err := formatters.NewPrettyFormatter().Format(newEntry("hello", nil))
	require.NoError(t, err)
	assert.Contains(t, string(out), "\x1b[")
}

func TestPrettyFormatterShortLevelWithoutTime(t *testing.T) {
	t.Parallel()

	formatter, err := formatters.ParseFormat("pretty,no-color,level:short,no-time")
	require.NoError(t, err)

	out, err := formatter.Format(newEntry("hello", nil))
	require.NoError(t, err)
	assert.Equal(t, "I hello\n", string(out))
}

func TestKeyValueFormatterOutput(t *testing.T) {
	t.Parallel()

	formatter, err := formatters.ParseFormat("key-value")
	require.NoError(t, err)

	out, err := formatter.Format(newEntry("report written", logrus.Fields{"run": "19743"}))
	require.NoError(t, err)
	assert.Equal(t, `time="2026-08-23T10:00:00Z" level=INFO msg="report written" run=19743`+"\n", string(out))
}

func TestJSONFormatterOutput(t *testing.T) {
	t.Parallel()

	formatter, err := formatters.ParseFormat("json")
	require.NoError(t, err)

	out, err := formatter.Format(newEntry("report written", logrus.Fields{"run": "19743"}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "info", decoded["level"])
	assert.Equal(t, "report written", decoded["msg"])
	assert.Equal(t, "19743", decoded["run"])
	assert.Equal(t, "2026-08-23T10:00:00Z", decoded["time"])
}
