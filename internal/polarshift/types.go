package polarshift

import (
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

const (
	// ResultFailed is the record result value marking a failed test case.
	ResultFailed = "Failed"

	// automationScriptFieldKey names the custom field carrying the feature
	// file reference of a test case.
	automationScriptFieldKey = "automation_script"

	profileSeparator = " - "
)

var (
	logURLPattern      = regexp.MustCompile(`https?://\S+`)
	featureFilePattern = regexp.MustCompile(`file: (features.*feature)`)
)

// TestRun is the JSON document produced by polarshift get-run.
type TestRun struct {
	Title   string  `json:"title"`
	Records Records `json:"records"`
}

// Records wraps the record list of a run.
type Records struct {
	TestRecord []TestRecord `json:"TestRecord"`
}

// TestRecord is one test case's result within a run.
type TestRecord struct {
	Result   string   `json:"result"`
	Comment  Comment  `json:"comment"`
	TestCase TestCase `json:"test_case"`
}

// Comment holds the free-form text attached to a record. Failed records
// usually embed the console log link here.
type Comment struct {
	Content string `json:"content"`
}

// TestCase identifies the test case behind a record.
type TestCase struct {
	ID           string       `json:"id"`
	CustomFields CustomFields `json:"customFields"`
}

// CustomFields wraps the custom field list of a test case.
type CustomFields struct {
	Custom []CustomField `json:"Custom"`
}

// CustomField is one key/value pair. The value blob's shape varies by field,
// so it is kept untyped here and decoded on access.
type CustomField struct {
	Key   string         `json:"key"`
	Value map[string]any `json:"value"`
}

// FieldValue is the decoded shape of a text-valued custom field.
type FieldValue struct {
	Content string `mapstructure:"content"`
}

// Content returns the text content of the custom field named key.
func (fields CustomFields) Content(key string) (string, error) {
	for _, field := range fields.Custom {
		if field.Key != key {
			continue
		}

		var value FieldValue
		if err := mapstructure.Decode(field.Value, &value); err != nil {
			return "", errors.New(err)
		}

		return value.Content, nil
	}

	return "", errors.New(MissingCustomFieldError{Key: key})
}

// Profile returns the target platform label embedded in the run title, the
// text after the last " - " separator.
func (run *TestRun) Profile() (string, error) {
	idx := strings.LastIndex(run.Title, profileSeparator)
	if idx < 0 {
		return "", errors.New(MalformedTitleError{Title: run.Title})
	}

	return run.Title[idx+len(profileSeparator):], nil
}

// FailedRecords returns the run's records whose result is "Failed", in
// document order.
func (run *TestRun) FailedRecords() []TestRecord {
	var failed []TestRecord

	for _, record := range run.Records.TestRecord {
		if record.Result == ResultFailed {
			failed = append(failed, record)
		}
	}

	return failed
}

// LogURL returns the first http(s) link in the record's comment, or the
// empty string when the comment carries none.
func (record *TestRecord) LogURL() string {
	return logURLPattern.FindString(record.Comment.Content)
}

// AutomationScript returns the feature file path referenced by the test
// case's automation_script custom field.
func (record *TestRecord) AutomationScript() (string, error) {
	content, err := record.TestCase.CustomFields.Content(automationScriptFieldKey)
	if err != nil {
		var missingErr MissingCustomFieldError
		if errors.As(err, &missingErr) {
			missingErr.CaseID = record.TestCase.ID

			return "", errors.New(missingErr)
		}

		return "", err
	}

	match := featureFilePattern.FindStringSubmatch(content)
	if match == nil {
		return "", errors.New(MissingFeatureFileError{CaseID: record.TestCase.ID})
	}

	return match[1], nil
}
