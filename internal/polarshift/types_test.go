package polarshift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/polarshift"
)

func TestProfileExtraction(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title           string
		expectedProfile string
		expectedErr     bool
	}{
		{
			title:           "Nightly 4.14 - aws-ipi",
			expectedProfile: "aws-ipi",
		},
		{
			title:           "4.19 - IPI day2 - vsphere-upi",
			expectedProfile: "vsphere-upi",
		},
		{
			title:       "Nightly 4.14 without separator",
			expectedErr: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.title, func(t *testing.T) {
			t.Parallel()

			run := &polarshift.TestRun{Title: testCase.title}

			profile, err := run.Profile()
			if testCase.expectedErr {
				require.Error(t, err)

				var titleErr polarshift.MalformedTitleError
				assert.True(t, errors.As(err, &titleErr))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expectedProfile, profile)
		})
	}
}

func TestLogURLExtraction(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		comment     string
		expectedURL string
	}{
		{
			name:        "link embedded in text",
			comment:     "console log: https://ci.example.com/artifacts/19743/console.log please triage",
			expectedURL: "https://ci.example.com/artifacts/19743/console.log",
		},
		{
			name:        "plain http link",
			comment:     "http://ci.example.com/log.txt",
			expectedURL: "http://ci.example.com/log.txt",
		},
		{
			name:        "no link",
			comment:     "failed during setup, no artifacts",
			expectedURL: "",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			record := &polarshift.TestRecord{Comment: polarshift.Comment{Content: testCase.comment}}
			assert.Equal(t, testCase.expectedURL, record.LogURL())
		})
	}
}

func TestAutomationScriptExtraction(t *testing.T) {
	t.Parallel()

	record := &polarshift.TestRecord{
		TestCase: polarshift.TestCase{
			ID: "OCP-12345",
			CustomFields: polarshift.CustomFields{
				Custom: []polarshift.CustomField{
					{
						Key: "caseimportance",
						Value: map[string]any{
							"content": "critical",
						},
					},
					{
						Key: "automation_script",
						Value: map[string]any{
							"content": "source: verification-tests\nfile: features/upgrade/cluster.feature",
							"type":    "text/plain",
						},
					},
				},
			},
		},
	}

	script, err := record.AutomationScript()
	require.NoError(t, err)
	assert.Equal(t, "features/upgrade/cluster.feature", script)
}

func TestAutomationScriptMissingField(t *testing.T) {
	t.Parallel()

	record := &polarshift.TestRecord{
		TestCase: polarshift.TestCase{ID: "OCP-12345"},
	}

	_, err := record.AutomationScript()
	require.Error(t, err)

	var missingErr polarshift.MissingCustomFieldError
	require.True(t, errors.As(err, &missingErr))
	assert.Equal(t, "OCP-12345", missingErr.CaseID)
}

func TestAutomationScriptWithoutFeatureFile(t *testing.T) {
	t.Parallel()

	record := &polarshift.TestRecord{
		TestCase: polarshift.TestCase{
			ID: "OCP-12345",
			CustomFields: polarshift.CustomFields{
				Custom: []polarshift.CustomField{
					{
						Key: "automation_script",
						Value: map[string]any{
							"content": "not automated yet",
						},
					},
				},
			},
		},
	}

	_, err := record.AutomationScript()
	require.Error(t, err)

	var featureErr polarshift.MissingFeatureFileError
	require.True(t, errors.As(err, &featureErr))
	assert.Equal(t, "OCP-12345", featureErr.CaseID)
}

func TestFailedRecords(t *testing.T) {
	t.Parallel()

	run := &polarshift.TestRun{
		Records: polarshift.Records{
			TestRecord: []polarshift.TestRecord{
				{Result: "Passed", TestCase: polarshift.TestCase{ID: "OCP-1"}},
				{Result: "Failed", TestCase: polarshift.TestCase{ID: "OCP-2"}},
				{Result: "Blocked", TestCase: polarshift.TestCase{ID: "OCP-3"}},
				{Result: "Failed", TestCase: polarshift.TestCase{ID: "OCP-4"}},
			},
		},
	}

	failed := run.FailedRecords()
	require.Len(t, failed, 2)
	assert.Equal(t, "OCP-2", failed[0].TestCase.ID)
	assert.Equal(t, "OCP-4", failed[1].TestCase.ID)
}
