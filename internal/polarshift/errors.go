package polarshift

import "fmt"

// MalformedTitleError means a run title does not embed a profile label.
type MalformedTitleError struct {
	Title string
}

func (err MalformedTitleError) Error() string {
	return fmt.Sprintf("run title %q does not end in \" - <profile>\"", err.Title)
}

// MissingCustomFieldError means a test case lacks a required custom field.
type MissingCustomFieldError struct {
	CaseID string
	Key    string
}

func (err MissingCustomFieldError) Error() string {
	if err.CaseID == "" {
		return fmt.Sprintf("no custom field %q", err.Key)
	}

	return fmt.Sprintf("test case %s has no custom field %q", err.CaseID, err.Key)
}

// MissingFeatureFileError means the automation_script field of a test case
// does not reference a feature file.
type MissingFeatureFileError struct {
	CaseID string
}

func (err MissingFeatureFileError) Error() string {
	return fmt.Sprintf("automation_script of test case %s does not reference a feature file", err.CaseID)
}
