package report

// OwnerNotFound keys failures whose author could not be resolved.
const OwnerNotFound = "Not found"

// FailureRecord represents one failed test occurrence. Field order matches
// the sorted key order of the serialized form.
type FailureRecord struct {
	// CaseID is the test case identifier in the test-management system.
	CaseID string `json:"case" jsonschema:"required"`
	// KnownIssues lists the recognized failure signatures, classifier order.
	// Absent when no rule matched.
	KnownIssues []string `json:"known_issues,omitempty"`
	// LogURL points at the console log of the failure, null when the record
	// carried no link.
	LogURL *string `json:"logs" jsonschema:"required,oneof_type=string;null"`
	// Profile is the target platform label of the run, shared by all records
	// in that run.
	Profile string `json:"profile" jsonschema:"required"`
}

// NewFailureRecord creates a record without a log link.
func NewFailureRecord(caseID, profile string) *FailureRecord {
	return &FailureRecord{CaseID: caseID, Profile: profile}
}

// SetLogURL attaches the console log link to the record.
func (record *FailureRecord) SetLogURL(url string) {
	record.LogURL = &url
}
