// Package report accumulates failed test occurrences into a three-level tree
// keyed by owner, automation script and case id, and serializes it in the
// stable format consumed by the triage dashboards: a single JSON object with
// a top-level version field, sorted keys at every level and 4-space indent.
package report

import (
	"bytes"
	"encoding/json"
	"sync"
)

// CaseFailures maps case ids to their failure records.
type CaseFailures map[string]*FailureRecord

// ScriptFailures maps automation-script paths to their failed cases.
type ScriptFailures map[string]CaseFailures

// Report is the aggregation tree for one invocation. Inserting the same
// (owner, script, case) path twice keeps only the later record.
type Report struct {
	Version string

	mu     sync.RWMutex
	owners map[string]ScriptFailures
}

// NewReport creates an empty report carrying the given version label.
func NewReport(version string) *Report {
	return &Report{
		Version: version,
		owners:  map[string]ScriptFailures{},
	}
}

// Insert places record at report[owner][automationScript][caseID], creating
// intermediate levels as needed and unconditionally overwriting any record
// already stored at that exact path.
func (report *Report) Insert(owner, automationScript, caseID string, record *FailureRecord) {
	report.mu.Lock()
	defer report.mu.Unlock()

	scripts, ok := report.owners[owner]
	if !ok {
		scripts = ScriptFailures{}
		report.owners[owner] = scripts
	}

	cases, ok := scripts[automationScript]
	if !ok {
		cases = CaseFailures{}
		scripts[automationScript] = cases
	}

	cases[caseID] = record
}

// Lookup returns the record stored at the given path, if any.
func (report *Report) Lookup(owner, automationScript, caseID string) (*FailureRecord, bool) {
	report.mu.RLock()
	defer report.mu.RUnlock()

	scripts, ok := report.owners[owner]
	if !ok {
		return nil, false
	}

	cases, ok := scripts[automationScript]
	if !ok {
		return nil, false
	}

	record, ok := cases[caseID]

	return record, ok
}

// MarshalJSON flattens the version field into the same object as the owner
// keys. Map encoding keeps every level sorted; HTML escaping is disabled so
// log URLs stay readable.
func (report *Report) MarshalJSON() ([]byte, error) {
	report.mu.RLock()
	defer report.mu.RUnlock()

	top := make(map[string]any, len(report.owners)+1)
	top["version"] = report.Version

	for owner, scripts := range report.owners {
		top[owner] = scripts
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(top); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
