package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/util"
)

const (
	retryDelayLockFile = time.Second
	maxRetriesLockFile = 10

	lockFileSuffix = ".lock"
)

// WriteToFile serializes the report to path. The document is written to a
// temporary file first and moved into place afterwards, so readers only ever
// see a complete report. A lock file next to the target path serializes
// concurrent invocations writing to the same report.
func (report *Report) WriteToFile(ctx context.Context, logger log.Logger, path string) error {
	lockfile := util.NewLockfile(path + lockFileSuffix)

	if err := util.DoWithRetry(ctx, "Acquiring lock file "+path+lockFileSuffix, maxRetriesLockFile, retryDelayLockFile, logger, log.DebugLevel, func(ctx context.Context) error {
		return lockfile.TryLock()
	}); err != nil {
		return err
	}
	defer lockfile.Unlock() //nolint:errcheck

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".ci-monitor-report-*")
	if err != nil {
		return errors.New(err)
	}

	if err := report.WriteJSON(tmpFile); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	return util.MoveFile(tmpFile.Name(), path)
}

// WriteJSON writes the report to a writer with sorted keys and 4-space
// indent, matching the format the triage dashboards import.
func (report *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")

	return encoder.Encode(report)
}

// WriteSchema writes a JSON schema for the report to a writer.
func WriteSchema(w io.Writer) error {
	schema := generateReportSchema()

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}

	jsonBytes = append(jsonBytes, '\n')

	_, err = w.Write(jsonBytes)

	return err
}

// SchemaValidationError represents a schema validation error with details.
type SchemaValidationError struct {
	Errors []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed with %d error(s): %v", len(e.Errors), e.Errors)
}

// ValidateJSONReport validates a serialized report against the schema.
// Returns nil if valid, or a SchemaValidationError with details if invalid.
func ValidateJSONReport(data []byte) error {
	schemaBytes, err := json.Marshal(generateReportSchema())
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate report: %w", err)
	}

	if !result.Valid() {
		validationErrors := make([]string, len(result.Errors()))
		for i, validationErr := range result.Errors() {
			validationErrors[i] = validationErr.String()
		}

		return &SchemaValidationError{Errors: validationErrors}
	}

	return nil
}

// ValidateJSONReportFromFile reads and validates a report file against the
// schema.
func ValidateJSONReportFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report file %s: %w", path, err)
	}

	return ValidateJSONReport(data)
}

// generateReportSchema generates the JSON schema for report validation.
func generateReportSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	recordSchema := reflector.Reflect(&FailureRecord{})
	recordSchema.Description = "One failed test occurrence"

	casesSchema := &jsonschema.Schema{
		Type:                 "object",
		Description:          "Failure records keyed by case id",
		AdditionalProperties: recordSchema,
	}

	scriptsSchema := &jsonschema.Schema{
		Type:                 "object",
		Description:          "Failed cases keyed by automation script path",
		AdditionalProperties: casesSchema,
	}

	properties := jsonschema.NewProperties()
	properties.Set("version", &jsonschema.Schema{
		Type:        "string",
		Description: "Release version the monitored runs were executed against",
	})

	return &jsonschema.Schema{
		Type:                 "object",
		Title:                "CI Monitor Triage Report Schema",
		Description:          "Failed test cases grouped by owner and automation script",
		ID:                   "https://github.com/openshift-eng/ci-monitor/schemas/report/v1/schema.json",
		Properties:           properties,
		Required:             []string{"version"},
		AdditionalProperties: scriptsSchema,
	}
}
