//go:build linux || darwin
// +build linux darwin

package polarshift_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/internal/cache"
	"github.com/openshift-eng/ci-monitor/internal/exec"
	"github.com/openshift-eng/ci-monitor/internal/polarshift"
	"github.com/openshift-eng/ci-monitor/pkg/log"
)

const fakeRunDocument = `{
  "title": "Nightly 4.14 - aws-ipi",
  "records": {
    "TestRecord": [
      {
        "result": "Failed",
        "comment": {"content": "log: https://ci.example.com/artifacts/19743/console.log"},
        "test_case": {
          "id": "OCP-12345",
          "customFields": {
            "Custom": [
              {"key": "automation_script", "value": {"content": "file: features/upgrade/cluster.feature"}}
            ]
          }
        }
      },
      {
        "result": "Passed",
        "comment": {"content": ""},
        "test_case": {"id": "OCP-2", "customFields": {"Custom": []}}
      }
    ]
  }
}`

// writeFakePolarshift creates a stand-in for the polarshift CLI that records
// its invocations and writes document to the path given after -o.
func writeFakePolarshift(t *testing.T, dir, document string, exitCode int) (string, string) {
	t.Helper()

	callLogPath := filepath.Join(dir, "calls.log")
	cliPath := filepath.Join(dir, "polarshift.sh")

	script := fmt.Sprintf(`#!/bin/sh
echo "$@" >> %q
cat > "$4" <<'POLARSHIFT_EOF'
%s
POLARSHIFT_EOF
exit %d
`, callLogPath, document, exitCode)

	require.NoError(t, os.WriteFile(cliPath, []byte(script), 0755))

	return cliPath, callLogPath
}

func countCalls(t *testing.T, callLogPath string) int {
	t.Helper()

	data, err := os.ReadFile(callLogPath)
	if os.IsNotExist(err) {
		return 0
	}

	require.NoError(t, err)

	return len(strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func testLogger() log.Logger {
	return log.New(log.WithOutput(io.Discard))
}

func TestGetRunParsesRunDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cliPath, _ := writeFakePolarshift(t, dir, fakeRunDocument, 0)

	client, err := polarshift.NewClient(testLogger(), "sh "+cliPath, dir, nil)
	require.NoError(t, err)

	ctx := cache.ContextWithCache(context.Background())

	run, err := client.GetRun(ctx, "19743")
	require.NoError(t, err)

	profile, err := run.Profile()
	require.NoError(t, err)
	assert.Equal(t, "aws-ipi", profile)

	failed := run.FailedRecords()
	require.Len(t, failed, 1)
	assert.Equal(t, "OCP-12345", failed[0].TestCase.ID)
	assert.Equal(t, "https://ci.example.com/artifacts/19743/console.log", failed[0].LogURL())

	assert.FileExists(t, filepath.Join(dir, "19743.json"))
}

func TestGetRunMemoizesPerInvocation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cliPath, callLogPath := writeFakePolarshift(t, dir, fakeRunDocument, 0)

	client, err := polarshift.NewClient(testLogger(), cliPath, dir, nil)
	require.NoError(t, err)

	ctx := cache.ContextWithCache(context.Background())

	_, err = client.GetRun(ctx, "19743")
	require.NoError(t, err)
	_, err = client.GetRun(ctx, "19743")
	require.NoError(t, err)

	assert.Equal(t, 1, countCalls(t, callLogPath))

	// A fresh invocation context starts with an empty cache.
	_, err = client.GetRun(cache.ContextWithCache(context.Background()), "19743")
	require.NoError(t, err)

	assert.Equal(t, 2, countCalls(t, callLogPath))
}

func TestGetRunCommandFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cliPath, _ := writeFakePolarshift(t, dir, fakeRunDocument, 7)

	client, err := polarshift.NewClient(testLogger(), cliPath, dir, nil)
	require.NoError(t, err)

	_, err = client.GetRun(cache.ContextWithCache(context.Background()), "19743")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to retrieve run 19743")

	exitCode, exitErr := exec.GetExitCode(err)
	require.NoError(t, exitErr)
	assert.Equal(t, 7, exitCode)
}

func TestGetRunMalformedDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cliPath, _ := writeFakePolarshift(t, dir, "not json at all", 0)

	client, err := polarshift.NewClient(testLogger(), cliPath, dir, nil)
	require.NoError(t, err)

	_, err = client.GetRun(cache.ContextWithCache(context.Background()), "19743")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed run data")
}

func TestNewClientRejectsUnbalancedQuotes(t *testing.T) {
	t.Parallel()

	_, err := polarshift.NewClient(testLogger(), `polarshift "unclosed`, t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse polarshift command")
}

func TestNewClientRejectsEmptyCommand(t *testing.T) {
	t.Parallel()

	_, err := polarshift.NewClient(testLogger(), "   ", t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polarshift command is empty")
}
