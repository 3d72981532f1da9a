// Package polarshift retrieves run data from the test-management service by
// invoking the external polarshift CLI and parsing the JSON document it
// downloads. The CLI invocation is overridable so tests and air-gapped
// environments can substitute their own retrieval command.
package polarshift

import (
	"context"
	"encoding/json"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/shlex"

	"github.com/openshift-eng/ci-monitor/internal/cache"
	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/exec"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/util"
)

// Client invokes the polarshift CLI to download run data.
type Client struct {
	argv        []string
	downloadDir string
	env         map[string]string
	logger      log.Logger
}

// NewClient parses commandLine into the argv prefix of the polarshift
// invocation. commandLine uses shell quoting, e.g.
// "ruby /workspace/tools/polarshift.rb". Downloaded run documents are placed
// in downloadDir; env is merged into the CLI's environment.
func NewClient(logger log.Logger, commandLine, downloadDir string, env map[string]string) (*Client, error) {
	argv, err := shlex.Split(commandLine)
	if err != nil {
		return nil, errors.Errorf("failed to parse polarshift command %q: %w", commandLine, err)
	}

	if len(argv) == 0 {
		return nil, errors.Errorf("polarshift command is empty")
	}

	return &Client{
		argv:        argv,
		downloadDir: downloadDir,
		env:         env,
		logger:      logger,
	}, nil
}

// GetRun downloads and parses the run document for runID. The raw document
// is memoized in the invocation's context cache, so a run id named several
// times is downloaded once. A non-zero CLI exit or a malformed document is a
// hard error; nothing is retried.
func (client *Client) GetRun(ctx context.Context, runID string) (*TestRun, error) {
	outputPath := filepath.Join(client.downloadDir, runID+".json")

	args := append(slices.Clone(client.argv[1:]), "get-run", runID, "-o", outputPath)
	cacheKey := strings.Join(append(slices.Clone(client.argv), "get-run", runID), " ")

	runCmdCache := cache.ContextCache[string](ctx, cache.RunCmdCacheContextKey)

	if data, found := runCmdCache.Get(ctx, cacheKey); found {
		return parseTestRun(data)
	}

	if _, err := exec.RunCommandWithOutput(ctx, client.logger, &exec.RunOptions{Env: client.env}, client.argv[0], args...); err != nil {
		return nil, errors.Errorf("failed to retrieve run %s: %w", runID, err)
	}

	data, err := util.ReadFileAsString(outputPath)
	if err != nil {
		return nil, errors.Errorf("polarshift did not produce %s: %w", outputPath, err)
	}

	runCmdCache.Put(ctx, cacheKey, data)

	return parseTestRun(data)
}

func parseTestRun(data string) (*TestRun, error) {
	var run TestRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, errors.Errorf("malformed run data: %w", err)
	}

	return &run, nil
}
