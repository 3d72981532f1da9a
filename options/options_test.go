package options_test

import (
	"path/filepath"
	"testing"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/options"
	"github.com/openshift-eng/ci-monitor/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	workingDir := t.TempDir()
	workspaceDir := t.TempDir()

	opts := options.NewMonitorOptions()
	opts.WorkingDir = workingDir
	opts.Env = map[string]string{options.WorkspaceEnvVar: workspaceDir}

	require.NoError(t, opts.Normalize())

	assert.Equal(t, util.CleanPath(workingDir), opts.WorkingDir)
	assert.Equal(t, util.CleanPath(workingDir), util.CleanPath(filepath.Dir(opts.OutputPath)))
	assert.Regexp(t, `\d{8}\.json$`, opts.OutputPath)
	assert.Equal(t, util.CleanPath(workspaceDir), opts.WorkspaceDir)
	assert.Equal(t, util.JoinPath(workspaceDir, options.DefaultPolarshiftScript), opts.PolarshiftCommand)
	assert.DirExists(t, opts.DownloadDir)
	assert.Equal(t, options.DefaultParallelism, opts.Parallelism)
	assert.NotEmpty(t, opts.InvocationID)
}

func TestNormalizeResolvesRelativePaths(t *testing.T) {
	t.Parallel()

	workingDir := t.TempDir()

	opts := options.NewMonitorOptions()
	opts.WorkingDir = workingDir
	opts.OutputPath = "reports/triage.json"
	opts.DownloadDir = "downloads"
	opts.PolarshiftCommand = "ruby polarshift.rb"
	opts.Env = map[string]string{}

	require.NoError(t, opts.Normalize())

	assert.Equal(t, util.JoinPath(workingDir, "reports/triage.json"), opts.OutputPath)
	assert.Equal(t, util.JoinPath(workingDir, "downloads"), opts.DownloadDir)
	assert.DirExists(t, opts.DownloadDir)
	assert.Equal(t, "ruby polarshift.rb", opts.PolarshiftCommand)
}

func TestNormalizeRequiresWorkspaceForDefaultCommand(t *testing.T) {
	t.Parallel()

	opts := options.NewMonitorOptions()
	opts.WorkingDir = t.TempDir()
	opts.Env = map[string]string{}

	err := opts.Normalize()
	require.Error(t, err)

	var missingErr options.MissingWorkspaceError
	assert.True(t, errors.As(err, &missingErr))
	assert.Contains(t, err.Error(), options.WorkspaceEnvVar)
}

func TestNormalizeClampsParallelism(t *testing.T) {
	t.Parallel()

	opts := options.NewMonitorOptions()
	opts.WorkingDir = t.TempDir()
	opts.WorkspaceDir = t.TempDir()
	opts.Parallelism = -4

	require.NoError(t, opts.Normalize())
	assert.Equal(t, options.DefaultParallelism, opts.Parallelism)
}
