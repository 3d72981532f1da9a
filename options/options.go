// Package options holds the settings and handles shared by a single
// ci-monitor invocation. A MonitorOptions value is constructed once by the
// CLI layer and threaded explicitly through the orchestration code.
package options

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/pkg/env"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/util"
)

const (
	// Process the records of a run one at a time unless overridden.
	DefaultParallelism = 1

	// Two retries on top of the initial request for truncated log downloads.
	DefaultRetryMaxAttempts = 2

	DefaultRetrySleepInterval = time.Second

	// DefaultPolarshiftScript is resolved relative to the workspace directory.
	DefaultPolarshiftScript = "tools/polarshift.rb"

	// WorkspaceEnvVar points at the local verification-tests checkout.
	WorkspaceEnvVar = "BUSHSLICER_HOME"

	reportFileDateLayout = "20060102"

	defaultLogLevel = log.InfoLevel
)

// MonitorOptions carries everything one triage invocation needs.
type MonitorOptions struct {
	// RunIDs are the test run identifiers to triage.
	RunIDs []string

	// OutputPath is the report destination. Defaults to <YYYYMMDD>.json in the working directory.
	OutputPath string

	// ReportVersion is copied verbatim into the report's version key.
	ReportVersion string

	// WorkingDir is the directory relative paths are resolved against.
	WorkingDir string

	// WorkspaceDir is the verification-tests checkout holding the feature files and the polarshift script.
	WorkspaceDir string

	// PolarshiftCommand is the command line used to invoke polarshift, parsed shell-style.
	PolarshiftCommand string

	// DownloadDir is where polarshift writes the retrieved run documents.
	DownloadDir string

	// Parallelism limits the number of records processed concurrently within a run.
	Parallelism int

	// RetryMaxAttempts is the number of retries after a truncated log download.
	RetryMaxAttempts int

	// RetrySleepInterval is the base delay between log download attempts.
	RetrySleepInterval time.Duration

	// FetchLogs disables the whole known-issue classification stage when false.
	FetchLogs bool

	// NoColor disables ANSI colors in the summary output.
	NoColor bool

	// InvocationID correlates the log lines and telemetry of one invocation.
	InvocationID string

	// Environment variables at runtime
	Env map[string]string

	// Log level
	LogLevel log.Level

	Logger log.Logger

	// If you want stdout to go somewhere other than os.stdout
	Writer io.Writer

	// If you want stderr to go somewhere other than os.stderr
	ErrWriter io.Writer
}

// NewMonitorOptions creates a new MonitorOptions object with reasonable
// defaults for real usage
func NewMonitorOptions() *MonitorOptions {
	return NewMonitorOptionsWithWriters(os.Stdout, os.Stderr)
}

func NewMonitorOptionsWithWriters(stdout, stderr io.Writer) *MonitorOptions {
	return &MonitorOptions{
		RunIDs:             []string{},
		Parallelism:        DefaultParallelism,
		RetryMaxAttempts:   DefaultRetryMaxAttempts,
		RetrySleepInterval: DefaultRetrySleepInterval,
		FetchLogs:          true,
		InvocationID:       uuid.New().String(),
		Env:                env.ParseEnvs(os.Environ()),
		LogLevel:           defaultLogLevel,
		Logger:             log.New(log.WithOutput(stderr), log.WithLevel(defaultLogLevel)),
		Writer:             stdout,
		ErrWriter:          stderr,
	}
}

// Normalize expands and absolutizes paths and fills in the defaults that
// depend on other fields. It must be called once all flags are applied.
func (opts *MonitorOptions) Normalize() error {
	if opts.WorkingDir == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return errors.New(err)
		}

		opts.WorkingDir = currentDir
	}

	workingDir, err := canonicalPath(opts.WorkingDir, "")
	if err != nil {
		return err
	}

	opts.WorkingDir = workingDir

	if opts.OutputPath == "" {
		opts.OutputPath = time.Now().Format(reportFileDateLayout) + ".json"
	}

	outputPath, err := canonicalPath(opts.OutputPath, opts.WorkingDir)
	if err != nil {
		return err
	}

	opts.OutputPath = outputPath

	if opts.WorkspaceDir == "" {
		opts.WorkspaceDir = opts.Env[WorkspaceEnvVar]
	}

	if opts.WorkspaceDir != "" {
		workspaceDir, err := canonicalPath(opts.WorkspaceDir, opts.WorkingDir)
		if err != nil {
			return err
		}

		opts.WorkspaceDir = workspaceDir
	}

	if opts.PolarshiftCommand == "" {
		if opts.WorkspaceDir == "" {
			return errors.New(MissingWorkspaceError{})
		}

		opts.PolarshiftCommand = util.JoinPath(opts.WorkspaceDir, DefaultPolarshiftScript)
	}

	if opts.DownloadDir == "" {
		downloadDir, err := os.MkdirTemp("", "ci-monitor-runs-")
		if err != nil {
			return errors.New(err)
		}

		opts.DownloadDir = downloadDir
	} else {
		downloadDir, err := canonicalPath(opts.DownloadDir, opts.WorkingDir)
		if err != nil {
			return err
		}

		if err := util.EnsureDirectory(downloadDir); err != nil {
			return err
		}

		opts.DownloadDir = downloadDir
	}

	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}

	return nil
}

// canonicalPath expands `~` and resolves the path to an absolute one relative
// to the given base directory.
func canonicalPath(path, basePath string) (string, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return "", errors.New(err)
	}

	return util.CanonicalPath(expandedPath, basePath)
}

// MissingWorkspaceError means neither --workspace nor $BUSHSLICER_HOME was
// provided, so the polarshift script cannot be located.
type MissingWorkspaceError struct{}

func (err MissingWorkspaceError) Error() string {
	return "no workspace directory: set --workspace or the " + WorkspaceEnvVar + " environment variable"
}
