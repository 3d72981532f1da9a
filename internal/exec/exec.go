// Package exec runs external commands and captures their output.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/telemetry"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/pkg/maps"
)

// CmdOutput holds the captured output streams of a finished command.
type CmdOutput struct {
	Stdout bytes.Buffer
	Stderr bytes.Buffer
}

// RunOptions contains the configuration needed to run external commands.
type RunOptions struct {
	// Env is merged over the current process environment.
	Env map[string]string

	// WorkingDir is the directory the command is executed in. The current
	// directory is assumed if empty.
	WorkingDir string
}

// RunCommandWithOutput runs the specified command with the specified arguments, capturing its
// stdout and stderr. The command is killed when the context is canceled.
func RunCommandWithOutput(ctx context.Context, logger log.Logger, runOpts *RunOptions, command string, args ...string) (*CmdOutput, error) {
	output := CmdOutput{}

	err := telemetry.TelemeterFromContext(ctx).Collect(ctx, "run_"+command, map[string]any{
		"command": command,
		"args":    fmt.Sprintf("%v", args),
		"dir":     runOpts.WorkingDir,
	}, func(ctx context.Context) error {
		logger.Debugf("Running command: %s %s", command, strings.Join(args, " "))

		if len(runOpts.Env) > 0 {
			logger.Tracef("Command environment overrides: %s", maps.Join(runOpts.Env, " ", "="))
		}

		cmd := exec.CommandContext(ctx, command, args...)
		cmd.Dir = runOpts.WorkingDir
		cmd.Stdout = &output.Stdout
		cmd.Stderr = &output.Stderr
		cmd.Env = append(os.Environ(), maps.Slice(runOpts.Env, "=")...)

		if err := cmd.Run(); err != nil {
			return errors.New(ProcessExecutionError{
				Err:        err,
				Output:     output,
				Command:    command,
				Args:       args,
				WorkingDir: runOpts.WorkingDir,
			})
		}

		return nil
	})

	return &output, err
}
