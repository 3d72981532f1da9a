package main

import (
	"context"
	"os"

	"github.com/openshift-eng/ci-monitor/cli"
	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/exec"
	"github.com/openshift-eng/ci-monitor/options"
)

// The main entrypoint for ci-monitor
func main() {
	opts := options.NewMonitorOptions()

	defer errors.Recover(checkForErrorsAndExit(opts))

	app := cli.NewApp(opts)
	err := app.RunContext(context.Background(), os.Args)

	checkForErrorsAndExit(opts)(err)
}

// If there is an error, display it in the console and exit with a non-zero
// exit code. Otherwise, exit 0.
func checkForErrorsAndExit(opts *options.MonitorOptions) func(error) {
	return func(err error) {
		if err == nil {
			os.Exit(0)
		}

		logger := opts.Logger

		logger.Error(err.Error())

		if errStack := errors.ErrorStack(err); errStack != "" {
			logger.Trace(errStack)
		}

		exitCode, exitCodeErr := exec.GetExitCode(err)
		if exitCodeErr != nil {
			exitCode = 1
		}

		os.Exit(exitCode)
	}
}
