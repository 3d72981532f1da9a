// Package cli assembles the ci-monitor command-line application: the global
// logging flags, the default run command and the rules/report utilities.
package cli

import (
	"io"
	"os"

	"github.com/gruntwork-io/go-commons/version"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/options"
	"github.com/openshift-eng/ci-monitor/pkg/log"
	"github.com/openshift-eng/ci-monitor/pkg/log/formatters"
)

const (
	appName = "ci-monitor"

	FlagNameLogLevel   = "log-level"
	FlagNameLogFormat  = "log-format"
	FlagNameNoColor    = "no-color"
	FlagNameWorkingDir = "working-dir"
)

func init() {
	// The report version owns the --version flag name, so the urfave
	// built-in moves out of the way.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "app-version",
		Usage: "Print the ci-monitor version.",
	}
}

// NewApp creates the ci-monitor CLI app. Invoking the app without a command
// behaves like the run command.
func NewApp(opts *options.MonitorOptions) *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Usage = "Triage the failed cases of CI test runs into a per-owner report."
	app.UsageText = appName + " [global options] <command> [command options]"
	app.Version = version.GetVersion()
	app.Writer = opts.Writer
	app.ErrWriter = opts.ErrWriter
	app.Flags = append(globalFlags(), runFlags()...)
	app.Before = beforeRunningCommand(opts)
	app.Commands = []*cli.Command{
		newRunCommand(opts),
		newRulesCommand(opts),
		newReportCommand(opts),
	}
	app.Action = runAction(opts)
	// Errors are rendered and converted to exit codes by main.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	return app
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagNameLogLevel,
			EnvVars: []string{"CI_MONITOR_LOG_LEVEL"},
			Usage:   "Log level. Supported levels: " + log.AllLevels.String() + ".",
		},
		&cli.StringFlag{
			Name:    FlagNameLogFormat,
			EnvVars: []string{"CI_MONITOR_LOG_FORMAT"},
			Usage:   "Log format, optionally with options, e.g. \"pretty,no-color\". Supported formats: " + formatters.AllFormatters().String() + ".",
		},
		&cli.BoolFlag{
			Name:    FlagNameNoColor,
			EnvVars: []string{"CI_MONITOR_NO_COLOR"},
			Usage:   "Disable color output.",
		},
		&cli.StringFlag{
			Name:    FlagNameWorkingDir,
			EnvVars: []string{"CI_MONITOR_WORKING_DIR"},
			Usage:   "Directory that relative paths are resolved against.",
		},
	}
}

// beforeRunningCommand applies the global flags to the options shared by all
// commands before any command action runs.
func beforeRunningCommand(opts *options.MonitorOptions) cli.BeforeFunc {
	return func(cliCtx *cli.Context) error {
		if levelStr := cliCtx.String(FlagNameLogLevel); levelStr != "" {
			level, err := log.ParseLevel(levelStr)
			if err != nil {
				return errors.New(err)
			}

			opts.LogLevel = level
		}

		opts.NoColor = cliCtx.Bool(FlagNameNoColor) || !isWriterTerminal(opts.Writer)

		formatter, err := parseLogFormat(cliCtx.String(FlagNameLogFormat), opts.NoColor)
		if err != nil {
			return err
		}

		opts.Logger.SetOptions(log.WithLevel(opts.LogLevel), log.WithFormatter(formatter))
		opts.Logger = opts.Logger.WithField(log.FieldKeyInvocationID, opts.InvocationID)

		opts.WorkingDir = cliCtx.String(FlagNameWorkingDir)

		return nil
	}
}

func isWriterTerminal(writer io.Writer) bool {
	if file, ok := writer.(*os.File); ok {
		return isatty.IsTerminal(file.Fd())
	}

	return false
}

func parseLogFormat(format string, noColor bool) (log.Formatter, error) {
	if format == "" {
		format = formatters.NewPrettyFormatter().Name()
	}

	formatter, err := formatters.ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if noColor {
		// Only the pretty format knows the color option; the others are
		// colorless to begin with.
		_ = formatter.SetOption(formatters.ColorOptName, false)
	}

	return formatter, nil
}
