package cli

import (
	goversion "github.com/hashicorp/go-version"
	"github.com/urfave/cli/v2"

	"github.com/openshift-eng/ci-monitor/internal/cache"
	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/monitor"
	"github.com/openshift-eng/ci-monitor/internal/telemetry"
	"github.com/openshift-eng/ci-monitor/options"
)

const (
	CommandNameRun = "run"

	FlagNameRuns          = "runs"
	FlagNameOutput        = "output"
	FlagNameReportVersion = "version"
	FlagNameWorkspace     = "workspace"
	FlagNamePolarshiftCmd = "polarshift-cmd"
	FlagNameDownloadDir   = "download-dir"
	FlagNameParallelism   = "parallelism"
	FlagNameNoFetchLogs   = "no-fetch-logs"
)

func newRunCommand(opts *options.MonitorOptions) *cli.Command {
	return &cli.Command{
		Name:      CommandNameRun,
		Usage:     "Retrieve the given test runs and aggregate their failed cases into a report.",
		UsageText: appName + " run --runs <id> [--runs <id>...] --version <report-version>",
		Flags:     runFlags(),
		Action:    runAction(opts),
	}
}

func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    FlagNameRuns,
			Aliases: []string{"r"},
			EnvVars: []string{"CI_MONITOR_RUNS"},
			Usage:   "Test run id to triage. Repeat the flag or separate ids with commas.",
		},
		&cli.StringFlag{
			Name:    FlagNameOutput,
			Aliases: []string{"o"},
			EnvVars: []string{"CI_MONITOR_OUTPUT"},
			Usage:   "Report destination path. Defaults to <YYYYMMDD>.json in the working directory.",
		},
		&cli.StringFlag{
			Name:    FlagNameReportVersion,
			EnvVars: []string{"CI_MONITOR_VERSION"},
			Usage:   "Version string recorded in the report, e.g. the payload under test.",
		},
		&cli.StringFlag{
			Name:    FlagNameWorkspace,
			EnvVars: []string{"CI_MONITOR_WORKSPACE"},
			Usage:   "Path to the verification-tests checkout. Defaults to $" + options.WorkspaceEnvVar + ".",
		},
		&cli.StringFlag{
			Name:    FlagNamePolarshiftCmd,
			EnvVars: []string{"CI_MONITOR_POLARSHIFT_CMD"},
			Usage:   "Command line used to invoke polarshift. Defaults to " + options.DefaultPolarshiftScript + " in the workspace.",
		},
		&cli.StringFlag{
			Name:    FlagNameDownloadDir,
			EnvVars: []string{"CI_MONITOR_DOWNLOAD_DIR"},
			Usage:   "Directory polarshift downloads run documents into. Defaults to a temporary directory.",
		},
		&cli.IntFlag{
			Name:    FlagNameParallelism,
			EnvVars: []string{"CI_MONITOR_PARALLELISM"},
			Usage:   "Number of records triaged concurrently within a run.",
			Value:   options.DefaultParallelism,
		},
		&cli.BoolFlag{
			Name:    FlagNameNoFetchLogs,
			EnvVars: []string{"CI_MONITOR_NO_FETCH_LOGS"},
			Usage:   "Skip console log download and known-issue classification.",
		},
	}
}

func runAction(opts *options.MonitorOptions) cli.ActionFunc {
	return errors.WithPanicHandling(func(cliCtx *cli.Context) error {
		if args := cliCtx.Args(); args.Present() {
			return errors.New(UnexpectedArgsError{Args: args.Slice()})
		}

		opts.RunIDs = cliCtx.StringSlice(FlagNameRuns)
		opts.OutputPath = cliCtx.String(FlagNameOutput)
		opts.ReportVersion = cliCtx.String(FlagNameReportVersion)
		opts.WorkspaceDir = cliCtx.String(FlagNameWorkspace)
		opts.PolarshiftCommand = cliCtx.String(FlagNamePolarshiftCmd)
		opts.DownloadDir = cliCtx.String(FlagNameDownloadDir)
		opts.Parallelism = cliCtx.Int(FlagNameParallelism)
		opts.FetchLogs = !cliCtx.Bool(FlagNameNoFetchLogs)

		if len(opts.RunIDs) == 0 {
			if cliCtx.NumFlags() == 0 {
				return cli.ShowAppHelp(cliCtx)
			}

			return errors.New(MissingFlagError{Flag: FlagNameRuns})
		}

		if opts.ReportVersion == "" {
			return errors.New(MissingFlagError{Flag: FlagNameReportVersion})
		}

		if _, err := goversion.NewVersion(opts.ReportVersion); err != nil {
			opts.Logger.Warnf("Report version %q is not a semantic version, writing it to the report as-is", opts.ReportVersion)
		}

		if err := opts.Normalize(); err != nil {
			return err
		}

		telemeter, err := telemetry.NewTelemeter(cliCtx.Context, appName, cliCtx.App.Version, opts.ErrWriter, telemetry.NewOptionsFromEnv(opts.Env))
		if err != nil {
			return err
		}

		ctx := telemetry.ContextWithTelemeter(cliCtx.Context, telemeter)
		ctx = cache.ContextWithCache(ctx)

		defer func() {
			if err := telemeter.Shutdown(ctx); err != nil {
				opts.Logger.Warnf("Failed to shut down telemetry: %v", err)
			}
		}()

		mon, err := monitor.NewMonitor(opts)
		if err != nil {
			return err
		}

		return mon.RunAndReport(ctx)
	})
}
