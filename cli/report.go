package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/report"
	"github.com/openshift-eng/ci-monitor/options"
)

const (
	CommandNameReport         = "report"
	CommandNameReportSchema   = "schema"
	CommandNameReportValidate = "validate"
)

func newReportCommand(opts *options.MonitorOptions) *cli.Command {
	return &cli.Command{
		Name:  CommandNameReport,
		Usage: "Utilities for existing report files.",
		Subcommands: []*cli.Command{
			{
				Name:  CommandNameReportSchema,
				Usage: "Print the JSON schema that report files are validated against.",
				Action: errors.WithPanicHandling(func(cliCtx *cli.Context) error {
					return report.WriteSchema(opts.Writer)
				}),
			},
			{
				Name:      CommandNameReportValidate,
				Usage:     "Validate a report file against the schema.",
				UsageText: appName + " report validate <file>",
				Action: errors.WithPanicHandling(func(cliCtx *cli.Context) error {
					if cliCtx.NArg() != 1 {
						return errors.New(MissingReportPathError{})
					}

					path := cliCtx.Args().First()
					if err := report.ValidateJSONReportFromFile(path); err != nil {
						return err
					}

					opts.Logger.Infof("Report %s conforms to the schema", path)

					return nil
				}),
			},
		},
	}
}
