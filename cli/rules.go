package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/openshift-eng/ci-monitor/internal/errors"
	"github.com/openshift-eng/ci-monitor/internal/issues"
	"github.com/openshift-eng/ci-monitor/options"
)

const CommandNameRules = "rules"

func newRulesCommand(opts *options.MonitorOptions) *cli.Command {
	return &cli.Command{
		Name:  CommandNameRules,
		Usage: "Print the known-issue rules in evaluation order.",
		Action: errors.WithPanicHandling(func(cliCtx *cli.Context) error {
			return printRules(opts, issues.DefaultRules())
		}),
	}
}

func printRules(opts *options.MonitorOptions, rules []issues.Rule) error {
	for i, rule := range rules {
		if i > 0 {
			if _, err := fmt.Fprintln(opts.Writer); err != nil {
				return errors.New(err)
			}
		}

		if _, err := fmt.Fprintf(opts.Writer, "%s\n  %s\n", rule.Name, rule.Description); err != nil {
			return errors.New(err)
		}

		for _, pattern := range rule.Patterns {
			if _, err := fmt.Fprintf(opts.Writer, "    %s\n", pattern); err != nil {
				return errors.New(err)
			}
		}
	}

	return nil
}
