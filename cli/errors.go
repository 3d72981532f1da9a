package cli

import (
	"fmt"
	"strings"
)

// MissingFlagError means a flag the run command cannot work without was not
// provided.
type MissingFlagError struct {
	Flag string
}

func (err MissingFlagError) Error() string {
	return fmt.Sprintf("required flag --%s is not set", err.Flag)
}

// UnexpectedArgsError means positional arguments were passed where none are
// accepted.
type UnexpectedArgsError struct {
	Args []string
}

func (err UnexpectedArgsError) Error() string {
	return fmt.Sprintf("unexpected arguments: %s (run ids are passed with --%s)", strings.Join(err.Args, " "), FlagNameRuns)
}

// MissingReportPathError means report validate was invoked without the
// report file to check.
type MissingReportPathError struct{}

func (err MissingReportPathError) Error() string {
	return "expected exactly one argument: the report file to validate"
}
