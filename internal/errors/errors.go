// Package errors contains helper functions for wrapping errors with stack
// traces, unwrapping error trees, and panic recovery.
package errors

import (
	"fmt"

	goerrors "github.com/go-errors/errors"
	"github.com/urfave/cli/v2"
)

// New returns the given value as an error that carries a stack trace. If the
// value is already an error with a stack trace somewhere in its tree, it is
// returned unchanged to avoid nesting traces.
func New(val any) error {
	if val == nil {
		return nil
	}

	err, ok := val.(error)
	if !ok {
		err = fmt.Errorf("%v", val)
	}

	if ContainsStackTrace(err) {
		return err
	}

	return goerrors.Wrap(err, 1)
}

// Errorf creates a new error and wraps it in an Error type that contains the stack trace.
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)

	if ContainsStackTrace(err) {
		return err
	}

	return goerrors.Wrap(err, 1)
}

// Recover tries to recover from panics, and if it succeeds, calls the given onPanic function with an error that
// explains the cause of the panic. This function should only be called from a defer statement.
func Recover(onPanic func(cause error)) {
	if rec := recover(); rec != nil {
		err, isError := rec.(error)
		if !isError {
			err = fmt.Errorf("%v", rec)
		}

		onPanic(New(err))
	}
}

// WithPanicHandling wraps a *cli.App command action to handle panics by converting them into an
// error with a stack trace returned up the chain.
func WithPanicHandling(action func(ctx *cli.Context) error) func(ctx *cli.Context) error {
	return func(ctx *cli.Context) (err error) {
		defer Recover(func(cause error) {
			err = cause
		})

		return action(ctx)
	}
}
