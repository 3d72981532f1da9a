package errors_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift-eng/ci-monitor/internal/errors"
)

func TestNewContainsStackTrace(t *testing.T) {
	t.Parallel()

	err := errors.New("base failure")

	require.Error(t, err)
	assert.EqualError(t, err, "base failure")
	assert.True(t, errors.ContainsStackTrace(err))
	assert.NotEmpty(t, errors.ErrorStack(err))
}

func TestNewDoesNotNestStackTraces(t *testing.T) {
	t.Parallel()

	base := errors.New("base failure")
	wrapped := errors.New(base)

	assert.Equal(t, base, wrapped)
}

func TestNewNil(t *testing.T) {
	t.Parallel()

	assert.NoError(t, errors.New(nil))
}

func TestErrorfWrapsCause(t *testing.T) {
	t.Parallel()

	err := errors.Errorf("fetching logs: %w", io.EOF)

	require.Error(t, err)
	assert.True(t, errors.Is(err, io.EOF))
	assert.EqualError(t, err, "fetching logs: EOF")
}

func TestIsContextCanceled(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsContextCanceled(context.Canceled))
	assert.True(t, errors.IsContextCanceled(errors.Errorf("waiting for runs: %w", context.Canceled)))
	assert.False(t, errors.IsContextCanceled(io.EOF))
}

func TestRecoverConvertsPanic(t *testing.T) {
	t.Parallel()

	var captured error

	func() {
		defer errors.Recover(func(cause error) {
			captured = cause
		})

		panic("boom")
	}()

	require.Error(t, captured)
	assert.Contains(t, captured.Error(), "boom")
	assert.True(t, errors.ContainsStackTrace(captured))
}

func TestMultiError(t *testing.T) {
	t.Parallel()

	var errs *errors.MultiError

	require.NoError(t, errs.ErrorOrNil())

	errs = errs.Append(errors.New("first"))
	errs = errs.Append(errors.New("second"), errors.New("third"))

	err := errs.ErrorOrNil()
	require.Error(t, err)
	assert.Len(t, errs.WrappedErrors(), 3)
	assert.Contains(t, err.Error(), "3 errors occurred")
	assert.Contains(t, err.Error(), "* first")
}

func TestUnwrapMultiErrors(t *testing.T) {
	t.Parallel()

	var errs *errors.MultiError

	inner := (*errors.MultiError)(nil).Append(errors.New("inner one"), errors.New("inner two"))
	errs = errs.Append(errors.New("outer"), inner.ErrorOrNil())

	unwrapped := errors.UnwrapMultiErrors(errs.ErrorOrNil())
	assert.Len(t, unwrapped, 3)
}
