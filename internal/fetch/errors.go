package fetch

import "fmt"

// TruncatedTransferError means fewer bytes arrived than the response header
// promised. It marks a transfer worth retrying.
type TruncatedTransferError struct {
	Err      error
	URL      string
	Expected int64
	Received int64
}

func (err TruncatedTransferError) Error() string {
	return fmt.Sprintf("incorrect response size from %s: expected %d bytes, but got %d bytes", err.URL, err.Expected, err.Received)
}

func (err TruncatedTransferError) Unwrap() error {
	return err.Err
}

// FetchExhaustedError means every attempt at downloading a log ended in a
// truncated transfer. Callers receive this instead of partial log content.
type FetchExhaustedError struct {
	URL      string
	Attempts int
}

func (err FetchExhaustedError) Error() string {
	return fmt.Sprintf("log at %s remained truncated after %d attempts", err.URL, err.Attempts)
}
