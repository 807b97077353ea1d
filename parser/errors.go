package parser

import (
	"errors"
	"fmt"
)

var errMissingFields = errors.New("required fields missing after collection")

// ProtocolError signals that the trigger command itself was rejected by the
// device shell, as opposed to a test failure. No result is produced.
type ProtocolError struct {
	Line string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("command rejected by device: %s", e.Line)
}

// IsProtocolError checks if the error is or wraps a ProtocolError.
func IsProtocolError(err error) bool {
	var protoErr *ProtocolError
	return err != nil && errors.As(err, &protoErr)
}

// IncompleteResultError signals that the stream ended, timed out or was
// cancelled before all four result fields were seen.
type IncompleteResultError struct {
	Err error
}

func (e *IncompleteResultError) Error() string {
	return fmt.Sprintf("incomplete test result: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *IncompleteResultError) Unwrap() error {
	return e.Err
}

// IsIncompleteResultError checks if the error is or wraps an IncompleteResultError.
func IsIncompleteResultError(err error) bool {
	var incErr *IncompleteResultError
	return err != nil && errors.As(err, &incErr)
}
