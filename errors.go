package testops

import (
	"errors"
	"fmt"
)

// DeviceNotFoundError means discovery exhausted its attempts without a
// matching device appearing.
type DeviceNotFoundError struct {
	Attempts int
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("device not found after %d attempts", e.Attempts)
}

// NewDeviceNotFoundError creates a new DeviceNotFoundError
func NewDeviceNotFoundError(attempts int) *DeviceNotFoundError {
	return &DeviceNotFoundError{Attempts: attempts}
}

// IsDeviceNotFoundError checks if the error is or wraps a DeviceNotFoundError
func IsDeviceNotFoundError(err error) bool {
	var notFoundErr *DeviceNotFoundError
	return err != nil && errors.As(err, &notFoundErr)
}

// TestFailureError represents a finalized run whose tests failed or whose
// status was not the success token.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

// NewTestFailureError creates a new TestFailureError
func NewTestFailureError(message string) *TestFailureError {
	return &TestFailureError{Message: message}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}
