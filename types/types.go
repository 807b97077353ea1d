// Package types defines the shared result types for a hardware test run.
package types

import (
	"fmt"
	"time"
)

// StatusPassed is the status token the on-device test runner prints when the
// whole suite succeeded. Any other token counts as a failed run.
const StatusPassed = "PASSED"

// TestResult is the finalized outcome of one on-device unit-test run.
// It is produced by the accumulator once all required fields have been seen
// and is never mutated afterwards.
type TestResult struct {
	RunID string

	// FullOutput is the timestamped transcript of the primary console,
	// newline-joined in arrival order.
	FullOutput string

	// AuxOutput is the auxiliary channel transcript. Empty unless an
	// auxiliary monitor was active for the run.
	AuxOutput string

	TotalTests      int
	FailedTests     int
	ElapsedTimeMs   int
	MemoryLeakBytes int
	Status          string

	// Duration is the host-side wall-clock time of the collection loop.
	Duration time.Duration
}

// Passed reports whether the run should be treated as a success.
// Leaked bytes alone never fail a run.
func (r *TestResult) Passed() bool {
	return r.FailedTests == 0 && r.Status == StatusPassed
}

func (r *TestResult) String() string {
	return fmt.Sprintf("total=%d failed=%d status=%s elapsed=%dms leak=%dB",
		r.TotalTests, r.FailedTests, r.Status, r.ElapsedTimeMs, r.MemoryLeakBytes)
}
