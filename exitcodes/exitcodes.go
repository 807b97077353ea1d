// Package exitcodes defines the standard exit codes used by testops.
package exitcodes

// Exit code constants used by testops. The CI pipeline only distinguishes
// success from failure, so every failure kind (device not found, auxiliary
// channel unavailable, trigger rejected, incomplete parse, failed tests)
// maps to Failure.
const (
	Success = 0 // Device found, suite ran, every test passed
	Failure = 1 // Anything else
)
