// Package parser turns the device's line-oriented console output into a
// structured test result. The extractor matches individual result fields on
// single lines; the accumulator merges them across the stream and decides
// when the stream is complete.
package parser

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/JayillProne/testops/device"
	"github.com/JayillProne/testops/sanitize"
	"github.com/JayillProne/testops/types"
)

// Markers in the device console grammar.
const (
	// rejectedMarker is printed by the device shell when it does not know
	// the trigger command.
	rejectedMarker = "command not found,"

	// testDoneMarker: the runner prints each finished test as a function
	// call, e.g. "test_furi_memmgr()".
	testDoneMarker = "()"

	// promptMarker terminates the device output once the shell is idle again.
	promptMarker = ">: "
)

// LineSource is the reading half of a device console session.
type LineSource interface {
	// ReadLine returns the next CRLF-terminated line without its terminator.
	ReadLine() (string, error)

	// ReadUntil reads until marker is seen, returning everything before it.
	// It fails when the transport read times out first.
	ReadUntil(marker string) (string, error)
}

// Accumulator collects test-runner output line by line until all result
// fields have been seen. Fields merge first-wins; every line joins the
// transcript whether or not it matched anything.
type Accumulator struct {
	log        log.Logger
	fields     Fields
	total      int
	transcript []string
}

func NewAccumulator(logger log.Logger) *Accumulator {
	return &Accumulator{log: logger}
}

// Collect drives the accumulator over src until the result is complete, the
// device rejects the command, the context expires or the transport fails.
// Reads that time out without producing a line are not failures: long-running
// tests keep the console silent for stretches, so the loop waits them out and
// only the caller's context bounds the total wait. On success the returned
// result is final and src has been drained up to the device's closing prompt.
func (a *Accumulator) Collect(ctx context.Context, src LineSource) (*types.TestResult, error) {
	for !a.fields.Complete() {
		if err := ctx.Err(); err != nil {
			return nil, &IncompleteResultError{Err: err}
		}

		line, err := src.ReadLine()
		if errors.Is(err, device.ErrReadTimeout) {
			// silent read, a test is still running
			continue
		}
		if err != nil {
			return nil, &IncompleteResultError{Err: err}
		}
		a.log.Info(line)

		if strings.Contains(line, rejectedMarker) {
			a.log.Error("Command not found", "line", line)
			return nil, &ProtocolError{Line: line}
		}
		if strings.Contains(line, testDoneMarker) {
			a.total++
			a.log.Debug("Test completed", "line", line)
		}

		a.fields.Merge(Extract(line))
		a.transcript = append(a.transcript, sanitize.Device(line))
	}

	// Best-effort drain up to the closing prompt. The device may already
	// have finished emitting it, so a read timeout is absorbed here.
	if rest, err := src.ReadUntil(promptMarker); err == nil && strings.TrimSpace(rest) != "" {
		a.transcript = append(a.transcript, rest)
	}

	return a.finalize()
}

// Transcript returns the sanitized lines captured so far. Useful as a
// diagnostic when Collect fails partway.
func (a *Accumulator) Transcript() string {
	return strings.Join(a.transcript, "\n")
}

// TotalTests returns the number of per-test completion markers seen so far.
func (a *Accumulator) TotalTests() int {
	return a.total
}

func (a *Accumulator) finalize() (*types.TestResult, error) {
	// Collect only gets here once all fields are set, but finalize parses
	// them unconditionally, so re-check the guard.
	if !a.fields.Complete() {
		return nil, &IncompleteResultError{Err: errMissingFields}
	}

	failed, err := firstInt(a.fields.Failed)
	if err != nil {
		return nil, &IncompleteResultError{Err: err}
	}
	elapsed, err := firstInt(a.fields.Elapsed)
	if err != nil {
		return nil, &IncompleteResultError{Err: err}
	}
	leak, err := firstInt(a.fields.Leak)
	if err != nil {
		return nil, &IncompleteResultError{Err: err}
	}
	status, err := statusWord(a.fields.Status)
	if err != nil {
		return nil, &IncompleteResultError{Err: err}
	}

	return &types.TestResult{
		FullOutput:      a.Transcript(),
		TotalTests:      a.total,
		FailedTests:     failed,
		ElapsedTimeMs:   elapsed,
		MemoryLeakBytes: leak,
		Status:          status,
	}, nil
}
