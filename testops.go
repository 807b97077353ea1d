// Package testops drives hardware-in-the-loop unit-test runs against a
// Flipper-class device over its USB CDC console.
package testops

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/JayillProne/testops/device"
	"github.com/JayillProne/testops/logging"
	"github.com/JayillProne/testops/metrics"
	"github.com/JayillProne/testops/monitor"
	"github.com/JayillProne/testops/parser"
	"github.com/JayillProne/testops/types"
)

// TriggerCommand starts the on-device unit-test suite.
const TriggerCommand = "unit_tests"

// auxMonitor is the surface the session needs from a background channel
// reader.
type auxMonitor interface {
	Start() error
	Stop()
	Output() string
}

// Session drives one interaction with the device: discovery, trigger,
// collection, persistence and teardown.
type Session struct {
	cfg      *Config
	log      log.Logger
	profiles []device.Profile
	result   *types.TestResult
	tracer   trace.Tracer

	// Indirections for tests; production wiring happens in New.
	resolve    func(logger log.Logger, selector string, profiles []device.Profile) (string, error)
	open       func(logger log.Logger, port string, baud int) (*device.Device, error)
	newMonitor func(logger log.Logger, port string, baud int) auxMonitor
}

func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	profiles := device.BuiltinProfiles()
	if cfg.Profiles != "" {
		extra, err := device.LoadProfiles(cfg.Profiles)
		if err != nil {
			return nil, fmt.Errorf("failed to load device profiles: %w", err)
		}
		profiles = append(profiles, extra...)
	}

	cfg.Log.Debug("Creating session",
		"port", cfg.Port,
		"auxPort", cfg.AuxPort,
		"attempts", cfg.Attempts,
		"outputDir", cfg.OutputDir)

	return &Session{
		cfg:      cfg,
		log:      cfg.Log,
		profiles: profiles,
		tracer:   otel.Tracer("test session"),
		resolve:  device.Resolve,
		open:     device.Open,
		newMonitor: func(logger log.Logger, port string, baud int) auxMonitor {
			return monitor.New(logger, port, baud)
		},
	}, nil
}

// acquire retries discovery with a fixed delay between attempts. The delay
// also runs after a successful resolve so a freshly enumerated CDC endpoint
// has settled before we open it.
func (s *Session) acquire(ctx context.Context) (*device.Device, error) {
	s.log.Info("Attempting to find device", "attempts", s.cfg.Attempts)

	for i := 0; i < s.cfg.Attempts; i++ {
		s.log.Info("Attempt to find device", "attempt", i+1)

		port, err := s.resolve(s.log, s.cfg.Port, s.profiles)
		if err == nil {
			s.log.Info("Found device", "port", port)
			if err := sleepCtx(ctx, s.cfg.RetryDelay); err != nil {
				return nil, err
			}
			return s.open(s.log, port, s.cfg.Baudrate)
		}
		s.log.Debug("Device not found", "err", err)

		if err := sleepCtx(ctx, s.cfg.RetryDelay); err != nil {
			return nil, err
		}
	}

	return nil, NewDeviceNotFoundError(s.cfg.Attempts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Await blocks until the device connects or reconnects, then releases it.
func (s *Session) Await(ctx context.Context) error {
	dev, err := s.acquire(ctx)
	if err != nil {
		s.log.Error("Failed to find device", "err", err)
		return err
	}
	s.log.Info("Device started")
	return dev.Close()
}

// RunUnits triggers the on-device suite, collects its output and persists
// the transcripts. The device and the auxiliary monitor are always released,
// whatever the outcome.
func (s *Session) RunUnits(ctx context.Context) (*types.TestResult, error) {
	ctx, span := s.tracer.Start(ctx, "unit test run")
	defer span.End()

	dev, err := s.acquire(ctx)
	if err != nil {
		metrics.RecordErrorDetails("device acquisition", err)
		return nil, err
	}
	defer func() {
		_ = dev.Close()
	}()

	var mon auxMonitor
	if s.cfg.AuxPort != "" {
		mon = s.newMonitor(s.log, s.cfg.AuxPort, s.cfg.AuxBaudrate)
		if err := mon.Start(); err != nil {
			metrics.RecordErrorDetails("aux monitor", err)
			return nil, fmt.Errorf("failed to start STM32 monitoring: %w", err)
		}
		s.log.Info("Started monitoring STM32 port", "port", s.cfg.AuxPort)
		defer mon.Stop()
	}

	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	runID := uuid.New().String()
	span.SetAttributes(attribute.String("run_id", runID))
	s.log.Info("Running unit tests", "run_id", runID)
	if err := dev.Send(TriggerCommand); err != nil {
		metrics.RecordErrorDetails("trigger", err)
		return nil, err
	}
	s.log.Info("Waiting for unit tests to complete")

	started := time.Now()
	acc := parser.NewAccumulator(s.log)
	result, err := acc.Collect(ctx, dev)
	if err != nil {
		metrics.RecordErrorDetails("unit tests", err)
		s.log.Error("Failed to run or parse unit tests", "err", err)
		return nil, err
	}
	result.RunID = runID
	result.Duration = time.Since(started)
	span.SetAttributes(
		attribute.String("status", result.Status),
		attribute.Int("failed", result.FailedTests),
	)

	if mon != nil {
		// stop before reading so the buffer is complete and quiescent
		mon.Stop()
		result.AuxOutput = mon.Output()
	}

	if err := s.persist(result); err != nil {
		return nil, err
	}

	s.result = result
	s.report(result)
	return result, nil
}

func (s *Session) persist(result *types.TestResult) error {
	w := logging.NewArtifactWriter(s.log, s.cfg.OutputDir)

	path, err := w.WriteDeviceTranscript(result.FullOutput)
	if err != nil {
		return err
	}
	s.log.Info("Saved test output", "path", path)

	if s.cfg.AuxPort != "" {
		path, err = w.WriteAuxTranscript(result.AuxOutput)
		if err != nil {
			return err
		}
		s.log.Info("Saved STM32 output", "path", path)
	}
	return nil
}

// report emits the machine-parsable notice line, the summary table and the
// run metrics.
func (s *Session) report(result *types.TestResult) {
	fmt.Printf("::notice:: Total tests: %d Failed tests: %d Status: %s Elapsed time: %v s Memory leak: %d bytes\n",
		result.TotalTests, result.FailedTests, result.Status,
		float64(result.ElapsedTimeMs)/1000, result.MemoryLeakBytes)

	s.printResultsTable(result)

	outcome := "pass"
	if !result.Passed() {
		outcome = "fail"
	}
	metrics.RecordRun(result.RunID, outcome,
		result.TotalTests, result.FailedTests,
		time.Duration(result.ElapsedTimeMs)*time.Millisecond,
		result.MemoryLeakBytes)
}

// Finalize logs the outcome and returns the error that decides the process
// exit code. A memory leak alone never fails the run.
func (s *Session) Finalize(result *types.TestResult) error {
	if !result.Passed() {
		s.log.Error("Got failed tests", "failed", result.FailedTests)
		s.log.Error("Leaked (not failing on this stat)", "bytes", result.MemoryLeakBytes)
		s.log.Error("Status", "status", result.Status)
		s.log.Error("Time", "seconds", float64(result.ElapsedTimeMs)/1000)
		return NewTestFailureError(result.String())
	}

	if result.MemoryLeakBytes > 0 {
		s.log.Warn("Leaked (not failing on this stat)", "bytes", result.MemoryLeakBytes)
	}
	s.log.Info("Tests ran successfully",
		"passed", result.TotalTests,
		"seconds", float64(result.ElapsedTimeMs)/1000)
	return nil
}

// printResultsTable prints the run summary to the console.
func (s *Session) printResultsTable(result *types.TestResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("Unit Test Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Total", "Failed", "Status", "Elapsed", "Leaked",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Total", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Elapsed", Align: text.AlignRight},
		{Name: "Leaked", Align: text.AlignRight},
	})

	t.AppendRow(table.Row{
		result.TotalTests,
		result.FailedTests,
		getResultString(result),
		fmt.Sprintf("%dms", result.ElapsedTimeMs),
		fmt.Sprintf("%dB", result.MemoryLeakBytes),
	})

	if result.Passed() {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.Render()
}

// getResultString returns a colored string representing the run result
func getResultString(result *types.TestResult) string {
	if result.Passed() {
		return "✓ " + result.Status
	}
	return "✗ " + result.Status
}

// Helper function to format duration to seconds with 1 decimal place
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
