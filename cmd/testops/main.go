package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/optimism/devnet-sdk/telemetry"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"

	testops "github.com/JayillProne/testops"
	"github.com/JayillProne/testops/exitcodes"
	"github.com/JayillProne/testops/flags"
	"github.com/JayillProne/testops/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	oplog.SetupDefaults()

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "testops"
	app.Usage = "Flipper Zero on-device test runner"
	app.Description = "testops drives the unit test suite on attached hardware and reports results for CI"
	app.Flags = flags.Flags
	app.Commands = []*cli.Command{
		{
			Name:   "await",
			Usage:  "Wait for the target device to enumerate",
			Action: awaitAction,
		},
		{
			Name:   "run-units",
			Usage:  "Run the on-device unit test suite and collect results",
			Action: runUnitsAction,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.Failure))
		}
	}

	// Start telemetry
	ctx, shutdown, err := telemetry.SetupOpenTelemetry(
		context.Background(),
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// Start server
	svc := service.New()
	svc.Start(ctx)
	defer svc.Shutdown()

	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func newSession(ctx *cli.Context) (*testops.Session, error) {
	logCfg := oplog.ReadCLIConfig(ctx)
	logger := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(logger.Handler())

	cfg, err := testops.NewConfig(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create config: %w", err)
	}
	cfg.Log.Debug("Config", "config", cfg)

	return testops.New(cfg)
}

func awaitAction(ctx *cli.Context) error {
	session, err := newSession(ctx)
	if err != nil {
		return err
	}
	return session.Await(ctx.Context)
}

func runUnitsAction(ctx *cli.Context) error {
	session, err := newSession(ctx)
	if err != nil {
		return err
	}

	result, err := session.RunUnits(ctx.Context)
	if err != nil {
		return err
	}
	return session.Finalize(result)
}
