package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

const EnvVarPrefix = "TESTOPS"

var (
	Port = &cli.StringFlag{
		Name:    "port",
		Aliases: []string{"p"},
		Value:   "auto",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PORT"),
		Usage:   "CDC port of the device under test, or 'auto' to detect by USB identity",
	}
	Baudrate = &cli.IntFlag{
		Name:    "baudrate",
		Value:   230400,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "BAUDRATE"),
		Usage:   "Baud rate of the device console",
	}
	AuxPort = &cli.StringFlag{
		Name:    "stm-port",
		Aliases: []string{"s"},
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "STM_PORT"),
		Usage:   "Additional STM32 serial port to capture while tests run",
	}
	AuxBaudrate = &cli.IntFlag{
		Name:    "stm-baudrate",
		Value:   230400,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "STM_BAUDRATE"),
		Usage:   "Baud rate of the auxiliary serial port",
	}
	Timeout = &cli.IntFlag{
		Name:    "timeout",
		Aliases: []string{"t"},
		Value:   10,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMEOUT"),
		Usage:   "Discovery attempts (one per second) before giving up on the device",
	}
	RunTimeout = &cli.DurationFlag{
		Name:    "run-timeout",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_TIMEOUT"),
		Usage:   "Overall bound on one test run (e.g. '10m'). Set to 0 or omit to disable.",
	}
	OutputDir = &cli.StringFlag{
		Name:    "output-dir",
		Value:   ".",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT_DIR"),
		Usage:   "Directory to write transcript artifacts to",
	}
	ProfilesFile = &cli.StringFlag{
		Name:    "profiles",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "PROFILES"),
		Usage:   "YAML file with extra device profiles (eg. 'profiles.yaml')",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	Port,
	Baudrate,
	AuxPort,
	AuxBaudrate,
	Timeout,
	RunTimeout,
	OutputDir,
	ProfilesFile,
}

var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
