package testops

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/JayillProne/testops/flags"
)

// Config holds the application configuration
type Config struct {
	Port        string        // CDC port selector: explicit path or "auto"
	Baudrate    int           // Primary console baud rate
	AuxPort     string        // Auxiliary STM32 trace port; empty disables the monitor
	AuxBaudrate int           // Auxiliary channel baud rate
	Attempts    int           // Discovery attempts before giving up
	RetryDelay  time.Duration // Delay between discovery attempts
	RunTimeout  time.Duration // Overall bound on the collection loop; 0 disables it
	OutputDir   string        // Where transcript artifacts are written
	Profiles    string        // Optional YAML file with extra device profiles
	Log         log.Logger
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	port := ctx.String(flags.Port.Name)
	if port == "" {
		return nil, errors.New("port selector is required")
	}

	baud := ctx.Int(flags.Baudrate.Name)
	if baud <= 0 {
		return nil, fmt.Errorf("invalid baudrate: %d", baud)
	}
	auxBaud := ctx.Int(flags.AuxBaudrate.Name)
	if auxBaud <= 0 {
		return nil, fmt.Errorf("invalid aux baudrate: %d", auxBaud)
	}

	attempts := ctx.Int(flags.Timeout.Name)
	if attempts <= 0 {
		return nil, fmt.Errorf("discovery timeout must be positive, got %d", attempts)
	}

	outputDir, err := filepath.Abs(ctx.String(flags.OutputDir.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}

	return &Config{
		Port:        port,
		Baudrate:    baud,
		AuxPort:     ctx.String(flags.AuxPort.Name),
		AuxBaudrate: auxBaud,
		Attempts:    attempts,
		RetryDelay:  time.Second,
		RunTimeout:  ctx.Duration(flags.RunTimeout.Name),
		OutputDir:   outputDir,
		Profiles:    ctx.String(flags.ProfilesFile.Name),
		Log:         log,
	}, nil
}
