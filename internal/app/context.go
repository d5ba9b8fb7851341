// Package app wires configuration, logging and output handling for the CLI
// commands.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bishalpaudel/EEG-muse/configs"
	"github.com/bishalpaudel/EEG-muse/internal/logging"
)

// Context holds the application context shared by every command.
type Context struct {
	// CLI arguments
	OutputFile   string
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// NewContext loads and validates configuration and sets up logging.
func NewContext(outputFile, outputFormat string, verbose, quiet bool) (*Context, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := config.LogLevel
	if verbose {
		level = "debug"
	}
	if quiet {
		level = "error"
	}
	logger := logging.NewLogger(level)

	if outputFormat == "" {
		outputFormat = config.OutputFormat
	}

	logger.Debug("Application context initialized", logging.Fields{
		"sample_rate":   config.EEG.SampleRate,
		"strategy":      config.Engine.Strategy,
		"output_format": outputFormat,
	})

	return &Context{
		OutputFile:   outputFile,
		OutputFormat: outputFormat,
		Verbose:      verbose,
		Quiet:        quiet,
		Logger:       logger,
		Config:       config,
	}, nil
}

// WriteOutput formats data and writes it to the configured destination
// (stdout by default).
func (ctx *Context) WriteOutput(data any) error {
	formatted, err := Format(data, ctx.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if ctx.OutputFile == "" {
		_, err = os.Stdout.Write(formatted)
		return err
	}

	dir := filepath.Dir(ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(ctx.OutputFile, formatted, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	ctx.Logger.Debug("Results written to file", logging.Fields{
		"output_file": ctx.OutputFile,
		"size_bytes":  len(formatted),
	})
	return nil
}
