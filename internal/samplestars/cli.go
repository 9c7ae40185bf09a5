package samplestars

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/hrdiagram/pkg/logger"
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sample_stars_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the sample catalog tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`H-R Diagram Sample Catalog Tool
===============================

Generates a deterministic synthetic star catalog and, optionally, renders it
through a running diagram service.

Usage:
  go run ./cmd/sample-stars [options]

Options:
  -url string
        Base URL of the service; empty writes the catalog only
  -stars int
        Number of stars to generate (default 240)
  -seed uint
        Generator seed (default 1)
  -format string
        Figure format requested from the service: png, svg, pdf (default "png")
  -output string
        CSV output file (default: sample_stars_TIMESTAMP.csv)
  -image string
        Figure output file (default: hr_diagram_TIMESTAMP.<format>)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default: sample_stars_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Write a catalog only
  go run ./cmd/sample-stars -stars 600 -output stars.csv

  # Render through a local service as SVG
  go run ./cmd/sample-stars -url http://localhost:9080 -format svg
`)
}
