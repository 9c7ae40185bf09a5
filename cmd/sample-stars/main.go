package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/hrdiagram/internal/samplestars"
)

// Default configuration constants.
const (
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "", "Base URL of the service; empty writes the catalog only")
		numStars   = flag.Int("stars", samplestars.DefaultNumStars, "Number of stars to generate")
		seed       = flag.Uint64("seed", samplestars.DefaultSeed, "Generator seed")
		format     = flag.String("format", "png", "Figure format requested from the service: png, svg, pdf")
		outputFile = flag.String("output", "", "CSV output file (default: sample_stars_TIMESTAMP.csv)")
		imageFile  = flag.String("image", "", "Figure output file (default: hr_diagram_TIMESTAMP.<format>)")
		timeout    = flag.Duration("timeout", samplestars.DefaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for run output (default: sample_stars_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		samplestars.ShowHelp()
		return
	}

	if err := samplestars.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &samplestars.Config{
		BaseURL:    *baseURL,
		NumStars:   *numStars,
		Seed:       *seed,
		Format:     *format,
		OutputFile: *outputFile,
		ImageFile:  *imageFile,
		Timeout:    *timeout,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := samplestars.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called above
	}
}
