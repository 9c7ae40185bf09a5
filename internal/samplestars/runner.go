package samplestars

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/hrdiagram/internal/domain/model"
	"github.com/okian/hrdiagram/pkg/logger"
)

// Run generates a catalog, writes it to disk and, when a service URL is
// configured, classifies and renders it through the service.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting sample catalog run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("stars", config.NumStars),
		logger.Int64("seed", int64(config.Seed)),
		logger.String("format", config.Format),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Generate the catalog
	stars := Generate(config.Seed, config.NumStars)
	stats.StarsGenerated = len(stars)

	var catalog bytes.Buffer
	if err := WriteCSV(&catalog, stars); err != nil {
		return stats, fmt.Errorf("catalog encoding failed: %w", err)
	}

	// Step 2: Save it
	if err := writeFile(ctx, outputName(config.OutputFile, "sample_stars", "csv"), catalog.Bytes()); err != nil {
		return stats, fmt.Errorf("saving catalog failed: %w", err)
	}

	if config.BaseURL == "" {
		finish(stats)
		return stats, nil
	}

	client := newHTTPClient(config.Timeout)

	// Step 3: Check service health
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 4: Classify and verify
	resp, err := classifyCatalog(ctx, client, config.BaseURL, catalog.Bytes())
	if err != nil {
		return stats, fmt.Errorf("classification failed: %w", err)
	}
	stats.RowsClassified = len(resp.Rows)
	stats.SeriesReturned = len(resp.Series)
	if err := verifyClassification(ctx, stars, resp); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Render and save the figure
	image, contentType, err := renderCatalog(ctx, client, config.BaseURL, config.Format, catalog.Bytes())
	if err != nil {
		return stats, fmt.Errorf("rendering failed: %w", err)
	}
	stats.ImageBytes = len(image)
	logger.Get().Debug(ctx, "figure received", logger.String("contentType", contentType))

	format := config.Format
	if format == "" {
		format = "png"
	}
	if err := writeFile(ctx, outputName(config.ImageFile, "hr_diagram", format), image); err != nil {
		return stats, fmt.Errorf("saving figure failed: %w", err)
	}

	finish(stats)
	logger.Get().Info(ctx, "run completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// outputName returns name, or a timestamped default when name is empty.
func outputName(name, prefix, ext string) string {
	if name != "" {
		return name
	}
	return prefix + "_" + time.Now().Format("20060102_150405") + "." + ext
}

// writeFile writes data to filename, creating its directory if needed.
func writeFile(ctx context.Context, filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "file saved", logger.String("filename", filename), logger.Int("bytes", len(data)))
	return nil
}

// finish stamps the end time and logs the final statistics.
func finish(stats *Stats) {
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("starsGenerated", stats.StarsGenerated),
		logger.Int("rowsClassified", stats.RowsClassified),
		logger.Int("seriesReturned", stats.SeriesReturned),
		logger.Int("imageBytes", stats.ImageBytes),
		logger.Duration("duration", stats.Duration))
}

// Catalog returns the CSV bytes of a generated catalog.
func Catalog(seed uint64, n int) ([]byte, []model.Star, error) {
	stars := Generate(seed, n)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, stars); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), stars, nil
}
