package samplestars

import "time"

// Config holds configuration for a sample catalog run.
type Config struct {
	BaseURL    string        // Base URL of the service; empty skips the upload
	NumStars   int           // Number of stars to generate
	Seed       uint64        // Generator seed; equal seeds give equal catalogs
	Format     string        // Image format requested from /diagram
	OutputFile string        // CSV output file
	ImageFile  string        // Rendered figure output file
	Timeout    time.Duration // HTTP request timeout
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Row mirrors one classified row returned by POST /classify.
type Row struct {
	Temperature       float64 `json:"temperature"`
	Luminosity        float64 `json:"luminosity"`
	AbsoluteMagnitude float64 `json:"absolute_magnitude"`
	StarType          int     `json:"star_type"`
	SpectralClass     string  `json:"spectral_class"`
	Label             string  `json:"label"`
	MarkerSize        int     `json:"marker_size"`
	Color             string  `json:"color"`
}

// SeriesSummary mirrors one series summary returned by POST /classify.
type SeriesSummary struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// ClassifyResponse is the subset of the /classify body the runner checks.
type ClassifyResponse struct {
	Title  string          `json:"title"`
	Rows   []Row           `json:"rows"`
	Series []SeriesSummary `json:"series"`
}

// Stats holds run statistics.
type Stats struct {
	StarsGenerated int
	RowsClassified int
	SeriesReturned int
	ImageBytes     int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
