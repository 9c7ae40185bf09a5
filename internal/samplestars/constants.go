package samplestars

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Runner configuration constants.
const (
	DefaultNumStars = 240
	DefaultSeed     = 1
	DefaultTimeout  = 30 * time.Second
)

// Solar reference values.
const (
	solarTemperature = 5778.0
	solarMagnitude   = 4.83
	maxLuminosity    = 1e6
)

// File permission constants.
const (
	logFilePermission   = 0o600
	directoryPermission = 0o750
	outputPermission    = 0o644
)
