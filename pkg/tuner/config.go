package tuner

import "time"

// Config collects the tunable parameters of a tuner session.
type Config struct {
	// WindowSize is the number of samples handed to the estimator each
	// tick. 4096 trades frequency resolution at 44.1-48kHz against
	// display latency.
	WindowSize int

	// SmoothingAlpha is the exponential filter coefficient (0.0-1.0).
	// Higher values smooth more and respond slower.
	SmoothingAlpha float64

	// HistorySize caps the number of retained chart samples.
	HistorySize int

	// TickInterval is the acquisition cadence. The default approximates a
	// 60Hz display refresh; the pipeline tracks the display, it is not a
	// precision sampling clock.
	TickInterval time.Duration
}

// DefaultConfig returns the settings the app ships with.
func DefaultConfig() *Config {
	return &Config{
		WindowSize:     4096,
		SmoothingAlpha: 0.7,
		HistorySize:    500,
		TickInterval:   16 * time.Millisecond,
	}
}
