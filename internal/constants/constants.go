// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Capture constants
const (
	// DefaultCountdownSeconds is the countdown length before a frame is captured
	DefaultCountdownSeconds = 3

	// WorkerPoolSize is the default number of parallel workers for batch registration
	WorkerPoolSize = 4
)

// File upload constants
const (
	// MaxUploadSize is the maximum frame upload size in bytes (10MB)
	MaxUploadSize = 10 << 20
)
