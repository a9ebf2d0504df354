// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// AppName is used for the binary name and the config directory
const AppName = "gemini-chat"

// Timeout constants used across the application
const (
	// DefaultAPITimeout bounds a single generateContent call
	DefaultAPITimeout = 120 * time.Second
)

// Gemini API defaults
const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1"
	DefaultModel      = "gemini-2.5-flash"
)

// Output file defaults
const (
	// DefaultOutputDirName is created next to the executable when no output path is configured
	DefaultOutputDirName = "generated_files"
	// FileNameExcerptLength caps the prompt excerpt used in saved file names
	FileNameExcerptLength = 35
	// FileNameTimestampLayout is YYYYMMDD_HHMMSS in local time
	FileNameTimestampLayout = "20060102_150405"
)
