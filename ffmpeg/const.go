// Package ffmpeg provides functionality for detecting and working with FFmpeg.
// It includes the process runner used for every FFmpeg/FFprobe invocation,
// capability probing for hardware encoders, and media inspection helpers.
package ffmpeg

import (
	"fmt"
	"time"
)

// Private constants (alphabetical)
const (
	// errorPrefix is used as a prefix for all error messages from this package.
	// This ensures consistent error formatting across the package.
	errorPrefix = "ffmpeg: "

	// stopWaitDelay bounds the wait for output pipes after a bounded
	// process has been killed.
	stopWaitDelay = time.Second

	// versionTimeout bounds the `-version`, `-hwaccels` and `-encoders`
	// queries. Media operations themselves are never bounded.
	versionTimeout = 30 * time.Second
)

// Public constants (alphabetical)
const (
	// DefaultFFmpegBinary is the program name used when no explicit FFmpeg path is configured.
	DefaultFFmpegBinary = "ffmpeg"

	// DefaultFFprobeBinary is the program name used when no explicit FFprobe path is configured.
	DefaultFFprobeBinary = "ffprobe"

	// FamilyNVENC is the marker identifying NVIDIA NVENC encoders in the encoder listing.
	FamilyNVENC = "nvenc"

	// FamilyQSV is the marker identifying Intel Quick Sync Video encoders in the encoder listing.
	FamilyQSV = "qsv"
)

// Public functions (alphabetical)

// FormatError creates a standardized error message with the package prefix.
// It ensures all errors from this package have a consistent format and can be
// easily identified as originating from the ffmpeg package.
func FormatError(format string, args ...interface{}) error {
	return fmt.Errorf(errorPrefix+format, args...)
}

// GetVersionTimeout returns the timeout applied to version detection.
func GetVersionTimeout() time.Duration {
	return versionTimeout
}
