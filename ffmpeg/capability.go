// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Public types (alphabetical)

// Capabilities answers hardware questions about one FFmpeg binary.
// The encoder listing is fetched at most once per Capabilities value, so a
// value should live for a single tool invocation. Failures never propagate:
// an FFmpeg that cannot be queried simply reports no capabilities.
type Capabilities struct {
	ffmpegPath string
	runner     Runner
	logger     hclog.Logger

	mutex    sync.Mutex
	encoders []string
	fetched  bool
}

// Private functions (alphabetical)

// filterLines returns the trimmed lines of output containing marker,
// compared case-insensitively.
func filterLines(lines []string, marker string) []string {
	marker = strings.ToLower(marker)
	matches := make([]string, 0)
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), marker) {
			matches = append(matches, strings.TrimSpace(line))
		}
	}
	return matches
}

// Public functions (alphabetical)

// NewCapabilities creates a prober bound to the given FFmpeg binary and runner.
func NewCapabilities(ffmpegPath string, runner Runner, logger hclog.Logger) *Capabilities {
	if ffmpegPath == "" {
		ffmpegPath = DefaultFFmpegBinary
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Capabilities{
		ffmpegPath: ffmpegPath,
		runner:     runner,
		logger:     logger,
	}
}

// ParseAccelerationBackends extracts backend names from `ffmpeg -hwaccels`
// output. The first line is a header and is always skipped.
func ParseAccelerationBackends(output string) []string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	backends := make([]string, 0)
	if len(lines) < 2 {
		return backends
	}
	for _, line := range lines[1:] {
		if name := strings.TrimSpace(line); name != "" {
			backends = append(backends, name)
		}
	}
	return backends
}

// ParseHardwareEncoders returns the lines of `ffmpeg -encoders` output that
// mention the given encoder family marker.
func ParseHardwareEncoders(output, family string) []string {
	return filterLines(strings.Split(output, "\n"), family)
}

// Public methods (alphabetical)

// AccelerationBackends runs `ffmpeg -hide_banner -hwaccels` and returns the
// advertised backends. It is not cached.
func (c *Capabilities) AccelerationBackends(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, GetVersionTimeout())
	defer cancel()

	result, err := c.runner.Run(Bounded(ctx), []string{c.ffmpegPath, "-hide_banner", "-hwaccels"})
	if err != nil {
		c.logger.Debug("hwaccel listing unavailable", "error", err)
		return []string{}
	}
	if !result.Succeeded() {
		c.logger.Debug("hwaccel listing failed", "exit_code", result.ExitCode)
		return []string{}
	}
	return ParseAccelerationBackends(result.Stdout)
}

// HardwareEncoders returns the encoder lines for the given family marker
// (FamilyQSV, FamilyNVENC, or any other substring).
func (c *Capabilities) HardwareEncoders(ctx context.Context, family string) []string {
	return filterLines(c.encoderListing(ctx), family)
}

// Supports reports whether at least one encoder of the family is available.
func (c *Capabilities) Supports(ctx context.Context, family string) bool {
	return len(c.HardwareEncoders(ctx, family)) > 0
}

// Private methods (alphabetical)

// encoderListing fetches `ffmpeg -hide_banner -encoders` once and caches the lines.
func (c *Capabilities) encoderListing(ctx context.Context) []string {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.fetched {
		return c.encoders
	}
	c.fetched = true
	c.encoders = []string{}

	ctx, cancel := context.WithTimeout(ctx, GetVersionTimeout())
	defer cancel()

	result, err := c.runner.Run(Bounded(ctx), []string{c.ffmpegPath, "-hide_banner", "-encoders"})
	if err != nil {
		c.logger.Debug("encoder listing unavailable", "error", err)
		return c.encoders
	}
	if !result.Succeeded() {
		c.logger.Debug("encoder listing failed", "exit_code", result.ExitCode)
		return c.encoders
	}
	c.encoders = strings.Split(result.Stdout, "\n")
	return c.encoders
}
