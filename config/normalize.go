package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBinaries(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeLogging()
	c.Metrics.Listen = strings.TrimSpace(c.Metrics.Listen)
	return nil
}

func (c *Config) normalizeBinaries() error {
	if value := lookupEnv(envFFmpeg); value != "" {
		c.Binaries.FFmpeg = value
	}
	if value := lookupEnv(envFFprobe); value != "" {
		c.Binaries.FFprobe = value
	}

	var err error
	if c.Binaries.FFmpeg, err = normalizeBinary(c.Binaries.FFmpeg); err != nil {
		return fmt.Errorf("binaries.ffmpeg: %w", err)
	}
	if c.Binaries.FFprobe, err = normalizeBinary(c.Binaries.FFprobe); err != nil {
		return fmt.Errorf("binaries.ffprobe: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value := lookupEnv(envLogLevel); value != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = profileLogLevels[c.Server.Profile]
	}
}

func (c *Config) normalizeServer() {
	c.Server.Name = strings.TrimSpace(c.Server.Name)
	c.Server.Version = strings.TrimSpace(c.Server.Version)
	if c.Server.Version == "" {
		c.Server.Version = defaultServerVersion
	}
	c.Server.Description = strings.TrimSpace(c.Server.Description)
	c.Server.Profile = strings.ToLower(strings.TrimSpace(c.Server.Profile))
	if c.Server.Profile == "" {
		c.Server.Profile = defaultServerProfile
	}
}

// lookupEnv returns the trimmed value of key, or "" when it is unset.
func lookupEnv(key string) string {
	value, _ := os.LookupEnv(key)
	return strings.TrimSpace(value)
}

// normalizeBinary expands a configured binary path. Bare program names are
// left alone so that they are resolved through PATH.
func normalizeBinary(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" || !strings.ContainsAny(value, `/\~`) {
		return value, nil
	}
	return expandPath(value)
}
