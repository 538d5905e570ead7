// Package config loads the mediamcp configuration: built-in defaults, an
// optional TOML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Public types (alphabetical)

// Binaries locates the external programs. Empty values are resolved from
// PATH and the usual install locations at startup.
type Binaries struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Config is the complete configuration.
//
// Sections:
//   - Binaries: ffmpeg and ffprobe locations
//   - Logging: level and output format of the stderr log
//   - Temp: naming and locking of temporary artifacts
//   - Metrics: optional Prometheus endpoint
//   - Server: MCP implementation name, version and description
//   - Features: optional tool and resource groups
type Config struct {
	Binaries Binaries `toml:"binaries"`
	Logging  Logging  `toml:"logging"`
	Temp     Temp     `toml:"temp"`
	Metrics  Metrics  `toml:"metrics"`
	Server   Server   `toml:"server"`
	Features Features `toml:"features"`
}

// Features toggles the auxiliary MCP surface.
type Features struct {
	MathTools         bool `toml:"math_tools"`
	GreetingResources bool `toml:"greeting_resources"`
}

// Logging configures the stderr logger.
type Logging struct {
	// Level is trace, debug, info, warn or error. When empty it follows
	// the server profile.
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Metrics configures the Prometheus endpoint. It is disabled when Listen is empty.
type Metrics struct {
	Listen string `toml:"listen"`
}

// Server describes the MCP implementation advertised to clients.
type Server struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
	// Profile is default, development or production.
	Profile string `toml:"profile"`
}

// Temp configures temporary artifacts such as concat manifests and GIF palettes.
type Temp struct {
	UniqueNames         bool `toml:"unique_names"`
	LockSharedArtifacts bool `toml:"lock_shared_artifacts"`
}

// Public functions (alphabetical)

// DefaultConfigPath returns the absolute path of the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, normalizes and validates the configuration. It
// returns the config, the path that was considered and whether that file
// existed. A missing file is not an error: defaults and environment apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// WriteDefault writes the default configuration as TOML to path, creating
// the parent directory. An existing file is left untouched and reported.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	}
	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Private functions (alphabetical)

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// resolveConfigPath picks the file to load: an explicit path, then the
// per-user file, then mediamcp.toml in the working directory.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}
