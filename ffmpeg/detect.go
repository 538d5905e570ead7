// Package ffmpeg provides functionality for detecting and working with FFmpeg.
// It includes capabilities for locating the FFmpeg and FFprobe executables
// and reading the version and build configuration of an installation.
package ffmpeg

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

// Private variables (alphabetical)

// ffmpegVersionRegex is used to detect FFmpeg version from version string.
// It extracts the numeric version (e.g., 4.4.1) from FFmpeg's version output.
var ffmpegVersionRegex = regexp.MustCompile(`(?i)(?:version|ffmpeg)\s+(?:n)?(\d+\.\d+(?:\.\d+(?:\.\d+)?)?)`)

// Public types (alphabetical)

// ExecutablePaths holds the resolved locations of FFmpeg and FFprobe.
type ExecutablePaths struct {
	FFmpeg  string
	FFprobe string
}

// Private functions (alphabetical)

// executableName appends the platform executable suffix.
func executableName(name string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(name, ".exe") {
		return name + ".exe"
	}
	return name
}

// extractConfiguration finds the configuration line in FFmpeg output.
func extractConfiguration(lines []string) string {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "configuration:") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "configuration:"))
		}
	}
	return ""
}

// extractLibraries parses the libraries section from FFmpeg output.
func extractLibraries(lines []string) []string {
	var libraries []string
	for _, line := range lines {
		if strings.HasPrefix(line, "lib") || strings.HasPrefix(line, "  lib") {
			libraries = append(libraries, strings.Join(strings.Fields(line), " "))
		}
	}
	return libraries
}

// getCommonInstallPaths returns a list of common installation paths for the
// given executable on the current OS.
func getCommonInstallPaths(execName string) []string {
	var searchPaths []string
	switch runtime.GOOS {
	case "windows":
		searchPaths = []string{
			filepath.Join("C:\\", "Program Files", "FFmpeg", "bin", execName),
			filepath.Join("C:\\", "Program Files (x86)", "FFmpeg", "bin", execName),
			filepath.Join("C:\\", "FFmpeg", "bin", execName),
		}
		if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
			searchPaths = append(searchPaths, filepath.Join(programFiles, "FFmpeg", "bin", execName))
		}
	case "darwin":
		searchPaths = []string{
			filepath.Join("/usr", "local", "bin", execName),
			filepath.Join("/opt", "local", "bin", execName),
			filepath.Join("/opt", "homebrew", "bin", execName),
		}
	default:
		searchPaths = []string{
			filepath.Join("/usr", "bin", execName),
			filepath.Join("/usr", "local", "bin", execName),
			filepath.Join("/opt", "ffmpeg", "bin", execName),
		}
	}
	return searchPaths
}

// parseVersionFromFirstLine parses the version string from the first line of FFmpeg output.
func parseVersionFromFirstLine(firstLine string) string {
	versionParts := strings.SplitN(firstLine, " version ", 2)
	if len(versionParts) > 1 {
		remainingParts := strings.Fields(versionParts[1])
		if len(remainingParts) > 0 {
			versionStr := strings.TrimPrefix(remainingParts[0], "n")
			if idx := strings.Index(versionStr, "-"); idx > 0 {
				versionStr = versionStr[:idx]
			}
			return versionStr
		}
	}

	if m := ffmpegVersionRegex.FindStringSubmatch(firstLine); len(m) >= 2 {
		return m[1]
	}
	return ""
}

// Public functions (alphabetical)

// DetectFFmpeg queries the FFmpeg binary at path through runner and returns
// what it reports about itself. A binary that cannot be launched yields an
// FFmpegInfo with Installed set to false and no error. The query is stopped
// after GetVersionTimeout or when ctx is done, which is reported as an error.
func DetectFFmpeg(ctx context.Context, runner Runner, path string) (*FFmpegInfo, error) {
	if path == "" {
		path = DefaultFFmpegBinary
	}

	ctx, cancel := context.WithTimeout(ctx, GetVersionTimeout())
	defer cancel()

	result, err := runner.Run(Bounded(ctx), []string{path, "-version"})
	if err != nil {
		info := &FFmpegInfo{Installed: false, Path: path, Version: "unknown"}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return info, FormatError("%s -version did not finish: %w", path, err)
		}
		return info, nil
	}
	if !result.Succeeded() {
		return &FFmpegInfo{Installed: false, Path: path, Version: "unknown"},
			FormatError("%s -version exited with code %d", path, result.ExitCode)
	}

	info := ParseVersionOutput(result.Stdout)
	info.Installed = true
	info.Path = path
	return info, nil
}

// LocateBinary resolves name to an executable path. An explicit configured
// path always wins; otherwise PATH is searched, then the usual install
// locations. When nothing is found the bare name is returned so that the
// eventual launch fails with a LaunchError naming it.
func LocateBinary(name, configured string) (string, bool) {
	if configured != "" {
		return configured, true
	}

	execName := executableName(name)
	if path, err := exec.LookPath(execName); err == nil {
		return path, true
	}
	for _, path := range getCommonInstallPaths(execName) {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return name, false
}

// LocateExecutables resolves FFmpeg and FFprobe. When FFprobe is not configured
// and not on PATH, it is looked up next to the resolved FFmpeg.
func LocateExecutables(ffmpegConfigured, ffprobeConfigured string) *ExecutablePaths {
	ffmpegPath, _ := LocateBinary(DefaultFFmpegBinary, ffmpegConfigured)
	ffprobePath, found := LocateBinary(DefaultFFprobeBinary, ffprobeConfigured)
	if !found && filepath.IsAbs(ffmpegPath) {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), executableName(DefaultFFprobeBinary))
		if _, err := os.Stat(sibling); err == nil {
			ffprobePath = sibling
		}
	}
	return &ExecutablePaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}
}

// ParseVersionOutput extracts version, configuration and libraries from
// `ffmpeg -version` output. The version is "unknown" when it cannot be parsed.
func ParseVersionOutput(output string) *FFmpegInfo {
	lines := strings.Split(output, "\n")
	version := parseVersionFromFirstLine(lines[0])
	if version == "" {
		version = "unknown"
	}
	return &FFmpegInfo{
		Version:       version,
		Configuration: extractConfiguration(lines),
		Libraries:     extractLibraries(lines),
	}
}
