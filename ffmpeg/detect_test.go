package ffmpeg

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const sampleVersionOutput = `ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023 the FFmpeg developers
built with gcc 13 (Ubuntu 13.2.0-23ubuntu3)
configuration: --prefix=/usr --enable-gpl --enable-libx264 --enable-libmfx
libavutil      58. 29.100 / 58. 29.100
libavcodec     60. 31.102 / 60. 31.102
libavformat    60. 16.100 / 60. 16.100
`

// FFmpegTestSuite defines a test suite for FFmpeg detection.
type FFmpegTestSuite struct {
	suite.Suite
}

// TestDetectFFmpeg verifies detection through a scripted runner.
func (s *FFmpegTestSuite) TestDetectFFmpeg() {
	runner := newScriptedRunner().on("-version", Result{Stdout: sampleVersionOutput})

	info, err := DetectFFmpeg(context.Background(), runner, "/opt/ffmpeg/bin/ffmpeg")
	require.NoError(s.T(), err)
	assert.True(s.T(), info.Installed)
	assert.Equal(s.T(), "/opt/ffmpeg/bin/ffmpeg", info.Path)
	assert.Equal(s.T(), "6.1.1", info.Version)
	assert.Contains(s.T(), info.Configuration, "--enable-libmfx")
	assert.Len(s.T(), info.Libraries, 3)
	assert.Equal(s.T(), [][]string{{"/opt/ffmpeg/bin/ffmpeg", "-version"}}, runner.calls)
}

// TestDetectFFmpegNotInstalled verifies that a launch failure is not an error.
func (s *FFmpegTestSuite) TestDetectFFmpegNotInstalled() {
	runner := newScriptedRunner().fail("-version", &LaunchError{Program: "ffmpeg", Err: errors.New("not found")})

	info, err := DetectFFmpeg(context.Background(), runner, "")
	require.NoError(s.T(), err)
	assert.False(s.T(), info.Installed)
	assert.Equal(s.T(), DefaultFFmpegBinary, info.Path)
	assert.Equal(s.T(), "unknown", info.Version)
}

// TestDetectFFmpegBrokenBinary verifies that a failing -version is reported.
func (s *FFmpegTestSuite) TestDetectFFmpegBrokenBinary() {
	runner := newScriptedRunner().on("-version", Result{ExitCode: 127})

	info, err := DetectFFmpeg(context.Background(), runner, "ffmpeg")
	require.Error(s.T(), err)
	assert.False(s.T(), info.Installed)
}

// TestParseVersionOutput tests version parsing with various input formats.
func (s *FFmpegTestSuite) TestParseVersionOutput() {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal output",
			input:    "ffmpeg version 4.2.7 Copyright (c) 2000-2022 the FFmpeg developers",
			expected: "4.2.7",
		},
		{
			name:     "empty output",
			input:    "",
			expected: "unknown",
		},
		{
			name:     "malformed output",
			input:    "ffmpeg",
			expected: "unknown",
		},
		{
			name:     "multiline output",
			input:    "ffmpeg version 5.0.1 Copyright (c) 2000-2022 the FFmpeg developers\nbuilt with gcc 11.2.0",
			expected: "5.0.1",
		},
		{
			name:     "git prefix",
			input:    "ffmpeg version n7.0.2 Copyright (c) 2000-2024 the FFmpeg developers",
			expected: "7.0.2",
		},
		{
			name:     "distribution suffix",
			input:    sampleVersionOutput,
			expected: "6.1.1",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			assert.Equal(s.T(), tc.expected, ParseVersionOutput(tc.input).Version)
		})
	}
}

// TestGetCommonInstallPaths tests that install paths are absolute for the current OS.
func (s *FFmpegTestSuite) TestGetCommonInstallPaths() {
	paths := getCommonInstallPaths(executableName("ffmpeg"))
	assert.NotEmpty(s.T(), paths)

	switch runtime.GOOS {
	case "darwin":
		assert.Contains(s.T(), paths, filepath.Join("/opt", "homebrew", "bin", "ffmpeg"))
	case "linux":
		assert.Contains(s.T(), paths, filepath.Join("/usr", "bin", "ffmpeg"))
		assert.Contains(s.T(), paths, filepath.Join("/usr", "local", "bin", "ffmpeg"))
	}
	if runtime.GOOS != "windows" {
		for _, path := range paths {
			assert.True(s.T(), filepath.IsAbs(path), "Path should be absolute: %s", path)
		}
	}
}

// TestLocateBinary verifies that a configured path always wins.
func (s *FFmpegTestSuite) TestLocateBinary() {
	path, found := LocateBinary("ffmpeg", "/custom/ffmpeg")
	assert.True(s.T(), found)
	assert.Equal(s.T(), "/custom/ffmpeg", path)

	path, found = LocateBinary("definitely-not-a-real-binary-name", "")
	assert.False(s.T(), found)
	assert.Equal(s.T(), "definitely-not-a-real-binary-name", path)
}

// TestLocateExecutables verifies explicit configuration of both binaries.
func (s *FFmpegTestSuite) TestLocateExecutables() {
	paths := LocateExecutables("/a/ffmpeg", "/b/ffprobe")
	assert.Equal(s.T(), &ExecutablePaths{FFmpeg: "/a/ffmpeg", FFprobe: "/b/ffprobe"}, paths)
}

// TestFFmpegSuite runs the FFmpeg test suite.
func TestFFmpegSuite(t *testing.T) {
	suite.Run(t, new(FFmpegTestSuite))
}
