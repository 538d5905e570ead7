package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/torre76/mediamcp/command"
	"github.com/torre76/mediamcp/ffmpeg"
)

// PathsTestSuite covers path derivation and error rendering.
type PathsTestSuite struct {
	suite.Suite
}

// TestDefaultOutput verifies the {stem}_{suffix}.{ext} rule.
func (s *PathsTestSuite) TestDefaultOutput() {
	testCases := []struct {
		input, suffix, ext, expected string
	}{
		{"/media/clip.mp4", "compressed", "", "/media/clip_compressed.mp4"},
		{"/media/clip.avi", "converted", "mkv", "/media/clip_converted.mkv"},
		{"/media/clip.mp4", "", "gif", "/media/clip.gif"},
		{"/media/archive.tar.gz", "cut", "", "/media/archive.tar_cut.gz"},
		{"/media/noext", "cut", "", "/media/noext_cut"},
		{"clip.mov", "speed_2_0x", "", "clip_speed_2_0x.mov"},
	}

	for _, tc := range testCases {
		assert.Equal(s.T(), filepath.FromSlash(tc.expected), DefaultOutput(filepath.FromSlash(tc.input), tc.suffix, tc.ext), tc.input)
	}
}

// TestDefaultSibling verifies fixed names next to the first input.
func (s *PathsTestSuite) TestDefaultSibling() {
	assert.Equal(s.T(), filepath.FromSlash("/media/merged_video.mp4"), DefaultSibling(filepath.FromSlash("/media/a.mp4"), "merged_video"))
	assert.Equal(s.T(), filepath.FromSlash("/media/merged_audio"), DefaultSibling(filepath.FromSlash("/media/a"), "merged_audio"))
}

// TestSplitPaths verifies trimming and that empty entries survive.
func (s *PathsTestSuite) TestSplitPaths() {
	assert.Equal(s.T(), []string{"a.mp4", "b.mp4"}, splitPaths(" a.mp4 ,b.mp4"))
	assert.Equal(s.T(), []string{"a.mp4", ""}, splitPaths("a.mp4,"))
}

// TestCountFrames verifies that only pattern-named files of the format count.
func (s *PathsTestSuite) TestCountFrames() {
	dir := s.T().TempDir()
	for _, name := range []string{"frame_0001.jpg", "frame_0002.jpg", "frame_12345.jpg", "frame_01.jpg", "frame_0003.png", "notes.txt"} {
		require.NoError(s.T(), os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(s.T(), os.Mkdir(filepath.Join(dir, "frame_0004.jpg"), 0o755))

	count, err := countFrames(dir, "jpg")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, count)

	_, err = countFrames(filepath.Join(dir, "missing"), "jpg")
	assert.Error(s.T(), err)
}

// TestTimeWindow verifies the optional window rendering.
func (s *PathsTestSuite) TestTimeWindow() {
	assert.Equal(s.T(), "", timeWindow("", ""))
	assert.Equal(s.T(), "start - 00:00:03", timeWindow("", "00:00:03"))
	assert.Equal(s.T(), "00:00:01 - 00:00:03", timeWindow("00:00:01", "00:00:03"))
}

// TestCompressionFields verifies the ratio, including an empty original.
func (s *PathsTestSuite) TestCompressionFields() {
	assert.Equal(s.T(), "Done\nOriginal size: 4.0MB\nCompressed size: 1.0MB\nCompression ratio: 75.0%",
		newReport("Done").compressionFields(4, 1).String())
	assert.Contains(s.T(), newReport("Done").compressionFields(0, 1).String(), "Compression ratio: 0.0%")
}

// TestOutcomeAndReport verifies the taxonomy mapping.
func (s *PathsTestSuite) TestOutcomeAndReport() {
	testCases := []struct {
		name    string
		err     error
		outcome string
		report  string
	}{
		{"validation", missingFile("input file", "/x.mp4"), OutcomeValidation, "Error: input file does not exist - /x.mp4"},
		{"capability", &CapabilityError{Feature: "Intel QSV hardware acceleration"}, OutcomeCapability,
			"Error: the system does not support Intel QSV hardware acceleration"},
		{"launch", &ffmpeg.LaunchError{Program: "ffmpeg", Err: errors.New("not found")}, OutcomeLaunch,
			"Error: could not start ffmpeg: not found"},
		{"execution", &ExecutionError{Step: "Cut", Result: ffmpeg.Result{ExitCode: 1, Stderr: "bad input"}}, OutcomeExecution,
			"Cut failed: bad input"},
		{"wrapped execution", fmt.Errorf("step: %w", &ExecutionError{Step: "Merge", Result: ffmpeg.Result{Stderr: "x"}}), OutcomeExecution,
			"Merge failed: x"},
		{"invalid graph", invalidGraph(fmt.Errorf("%w: chain 1 consumes undefined label %q", command.ErrInvalidGraph, "wm")), OutcomeValidation,
			`Error: invalid filter graph: chain 1 consumes undefined label "wm"`},
		{"unexpected", errors.New("disk full"), OutcomeUnexpected, "An error occurred: disk full"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			assert.Equal(s.T(), tc.outcome, Outcome(tc.err))
			assert.Equal(s.T(), tc.report, Report(tc.err))
		})
	}
	assert.Equal(s.T(), OutcomeSuccess, Outcome(nil))
}

// TestUnexpectedWrapping verifies that only uncategorized errors are wrapped.
func (s *PathsTestSuite) TestUnexpectedWrapping() {
	assert.Nil(s.T(), unexpected(nil))

	validation := validationf("speed must be greater than %d", 0)
	assert.Same(s.T(), validation, unexpected(validation))

	cause := errors.New("boom")
	wrapped := unexpected(cause)
	var u *UnexpectedError
	require.ErrorAs(s.T(), wrapped, &u)
	assert.ErrorIs(s.T(), wrapped, cause)
	assert.Same(s.T(), wrapped, unexpected(wrapped))
}

// TestArtifactName verifies the unique suffix placement.
func (s *PathsTestSuite) TestArtifactName() {
	assert.Equal(s.T(), "palette.png", artifactName("palette.png", false))
	assert.Regexp(s.T(), `^palette_[0-9a-f-]{36}\.png$`, artifactName("palette.png", true))
	assert.Equal(s.T(), lockPath("/tmp/a/video_list.txt"), lockPath("/tmp/a/video_list.txt"))
	assert.NotEqual(s.T(), lockPath("/tmp/a/video_list.txt"), lockPath("/tmp/b/video_list.txt"))
}

// TestPathsSuite runs the paths test suite.
func TestPathsSuite(t *testing.T) {
	suite.Run(t, new(PathsTestSuite))
}
