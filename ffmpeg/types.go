// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"fmt"
	"strings"
)

// Public types (alphabetical)

// AudioStream contains information about an audio stream in a container.
// It is filled from FFprobe's JSON stream description and used when
// summarizing a media file.
type AudioStream struct {
	// ID is the index of the stream in the container.
	ID string `json:"id"`

	// Format is the short codec name (e.g. aac, mp3).
	Format string `json:"format"`

	// FormatInfo is the long codec name.
	FormatInfo string `json:"format_info"`

	// CodecID is the codec tag as stored in the container.
	CodecID string `json:"codec_id"`

	// Duration is the duration of the audio stream in seconds.
	Duration float64 `json:"duration"`

	// BitRate is the bit rate of the audio stream in bits per second.
	BitRate int64 `json:"bit_rate"`

	// Channels is the number of channels in the audio stream.
	Channels int `json:"channels"`

	// ChannelLayout is the layout of the channels.
	ChannelLayout string `json:"channel_layout"`

	// SamplingRate is the sampling rate of the audio stream in Hz.
	SamplingRate int `json:"sampling_rate"`

	// Title is the title of the audio stream.
	Title string `json:"title"`

	// Language is the language of the audio stream.
	Language string `json:"language"`

	// Default indicates whether this is the default audio stream.
	Default bool `json:"default"`
}

// ContainerInfo represents detailed metadata about a media container file.
// It provides a structured representation of the container's properties including
// general information and details about all contained streams (video, audio, and subtitle).
type ContainerInfo struct {
	// General contains general information about the container.
	General GeneralInfo `json:"general"`

	// VideoStreams contains information about the video streams in the container.
	VideoStreams []VideoStream `json:"video_streams"`

	// AudioStreams contains information about the audio streams in the container.
	AudioStreams []AudioStream `json:"audio_streams"`

	// SubtitleStreams contains information about the subtitle streams in the container.
	SubtitleStreams []SubtitleStream `json:"subtitle_streams"`
}

// ExitError reports a probe or introspection command that ran but exited
// with a non-zero status. The captured streams are kept for diagnostics.
type ExitError struct {
	// Program is argv[0] of the failed invocation.
	Program string
	// Result is the full process outcome.
	Result Result
}

// FFmpegInfo contains information about the FFmpeg installation
type FFmpegInfo struct {
	// Installed is true if FFmpeg is found in the system
	Installed bool
	// Path is the full path to the FFmpeg executable
	Path string
	// Version is the version of FFmpeg
	Version string
	// Configuration is the ./configure line FFmpeg was built with
	Configuration string
	// Libraries lists the linked libav* libraries with their versions
	Libraries []string
}

// GeneralInfo contains general information about a media container.
type GeneralInfo struct {
	// CompleteName is the absolute path of the file.
	CompleteName string `json:"complete_name"`

	// Format is the container format.
	Format string `json:"format"`

	// FormatLongName is the descriptive name of the container format.
	FormatLongName string `json:"format_long_name"`

	// FileSize is the size of the file in bytes.
	FileSize int64 `json:"file_size"`

	// Duration is the duration of the media in seconds.
	Duration float64 `json:"duration"`

	// OverallBitRate is the overall bit rate of the container in bits per second.
	OverallBitRate int64 `json:"overall_bit_rate"`

	// EncodedDate is the date when the file was encoded.
	EncodedDate string `json:"encoded_date"`

	// WritingApplication is the application used to write the file.
	WritingApplication string `json:"writing_application"`
}

// LaunchError reports that a program could not be started at all.
// It is distinct from a program that ran and exited with a non-zero code,
// which is reported through Result.
type LaunchError struct {
	// Program is argv[0] of the failed invocation.
	Program string
	// Err is the underlying error returned by the operating system.
	Err error
}

// Result is the outcome of one finished process.
type Result struct {
	// ExitCode is the process exit status; zero is the only success value.
	ExitCode int
	// Stdout is the captured standard output, decoded as UTF-8.
	Stdout string
	// Stderr is the captured standard error, decoded as UTF-8.
	Stderr string
}

// SubtitleStream contains information about a subtitle stream in a container.
type SubtitleStream struct {
	// ID is the index of the stream in the container.
	ID string `json:"id"`

	// Format is the short codec name of the subtitle stream.
	Format string `json:"format"`

	// CodecIDInfo is the long codec name.
	CodecIDInfo string `json:"codec_id_info"`

	// Title is the title of the subtitle stream.
	Title string `json:"title"`

	// Language is the language of the subtitle stream.
	Language string `json:"language"`

	// Default indicates whether this is the default subtitle stream.
	Default bool `json:"default"`
}

// VideoStream represents information about a video stream in a media file
type VideoStream struct {
	ID                 string  `json:"id"`
	Format             string  `json:"format"`
	FormatInfo         string  `json:"format_info"`
	FormatProfile      string  `json:"format_profile"`
	CodecID            string  `json:"codec_id"`
	Duration           float64 `json:"duration"`
	BitRate            int64   `json:"bit_rate"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	DisplayAspectRatio string  `json:"display_aspect_ratio"`
	FrameRate          float64 `json:"frame_rate"`
	PixelFormat        string  `json:"pixel_format"`
	ColorSpace         string  `json:"color_space"`
	Language           string  `json:"language"`
	Title              string  `json:"title"`
	Default            bool    `json:"default"`
}

// Type methods (alphabetical)

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s%s exited with code %d: %s", errorPrefix, e.Program, e.Result.ExitCode, strings.TrimSpace(e.Result.Stderr))
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("%sunable to launch %s: %v", errorPrefix, e.Program, e.Err)
}

// String returns a one-line summary of the video stream.
func (v VideoStream) String() string {
	var parts []string

	if v.Format != "" {
		parts = append(parts, fmt.Sprintf("Codec: %s", v.Format))
	}

	if v.Width > 0 && v.Height > 0 {
		parts = append(parts, fmt.Sprintf("Resolution: %dx%d", v.Width, v.Height))
	}

	if v.FrameRate > 0 {
		parts = append(parts, fmt.Sprintf("FPS: %.3f", v.FrameRate))
	}

	if v.Duration > 0 {
		parts = append(parts, fmt.Sprintf("Duration: %.3fs", v.Duration))
	}

	return strings.Join(parts, ", ")
}

// Succeeded reports whether the process exited with status zero.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Unwrap returns the underlying operating system error.
func (e *LaunchError) Unwrap() error {
	return e.Err
}
