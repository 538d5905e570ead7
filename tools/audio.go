package tools

import (
	"context"
	"strings"

	"github.com/torre76/mediamcp/command"
)

// Public methods (alphabetical)

// ConvertAudioFormat re-encodes an audio file.
func (s *Service) ConvertAudioFormat(ctx context.Context, req ConvertAudioFormatRequest) string {
	return s.invoke(ctx, ToolConvertAudioFormat, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}

		format := orDefault(req.OutputFormat, "mp3")
		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "converted", format))
		codec := orDefault(req.AudioCodec, "libmp3lame")
		bitrate := orDefault(req.Bitrate, "192k")

		argv := s.builder.ConvertAudio(req.InputPath, output, codec, bitrate)
		if _, err := s.execute(ctx, inv, "Conversion", argv); err != nil {
			return "", err
		}

		return newReport("Audio format converted!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Format", format).
			field("Codec", codec).
			field("Bitrate", bitrate).
			String(), nil
	})
}

// CutAudioSegment trims an audio file with stream copy.
func (s *Service) CutAudioSegment(ctx context.Context, req CutAudioSegmentRequest) string {
	return s.invoke(ctx, ToolCutAudioSegment, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}
		window := command.TimeRange{Start: req.StartTime, End: req.EndTime, Duration: req.Duration}.Normalize()
		if err := window.Validate(); err != nil {
			return "", &ValidationError{Message: err.Error()}
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "cut", ""))
		argv, _ := s.builder.Cut(command.CutParams{Input: req.InputPath, Output: output, Range: window})
		if _, err := s.execute(ctx, inv, "Cut", argv); err != nil {
			return "", err
		}

		return newReport("Audio segment cut!").
			field("Input file", req.InputPath).
			field("Output file", output).
			line(window.Describe()).
			String(), nil
	})
}

// ExtractAudioFromVideo writes the audio track of a video to its own file.
func (s *Service) ExtractAudioFromVideo(ctx context.Context, req ExtractAudioFromVideoRequest) string {
	return s.invoke(ctx, ToolExtractAudioFromVideo, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("video file", req.VideoPath); err != nil {
			return "", err
		}

		format := orDefault(req.AudioFormat, "mp3")
		quality := orDefault(req.AudioQuality, "192k")
		output := orDefault(req.OutputPath, DefaultOutput(req.VideoPath, "", format))

		argv := s.builder.ExtractAudio(req.VideoPath, output, format, quality)
		if _, err := s.execute(ctx, inv, "Audio extraction", argv); err != nil {
			return "", err
		}

		return newReport("Audio extracted!").
			field("Input file", req.VideoPath).
			field("Output file", output).
			field("Format", format).
			field("Quality", quality).
			String(), nil
	})
}

// ExtractAudioSegment writes the audio of a start/duration window.
func (s *Service) ExtractAudioSegment(ctx context.Context, req ExtractAudioSegmentRequest) string {
	return s.invoke(ctx, ToolExtractAudioSegment, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("video file", req.VideoPath); err != nil {
			return "", err
		}
		start := strings.TrimSpace(req.StartTime)
		duration := strings.TrimSpace(req.Duration)
		if start == "" || duration == "" {
			return "", validationf("start_time and duration must both be provided")
		}

		format := orDefault(req.AudioFormat, "mp3")
		output := orDefault(req.OutputPath, DefaultOutput(req.VideoPath, "segment", format))

		argv := s.builder.ExtractAudioSegment(req.VideoPath, output, format, start, duration)
		if _, err := s.execute(ctx, inv, "Audio segment extraction", argv); err != nil {
			return "", err
		}

		return newReport("Audio segment extracted!").
			field("Input file", req.VideoPath).
			field("Output file", output).
			field("Start time", start).
			field("Duration", duration).
			String(), nil
	})
}
