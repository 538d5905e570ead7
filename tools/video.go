package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/torre76/mediamcp/command"
	"github.com/torre76/mediamcp/ffmpeg"
)

// Private functions (alphabetical)

// probeFailure maps a prober error onto the taxonomy: a non-zero ffprobe exit
// is an ExecutionError for step, everything else passes through.
func probeFailure(step string, err error) error {
	var exitErr *ffmpeg.ExitError
	if errors.As(err, &exitErr) {
		return &ExecutionError{Step: step, Result: exitErr.Result}
	}
	return err
}

// speedDescription renders the direction of a speed change.
func speedDescription(speed float64) string {
	switch {
	case speed > 1.0:
		return "faster"
	case speed < 1.0:
		return "slower"
	default:
		return "normal speed"
	}
}

// Public methods (alphabetical)

// AddWatermark overlays an image on a video.
func (s *Service) AddWatermark(ctx context.Context, req AddWatermarkRequest) string {
	return s.invoke(ctx, ToolAddWatermark, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input video file", req.InputPath); err != nil {
			return "", err
		}
		if err := requireFile("watermark file", req.WatermarkPath); err != nil {
			return "", err
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "watermarked", ""))
		position := orDefault(req.Position, string(command.AnchorBottomRight))
		opacity := 0.8
		if req.Opacity != nil {
			opacity = *req.Opacity
		}
		margin := 10
		if req.Margin != nil {
			margin = *req.Margin
		}

		argv, err := s.builder.Watermark(command.WatermarkParams{
			Input:     req.InputPath,
			Watermark: req.WatermarkPath,
			Output:    output,
			Anchor:    command.ParseAnchor(position),
			Opacity:   opacity,
			Margin:    margin,
		})
		if err != nil {
			return "", invalidGraph(err)
		}
		if _, err := s.execute(ctx, inv, "Watermark", argv); err != nil {
			return "", err
		}

		return newReport("Watermark added!").
			field("Input file", req.InputPath).
			field("Watermark file", req.WatermarkPath).
			field("Output file", output).
			field("Position", position).
			field("Opacity", command.FormatFloat(opacity)).
			String(), nil
	})
}

// ChangeVideoSpeed retimes video and audio by a speed factor.
func (s *Service) ChangeVideoSpeed(ctx context.Context, req ChangeVideoSpeedRequest) string {
	return s.invoke(ctx, ToolChangeVideoSpeed, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}
		if req.Speed <= 0 {
			return "", validationf("speed must be greater than 0")
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "speed_"+command.SpeedLabel(req.Speed), ""))
		keepPitch := boolOr(req.KeepAudioPitch, true)

		argv, err := s.builder.ChangeSpeed(req.InputPath, output, req.Speed, keepPitch)
		if err != nil {
			return "", invalidGraph(err)
		}
		if _, err := s.execute(ctx, inv, "Speed change", argv); err != nil {
			return "", err
		}

		pitch := "(pitch follows speed)"
		if keepPitch {
			pitch = "(pitch kept)"
		}
		return newReport("Video speed changed!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Speed", fmt.Sprintf("%sx %s %s", command.FormatFloat(req.Speed), speedDescription(req.Speed), pitch)).
			String(), nil
	})
}

// CompressVideo re-encodes a video to reduce its size, by quality tier or
// towards a target size computed from the probed duration.
func (s *Service) CompressVideo(ctx context.Context, req CompressVideoRequest) string {
	return s.invoke(ctx, ToolCompressVideo, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}
		if req.TargetSizeMB < 0 {
			return "", validationf("target_size_mb must not be negative")
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "compressed", ""))
		originalMB, err := fileSizeMB(req.InputPath)
		if err != nil {
			return "", err
		}

		accel := command.ParseAccel(req.UseHardwareAcceleration, orDefault(req.HWAccelType, string(command.AccelQSV)))
		if err := s.requireAccel(ctx, inv, accel); err != nil {
			return "", err
		}

		params := command.CompressParams{
			Input:  req.InputPath,
			Output: output,
			Tier:   command.ParseTier(req.Quality),
			Accel:  accel,
		}
		if req.TargetSizeMB > 0 {
			duration, err := s.prober.Duration(ctx, req.InputPath)
			if err != nil {
				return "", probeFailure("Duration probe", err)
			}
			params.TargetKbps = command.BitrateForSize(req.TargetSizeMB, duration)
			inv.logger.Debug("target bitrate computed", "duration", duration, "kbps", params.TargetKbps)
		}

		argv, codec := s.builder.Compress(params)
		if _, err := s.execute(ctx, inv, "Video compression", argv); err != nil {
			return "", err
		}

		compressedMB, err := fileSizeMB(output)
		if err != nil {
			return "", err
		}
		return newReport("Video compressed!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Encoder", codec).
			compressionFields(originalMB, compressedMB).
			field("Quality", params.Tier).
			fieldIf(params.TargetKbps > 0, "Target size", fmt.Sprintf("%dMB (%dk)", req.TargetSizeMB, params.TargetKbps)).
			fieldIf(accel.Enabled(), "Hardware acceleration", accel.Label()).
			String(), nil
	})
}

// ConvertVideoFormat transcodes a video to another container and codec.
func (s *Service) ConvertVideoFormat(ctx context.Context, req ConvertVideoFormatRequest) string {
	return s.invoke(ctx, ToolConvertVideoFormat, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}

		format := orDefault(req.OutputFormat, "mp4")
		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "converted", format))
		accel := command.ParseAccel(req.UseHardwareAcceleration, orDefault(req.HWAccelType, string(command.AccelQSV)))
		if err := s.requireAccel(ctx, inv, accel); err != nil {
			return "", err
		}

		tier := command.ParseTier(req.Quality)
		argv, codec := s.builder.ConvertVideo(command.ConvertParams{
			Input:      req.InputPath,
			Output:     output,
			VideoCodec: orDefault(req.VideoCodec, command.DefaultVideoCodec),
			AudioCodec: orDefault(req.AudioCodec, "aac"),
			Tier:       tier,
			Accel:      accel,
		})
		if _, err := s.execute(ctx, inv, "Conversion", argv); err != nil {
			return "", err
		}

		return newReport("Video format converted!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Format", format).
			field("Encoder", codec).
			field("Quality", tier).
			fieldIf(accel.Enabled(), "Hardware acceleration", accel.Label()).
			String(), nil
	})
}

// CutVideoSegment trims a video. Stream copy is used unless a precise cut or
// hardware acceleration is requested, both of which re-encode.
func (s *Service) CutVideoSegment(ctx context.Context, req CutVideoSegmentRequest) string {
	return s.invoke(ctx, ToolCutVideoSegment, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}
		window := command.TimeRange{Start: req.StartTime, End: req.EndTime, Duration: req.Duration}.Normalize()
		if err := window.Validate(); err != nil {
			return "", &ValidationError{Message: err.Error()}
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "cut", ""))
		accel := command.ParseAccel(req.UseHardwareAcceleration, orDefault(req.HWAccelType, string(command.AccelQSV)))
		if err := s.requireAccel(ctx, inv, accel); err != nil {
			return "", err
		}

		argv, codec := s.builder.Cut(command.CutParams{
			Input:    req.InputPath,
			Output:   output,
			Range:    window,
			Reencode: req.PreciseCut || accel.Enabled(),
			Accel:    accel,
		})
		if _, err := s.execute(ctx, inv, "Cut", argv); err != nil {
			return "", err
		}

		mode := "stream copy"
		if codec != "copy" {
			mode = "re-encode (" + codec + ")"
		}
		return newReport("Video segment cut!").
			field("Input file", req.InputPath).
			field("Output file", output).
			line(window.Describe()).
			field("Mode", mode).
			fieldIf(accel.Enabled(), "Hardware acceleration", accel.Label()).
			String(), nil
	})
}

// ExtractFrames writes still images into a directory and counts them.
func (s *Service) ExtractFrames(ctx context.Context, req ExtractFramesRequest) string {
	return s.invoke(ctx, ToolExtractFrames, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}

		outputDir := req.OutputDir
		if outputDir == "" {
			outputDir = filepath.Join(filepath.Dir(req.InputPath), stem(req.InputPath)+"_frames")
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		format := orDefault(req.ImageFormat, "jpg")

		argv := s.builder.ExtractFrames(command.FramesParams{
			Input:     req.InputPath,
			OutputDir: outputDir,
			Format:    format,
			FPS:       req.FPS,
			Start:     req.StartTime,
			Duration:  req.Duration,
		})
		if _, err := s.execute(ctx, inv, "Frame extraction", argv); err != nil {
			return "", err
		}

		count, err := countFrames(outputDir, format)
		if err != nil {
			return "", fmt.Errorf("count frames: %w", err)
		}
		window := timeWindow(req.StartTime, req.Duration)
		return newReport("Frames extracted!").
			field("Input file", req.InputPath).
			field("Output directory", outputDir).
			field("Image format", format).
			field("Frame count", count).
			fieldIf(window != "", "Time range", window).
			fieldIf(req.FPS > 0, "Extraction rate", command.FormatFloat(req.FPS)+"fps").
			String(), nil
	})
}

// GetVideoInfo returns the raw ffprobe JSON of a file.
func (s *Service) GetVideoInfo(ctx context.Context, req GetVideoInfoRequest) string {
	return s.invoke(ctx, ToolGetVideoInfo, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("video file", req.VideoPath); err != nil {
			return "", err
		}
		result, err := s.prober.RawInfo(ctx, req.VideoPath)
		if err != nil {
			return "", probeFailure("Video info retrieval", err)
		}
		return "Video info:\n" + result.Stdout, nil
	})
}

// ResizeVideo scales a video to the requested dimensions.
func (s *Service) ResizeVideo(ctx context.Context, req ResizeVideoRequest) string {
	return s.invoke(ctx, ToolResizeVideo, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "resized", ""))
		keepAspect := boolOr(req.KeepAspectRatio, true)
		argv := s.builder.Resize(req.InputPath, output, req.Width, req.Height, keepAspect)
		if _, err := s.execute(ctx, inv, "Resize", argv); err != nil {
			return "", err
		}

		aspect := "(stretched to fill)"
		if keepAspect {
			aspect = "(aspect ratio kept)"
		}
		return newReport("Video resized!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Resolution", fmt.Sprintf("%dx%d %s", req.Width, req.Height, aspect)).
			String(), nil
	})
}

// VideoToGif renders an animated GIF in two passes: palette generation, then
// dithering against the palette. The palette is removed afterwards.
func (s *Service) VideoToGif(ctx context.Context, req VideoToGifRequest) string {
	return s.invoke(ctx, ToolVideoToGif, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "", "gif"))
		width := req.Width
		if width <= 0 {
			width = 480
		}
		fps := req.FPS
		if fps <= 0 {
			fps = 10
		}
		tier := command.ParseTier(req.Quality)

		palette, err := s.acquireArtifact(ctx, inv, filepath.Dir(output), "palette.png")
		if err != nil {
			return "", err
		}
		defer palette.release()

		params := command.GifParams{
			Input:    req.InputPath,
			Output:   output,
			Palette:  palette.path,
			Start:    req.StartTime,
			Duration: req.Duration,
			Width:    width,
			FPS:      fps,
			Tier:     tier,
		}
		render, err := s.builder.GifRender(params)
		if err != nil {
			return "", invalidGraph(err)
		}
		if _, err := s.execute(ctx, inv, "Palette generation", s.builder.GifPalette(params)); err != nil {
			return "", err
		}
		if _, err := s.execute(ctx, inv, "GIF conversion", render); err != nil {
			return "", err
		}

		window := timeWindow(req.StartTime, req.Duration)
		return newReport("Converted to GIF!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Size", fmt.Sprintf("%dpx wide", width)).
			field("Frame rate", fmt.Sprintf("%dfps", fps)).
			field("Quality", tier).
			fieldIf(window != "", "Time range", window).
			String(), nil
	})
}
