package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/torre76/mediamcp/command"
	"github.com/torre76/mediamcp/ffmpeg"
)

// Private constants (alphabetical)
const (
	// maxListedEncoders bounds the QSV encoder lines shown in the hardware report.
	maxListedEncoders = 5
)

// Private functions (alphabetical)

// supportMark renders a capability flag.
func supportMark(ok bool) string {
	if ok {
		return "✓ supported"
	}
	return "✗ not supported"
}

// Public methods (alphabetical)

// CheckHardwareAcceleration reports the acceleration backends and the QSV and
// NVENC encoders of the configured FFmpeg. Probe failures show up as
// "not supported" rather than as errors.
func (s *Service) CheckHardwareAcceleration(ctx context.Context) string {
	return s.invoke(ctx, ToolCheckHardwareAcceleration, func(ctx context.Context, inv *invocation) (string, error) {
		qsv := inv.caps.HardwareEncoders(ctx, ffmpeg.FamilyQSV)
		backends := inv.caps.AccelerationBackends(ctx)
		nvenc := inv.caps.Supports(ctx, ffmpeg.FamilyNVENC)

		var sb strings.Builder
		sb.WriteString("Hardware acceleration support:\n\n")
		if len(backends) > 0 {
			sb.WriteString("Available hardware accelerators:\n")
			for _, b := range backends {
				sb.WriteString("  - " + b + "\n")
			}
		}

		sb.WriteString("\nIntel QSV support: " + supportMark(len(qsv) > 0) + "\n")
		if len(qsv) > 0 {
			sb.WriteString("QSV encoders:\n")
			shown := qsv
			if len(shown) > maxListedEncoders {
				shown = shown[:maxListedEncoders]
			}
			for _, enc := range shown {
				sb.WriteString("  - " + enc + "\n")
			}
			if rest := len(qsv) - len(shown); rest > 0 {
				fmt.Fprintf(&sb, "  ... and %d more %s\n", rest, s.pluralizer.Pluralize("encoder", rest, false))
			}
		}
		sb.WriteString("NVIDIA NVENC support: " + supportMark(nvenc) + "\n")
		return sb.String(), nil
	})
}

// CompressVideoWithQSV compresses with a QSV encoder, either to a target
// bitrate or on the compact global_quality scale.
func (s *Service) CompressVideoWithQSV(ctx context.Context, req CompressVideoWithQSVRequest) string {
	return s.invoke(ctx, ToolCompressVideoWithQSV, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}
		if err := s.requireQSV(ctx, inv); err != nil {
			return "", err
		}

		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "qsv_compressed", ""))
		originalMB, err := fileSizeMB(req.InputPath)
		if err != nil {
			return "", err
		}

		tier := command.ParseTier(req.Quality)
		encoder := orDefault(req.QSVEncoder, "h264_qsv")
		argv := s.builder.CompressQSV(command.QSVCompressParams{
			Input:         req.InputPath,
			Output:        output,
			Encoder:       encoder,
			Tier:          tier,
			TargetBitrate: strings.TrimSpace(req.TargetBitrate),
		})
		if _, err := s.execute(ctx, inv, "QSV compression", argv); err != nil {
			return "", err
		}

		compressedMB, err := fileSizeMB(output)
		if err != nil {
			return "", err
		}
		return newReport("Video compressed with QSV acceleration!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Encoder", encoder).
			compressionFields(originalMB, compressedMB).
			field("Quality", tier).
			fieldIf(strings.TrimSpace(req.TargetBitrate) != "", "Target bitrate", strings.TrimSpace(req.TargetBitrate)).
			String(), nil
	})
}

// ConvertVideoWithQSV transcodes with a QSV encoder and preset.
func (s *Service) ConvertVideoWithQSV(ctx context.Context, req ConvertVideoWithQSVRequest) string {
	return s.invoke(ctx, ToolConvertVideoWithQSV, func(ctx context.Context, inv *invocation) (string, error) {
		if err := requireFile("input file", req.InputPath); err != nil {
			return "", err
		}
		if err := s.requireQSV(ctx, inv); err != nil {
			return "", err
		}

		format := orDefault(req.OutputFormat, "mp4")
		output := orDefault(req.OutputPath, DefaultOutput(req.InputPath, "qsv", format))
		tier := command.ParseTier(req.Quality)
		encoder := orDefault(req.QSVEncoder, "h264_qsv")
		preset := orDefault(req.QSVPreset, "medium")

		argv := s.builder.ConvertQSV(command.QSVConvertParams{
			Input:   req.InputPath,
			Output:  output,
			Encoder: encoder,
			Preset:  preset,
			Tier:    tier,
		})
		if _, err := s.execute(ctx, inv, "QSV conversion", argv); err != nil {
			return "", err
		}

		return newReport("Video converted with QSV acceleration!").
			field("Input file", req.InputPath).
			field("Output file", output).
			field("Encoder", encoder).
			field("Quality", tier).
			field("Preset", preset).
			String(), nil
	})
}
