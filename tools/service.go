// Package tools implements the media operations exposed over MCP. Each
// operation validates its request, derives default paths, probes hardware
// when asked to, runs one or more FFmpeg commands through an ffmpeg.Runner,
// cleans up temporary artifacts and renders a plain-text report.
//
// Operations never return Go errors: every failure is turned into a report
// string at the operation boundary.
package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/gertd/go-pluralize"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/torre76/mediamcp/command"
	"github.com/torre76/mediamcp/ffmpeg"
)

// Public types (alphabetical)

// CallRecorder is told about every finished tool call. It is implemented by
// the metrics package.
type CallRecorder interface {
	ObserveToolCall(tool, outcome string, elapsed time.Duration)
}

// Options configures a Service.
type Options struct {
	// FFmpegPath is argv[0] for encodes and capability probes.
	FFmpegPath string
	// FFprobePath is argv[0] for duration and info probes.
	FFprobePath string
	// Logger is the parent logger; each call gets a named child.
	Logger hclog.Logger
	// Recorder receives call outcomes. Optional.
	Recorder CallRecorder
	// UniqueArtifactNames appends a UUID to manifest and palette names.
	UniqueArtifactNames bool
	// LockSharedArtifacts serializes invocations sharing a fixed artifact name.
	LockSharedArtifacts bool
}

// Service runs the media tools.
type Service struct {
	runner        ffmpeg.Runner
	builder       *command.Builder
	prober        *ffmpeg.Prober
	ffmpegPath    string
	logger        hclog.Logger
	recorder      CallRecorder
	pluralizer    *pluralize.Client
	uniqueNames   bool
	lockArtifacts bool
}

// Tool names, as exposed to MCP clients.
const (
	ToolAddWatermark              = "add_watermark"
	ToolChangeVideoSpeed          = "change_video_speed"
	ToolCheckHardwareAcceleration = "check_hardware_acceleration"
	ToolCompressVideo             = "compress_video"
	ToolCompressVideoWithQSV      = "compress_video_with_qsv"
	ToolConvertAudioFormat        = "convert_audio_format"
	ToolConvertVideoFormat        = "convert_video_format"
	ToolConvertVideoWithQSV       = "convert_video_with_qsv"
	ToolCutAudioSegment           = "cut_audio_segment"
	ToolCutVideoSegment           = "cut_video_segment"
	ToolExtractAudioFromVideo     = "extract_audio_from_video"
	ToolExtractAudioSegment       = "extract_audio_segment"
	ToolExtractFrames             = "extract_frames"
	ToolGetVideoInfo              = "get_video_info"
	ToolMergeAudios               = "merge_audios"
	ToolMergeM3U8ToMP4            = "merge_m3u8_to_mp4"
	ToolMergeVideos               = "merge_videos"
	ToolResizeVideo               = "resize_video"
	ToolVideoToGif                = "video_to_gif"
)

// Private types (alphabetical)

// invocation is the per-call state: a tagged logger and a capability prober
// whose cache lives exactly as long as the call.
type invocation struct {
	tool   string
	logger hclog.Logger
	caps   *ffmpeg.Capabilities
}

// operation is the body of one tool call.
type operation func(ctx context.Context, inv *invocation) (string, error)

// Public functions (alphabetical)

// New creates a Service running commands through runner.
func New(runner ffmpeg.Runner, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	ffmpegPath := opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = ffmpeg.DefaultFFmpegBinary
	}
	return &Service{
		runner:        runner,
		builder:       command.NewBuilder(ffmpegPath),
		prober:        ffmpeg.NewProber(opts.FFprobePath, runner),
		ffmpegPath:    ffmpegPath,
		logger:        logger,
		recorder:      opts.Recorder,
		pluralizer:    pluralize.NewClient(),
		uniqueNames:   opts.UniqueArtifactNames,
		lockArtifacts: opts.LockSharedArtifacts,
	}
}

// Private methods (alphabetical)

// execute runs one step. A launch failure is returned as is; a non-zero exit
// becomes an ExecutionError carrying the captured streams.
func (s *Service) execute(ctx context.Context, inv *invocation, step string, argv command.Argv) (ffmpeg.Result, error) {
	inv.logger.Debug("running step", "step", step, "command", argv.String())
	result, err := s.runner.Run(ctx, argv)
	if err != nil {
		return result, err
	}
	if !result.Succeeded() {
		return result, &ExecutionError{Step: step, Result: result}
	}
	return result, nil
}

// invoke runs op inside the call boundary: it tags the logger, records the
// outcome and converts any error (or panic) into a report string.
func (s *Service) invoke(ctx context.Context, tool string, op operation) string {
	logger := s.logger.Named(tool).With("request_id", uuid.NewString())
	inv := &invocation{
		tool:   tool,
		logger: logger,
		caps:   ffmpeg.NewCapabilities(s.ffmpegPath, s.runner, logger.Named("capabilities")),
	}

	started := time.Now()
	text, err := s.protect(ctx, inv, op)
	err = unexpected(err)
	elapsed := time.Since(started)

	outcome := Outcome(err)
	if s.recorder != nil {
		s.recorder.ObserveToolCall(tool, outcome, elapsed)
	}
	if err != nil {
		logger.Warn("tool call failed", "outcome", outcome, "error", err, "elapsed", elapsed)
		return Report(err)
	}
	logger.Info("tool call finished", "elapsed", elapsed)
	return text
}

// protect runs op and turns a panic into an UnexpectedError.
func (s *Service) protect(ctx context.Context, inv *invocation, op operation) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UnexpectedError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return op(ctx, inv)
}

// requireAccel rejects QSV acceleration when no QSV encoder is available.
// Other backends are not probed.
func (s *Service) requireAccel(ctx context.Context, inv *invocation, accel command.Accel) error {
	if !accel.NeedsProbe() {
		return nil
	}
	return s.requireQSV(ctx, inv)
}

// requireQSV fails with a CapabilityError when the encoder listing has no
// QSV encoder.
func (s *Service) requireQSV(ctx context.Context, inv *invocation) error {
	if !inv.caps.Supports(ctx, ffmpeg.FamilyQSV) {
		return &CapabilityError{Feature: "Intel QSV hardware acceleration"}
	}
	return nil
}
