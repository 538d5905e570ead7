package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/torre76/mediamcp/ffmpeg"
)

// Private constants (alphabetical)
const (
	encodersWithHardware = ` V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V..... h264_qsv             H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (Intel Quick Sync Video acceleration) (codec h264)
 V..... hevc_qsv             HEVC (Intel Quick Sync Video acceleration) (codec hevc)
 V..... h264_nvenc           NVIDIA NVENC H.264 encoder (codec h264)
`

	encodersSoftwareOnly = ` V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 A....D aac                  AAC (Advanced Audio Coding)
`

	megabyte = 1024 * 1024
)

// Private types (alphabetical)

// fakeRunner records every argv and emulates FFmpeg: introspection commands
// return canned output and encodes create their output file.
type fakeRunner struct {
	mutex      sync.Mutex
	calls      [][]string
	encoders   string
	hwaccels   string
	duration   string
	outputSize int64
	launchErr  error
	// hook, when it returns true, replaces the default behavior.
	hook func(argv []string) (ffmpeg.Result, bool)
}

// recordedCall is one ObserveToolCall notification.
type recordedCall struct {
	tool    string
	outcome string
}

// recorder collects tool call outcomes.
type recorder struct {
	mutex sync.Mutex
	calls []recordedCall
}

// Private functions (alphabetical)

// argIndex returns the index of flag in argv, or -1.
func argIndex(argv []string, flag string) int {
	for i, a := range argv {
		if a == flag {
			return i
		}
	}
	return -1
}

// Private methods (alphabetical)

// Run implements ffmpeg.Runner.
func (f *fakeRunner) Run(_ context.Context, argv []string) (ffmpeg.Result, error) {
	f.mutex.Lock()
	f.calls = append(f.calls, append([]string(nil), argv...))
	hook := f.hook
	f.mutex.Unlock()

	if f.launchErr != nil {
		return ffmpeg.Result{}, &ffmpeg.LaunchError{Program: argv[0], Err: f.launchErr}
	}
	if hook != nil {
		if result, ok := hook(argv); ok {
			return result, nil
		}
	}

	switch {
	case argIndex(argv, "-encoders") >= 0:
		return ffmpeg.Result{Stdout: f.encoders}, nil
	case argIndex(argv, "-hwaccels") >= 0:
		return ffmpeg.Result{Stdout: f.hwaccels}, nil
	case argIndex(argv, "format=duration") >= 0:
		return ffmpeg.Result{Stdout: f.duration}, nil
	case argIndex(argv, "-print_format") >= 0:
		return ffmpeg.Result{Stdout: `{"format":{"duration":"1.0"}}`}, nil
	}

	output := argv[len(argv)-1]
	if !strings.Contains(output, "%") {
		file, err := os.Create(output)
		if err != nil {
			return ffmpeg.Result{ExitCode: 1, Stderr: err.Error()}, nil
		}
		_ = file.Truncate(f.outputSize)
		_ = file.Close()
	}
	return ffmpeg.Result{}, nil
}

// joined returns call i rendered as one string.
func (f *fakeRunner) joined(i int) string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return strings.Join(f.calls[i], " ")
}

// count returns the number of recorded calls.
func (f *fakeRunner) count() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.calls)
}

// ObserveToolCall implements CallRecorder.
func (r *recorder) ObserveToolCall(tool, outcome string, _ time.Duration) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls = append(r.calls, recordedCall{tool: tool, outcome: outcome})
}

// last returns the most recent notification.
func (r *recorder) last() recordedCall {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if len(r.calls) == 0 {
		return recordedCall{}
	}
	return r.calls[len(r.calls)-1]
}

// ServiceTestSuite drives every tool through a fake runner.
type ServiceTestSuite struct {
	suite.Suite
	dir      string
	runner   *fakeRunner
	recorder *recorder
	service  *Service
	ctx      context.Context
}

// SetupTest creates a scratch directory and a fresh service.
func (s *ServiceTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.ctx = context.Background()
	s.runner = &fakeRunner{
		encoders:   encodersSoftwareOnly,
		hwaccels:   "Hardware acceleration methods:\ncuda\nqsv\n",
		outputSize: 10 * megabyte,
	}
	s.recorder = &recorder{}
	s.service = New(s.runner, Options{
		FFmpegPath:          "ffmpeg",
		FFprobePath:         "ffprobe",
		Recorder:            s.recorder,
		LockSharedArtifacts: true,
	})
}

// file creates a sparse file of the given size in the scratch directory.
func (s *ServiceTestSuite) file(name string, size int64) string {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	require.NoError(s.T(), err)
	require.NoError(s.T(), f.Truncate(size))
	require.NoError(s.T(), f.Close())
	return path
}

// TestCompressVideoScenario covers the low-quality software compression path.
func (s *ServiceTestSuite) TestCompressVideoScenario() {
	input := s.file("clip.mp4", 50*megabyte)

	report := s.service.CompressVideo(s.ctx, CompressVideoRequest{InputPath: input, Quality: "low"})

	require.Equal(s.T(), 1, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(0), "-c:v libx264 -crf 28 -c:a aac -b:a 128k")
	assert.Contains(s.T(), report, "Video compressed!")
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "clip_compressed.mp4"))
	assert.Contains(s.T(), report, "Original size: 50.0MB")
	assert.Contains(s.T(), report, "Compressed size: 10.0MB")
	assert.Contains(s.T(), report, "Compression ratio: 80.0%")
	assert.Contains(s.T(), report, "Quality: low")
	assert.NotContains(s.T(), report, "Hardware acceleration")
	assert.Equal(s.T(), recordedCall{tool: ToolCompressVideo, outcome: OutcomeSuccess}, s.recorder.last())
}

// TestCompressVideoTargetSize covers the probe-then-encode path.
func (s *ServiceTestSuite) TestCompressVideoTargetSize() {
	input := s.file("clip.mp4", 50*megabyte)
	s.runner.duration = "60.000000\n"

	report := s.service.CompressVideo(s.ctx, CompressVideoRequest{InputPath: input, TargetSizeMB: 10})

	require.Equal(s.T(), 2, s.runner.count())
	assert.Equal(s.T(), "ffprobe -v quiet -show_entries format=duration -of csv=p=0 "+input, s.runner.joined(0))
	assert.Contains(s.T(), s.runner.joined(1), "-c:v libx264 -b:v 1365k -c:a aac")
	assert.NotContains(s.T(), s.runner.joined(1), "-crf")
	assert.Contains(s.T(), report, "Target size: 10MB (1365k)")
}

// TestCompressVideoNegativeTargetSize verifies that a negative size is rejected.
func (s *ServiceTestSuite) TestCompressVideoNegativeTargetSize() {
	input := s.file("clip.mp4", megabyte)

	report := s.service.CompressVideo(s.ctx, CompressVideoRequest{InputPath: input, TargetSizeMB: -5})

	assert.Equal(s.T(), "Error: target_size_mb must not be negative", report)
	assert.Equal(s.T(), 0, s.runner.count())
	assert.Equal(s.T(), OutcomeValidation, s.recorder.last().outcome)
}

// TestCompressVideoDurationFailure verifies that no encode runs without a duration.
func (s *ServiceTestSuite) TestCompressVideoDurationFailure() {
	input := s.file("clip.mp4", megabyte)
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		if argv[0] == "ffprobe" {
			return ffmpeg.Result{ExitCode: 1, Stderr: "moov atom not found"}, true
		}
		return ffmpeg.Result{}, false
	}

	report := s.service.CompressVideo(s.ctx, CompressVideoRequest{InputPath: input, TargetSizeMB: 5})

	assert.Equal(s.T(), 1, s.runner.count())
	assert.Equal(s.T(), "Duration probe failed: moov atom not found", report)
	assert.Equal(s.T(), OutcomeExecution, s.recorder.last().outcome)
}

// TestQSVRejectedWithoutEncoders verifies capability checks run before any encode.
func (s *ServiceTestSuite) TestQSVRejectedWithoutEncoders() {
	input := s.file("clip.mp4", megabyte)

	testCases := map[string]func() string{
		"compress_video_with_qsv": func() string {
			return s.service.CompressVideoWithQSV(s.ctx, CompressVideoWithQSVRequest{InputPath: input})
		},
		"convert_video_with_qsv": func() string {
			return s.service.ConvertVideoWithQSV(s.ctx, ConvertVideoWithQSVRequest{InputPath: input})
		},
		"convert_video_format": func() string {
			return s.service.ConvertVideoFormat(s.ctx, ConvertVideoFormatRequest{InputPath: input, UseHardwareAcceleration: true})
		},
		"compress_video": func() string {
			return s.service.CompressVideo(s.ctx, CompressVideoRequest{InputPath: input, UseHardwareAcceleration: true, HWAccelType: "qsv"})
		},
		"cut_video_segment": func() string {
			return s.service.CutVideoSegment(s.ctx, CutVideoSegmentRequest{
				InputPath: input, StartTime: "0", Duration: "5", UseHardwareAcceleration: true,
			})
		},
	}

	for name, call := range testCases {
		s.Run(name, func() {
			s.runner.calls = nil
			report := call()
			assert.Equal(s.T(), "Error: the system does not support Intel QSV hardware acceleration", report)
			require.Equal(s.T(), 1, s.runner.count())
			assert.Equal(s.T(), "ffmpeg -hide_banner -encoders", s.runner.joined(0))
			assert.Equal(s.T(), OutcomeCapability, s.recorder.last().outcome)
		})
	}
}

// TestConvertVideoFormatWithQSV verifies substitution after a successful probe.
func (s *ServiceTestSuite) TestConvertVideoFormatWithQSV() {
	input := s.file("clip.avi", megabyte)
	s.runner.encoders = encodersWithHardware

	report := s.service.ConvertVideoFormat(s.ctx, ConvertVideoFormatRequest{
		InputPath: input, VideoCodec: "libx265", Quality: "high", UseHardwareAcceleration: true,
	})

	require.Equal(s.T(), 2, s.runner.count())
	assert.Equal(s.T(),
		"ffmpeg -hwaccel qsv -i "+input+" -c:v hevc_qsv -global_quality 18 -c:a aac -y "+filepath.Join(s.dir, "clip_converted.mp4"),
		s.runner.joined(1))
	assert.Contains(s.T(), report, "Encoder: hevc_qsv")
	assert.Contains(s.T(), report, "Hardware acceleration: QSV")
}

// TestConvertVideoFormatWithNVENC verifies that NVENC is not probed.
func (s *ServiceTestSuite) TestConvertVideoFormatWithNVENC() {
	input := s.file("clip.mov", megabyte)

	report := s.service.ConvertVideoFormat(s.ctx, ConvertVideoFormatRequest{
		InputPath: input, OutputFormat: "mkv", UseHardwareAcceleration: true, HWAccelType: "nvenc",
	})

	require.Equal(s.T(), 1, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(0), "-hwaccel cuda -i "+input+" -c:v h264_nvenc -cq 23")
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "clip_converted.mkv"))
	assert.Contains(s.T(), report, "Hardware acceleration: NVENC")
}

// TestCompressVideoWithQSV verifies the compact scale and size metrics.
func (s *ServiceTestSuite) TestCompressVideoWithQSV() {
	input := s.file("clip.mp4", 20*megabyte)
	s.runner.encoders = encodersWithHardware

	report := s.service.CompressVideoWithQSV(s.ctx, CompressVideoWithQSVRequest{InputPath: input, Quality: "high"})

	require.Equal(s.T(), 2, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(1), "-c:v h264_qsv -preset medium -global_quality 20 -c:a aac -b:a 128k")
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "clip_qsv_compressed.mp4"))
	assert.Contains(s.T(), report, "Compression ratio: 50.0%")
}

// TestMergeVideosConcat verifies the manifest lifecycle around the demuxer call.
func (s *ServiceTestSuite) TestMergeVideosConcat() {
	a := s.file("a.mp4", megabyte)
	b := s.file("b.mp4", megabyte)

	var manifest, body string
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		if i := argIndex(argv, "concat"); i >= 0 {
			manifest = argv[argIndex(argv, "-i")+1]
			data, err := os.ReadFile(manifest)
			if err == nil {
				body = string(data)
			}
		}
		return ffmpeg.Result{}, false
	}

	report := s.service.MergeVideos(s.ctx, MergeVideosRequest{VideoPaths: a + ", " + b})

	require.Equal(s.T(), 1, s.runner.count())
	assert.Equal(s.T(), filepath.Join(s.dir, "video_list.txt"), manifest)
	assert.Equal(s.T(), "file '"+a+"'\nfile '"+b+"'\n", body)
	assert.NoFileExists(s.T(), manifest)
	assert.Contains(s.T(), report, "Input files: "+a+", "+b)
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "merged_video.mp4"))
	assert.Contains(s.T(), report, "Merge method: concat")
}

// TestMergeVideosConcatFailureRemovesManifest verifies cleanup on failure.
func (s *ServiceTestSuite) TestMergeVideosConcatFailureRemovesManifest() {
	a := s.file("a.mp4", megabyte)
	b := s.file("b.mp4", megabyte)
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		return ffmpeg.Result{ExitCode: 1, Stderr: "Invalid data found"}, true
	}

	report := s.service.MergeVideos(s.ctx, MergeVideosRequest{VideoPaths: a + "," + b})

	assert.Equal(s.T(), "Merge failed: Invalid data found", report)
	assert.NoFileExists(s.T(), filepath.Join(s.dir, "video_list.txt"))
}

// TestMergeVideosFilter verifies the filter method.
func (s *ServiceTestSuite) TestMergeVideosFilter() {
	a := s.file("a.mp4", megabyte)
	b := s.file("b.mp4", megabyte)

	report := s.service.MergeVideos(s.ctx, MergeVideosRequest{VideoPaths: a + "," + b, MergeMethod: "filter"})

	require.Equal(s.T(), 1, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(0), "[0:v][0:a][1:v][1:a]concat=n=2:v=1:a=1[outv][outa] -map [outv] -map [outa]")
	assert.Contains(s.T(), report, "Merge method: filter")
}

// TestMergeValidation verifies short-circuits before any process runs.
func (s *ServiceTestSuite) TestMergeValidation() {
	a := s.file("a.mp3", megabyte)
	missing := filepath.Join(s.dir, "missing.mp3")

	assert.Equal(s.T(), "Error: at least two audio files are required to merge",
		s.service.MergeAudios(s.ctx, MergeAudiosRequest{AudioPaths: a}))
	assert.Equal(s.T(), "Error: audio file does not exist - "+missing,
		s.service.MergeAudios(s.ctx, MergeAudiosRequest{AudioPaths: a + "," + missing}))
	assert.Equal(s.T(), "Error: video file does not exist - ",
		s.service.MergeVideos(s.ctx, MergeVideosRequest{VideoPaths: a + ","}))
	assert.Equal(s.T(), 0, s.runner.count())
	assert.Equal(s.T(), OutcomeValidation, s.recorder.last().outcome)
}

// TestMergeAudiosMix verifies the mix method.
func (s *ServiceTestSuite) TestMergeAudiosMix() {
	a := s.file("a.mp3", megabyte)
	b := s.file("b.mp3", megabyte)
	c := s.file("c.mp3", megabyte)

	report := s.service.MergeAudios(s.ctx, MergeAudiosRequest{AudioPaths: strings.Join([]string{a, b, c}, ","), MergeMethod: "mix"})

	require.Equal(s.T(), 1, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(0), "-filter_complex amix=inputs=3:duration=longest -y "+filepath.Join(s.dir, "merged_audio.mp3"))
	assert.Contains(s.T(), report, "Merge method: mix")
}

// TestUniqueArtifactNames verifies UUID-suffixed manifests.
func (s *ServiceTestSuite) TestUniqueArtifactNames() {
	service := New(s.runner, Options{UniqueArtifactNames: true})
	a := s.file("a.mp4", megabyte)
	b := s.file("b.mp4", megabyte)

	var manifest string
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		if argIndex(argv, "concat") >= 0 {
			manifest = argv[argIndex(argv, "-i")+1]
		}
		return ffmpeg.Result{}, false
	}

	service.MergeVideos(s.ctx, MergeVideosRequest{VideoPaths: a + "," + b})

	assert.Regexp(s.T(), regexp.MustCompile(`video_list_[0-9a-f-]{36}\.txt$`), manifest)
	assert.NoFileExists(s.T(), manifest)
}

// TestVideoToGif verifies the two-step pipeline and palette removal.
func (s *ServiceTestSuite) TestVideoToGif() {
	input := s.file("clip.mp4", megabyte)
	palette := filepath.Join(s.dir, "palette.png")

	report := s.service.VideoToGif(s.ctx, VideoToGifRequest{InputPath: input, StartTime: "00:00:02", Quality: "low"})

	require.Equal(s.T(), 2, s.runner.count())
	assert.Equal(s.T(),
		"ffmpeg -ss 00:00:02 -i "+input+" -vf fps=10,scale=480:-1:flags=lanczos,palettegen=max_colors=64 -y "+palette,
		s.runner.joined(0))
	assert.Equal(s.T(),
		"ffmpeg -ss 00:00:02 -i "+input+" -i "+palette+
			" -filter_complex fps=10,scale=480:-1:flags=lanczos[x];[x][1:v]paletteuse=dither=bayer:bayer_scale=1 -y "+
			filepath.Join(s.dir, "clip.gif"),
		s.runner.joined(1))
	assert.NoFileExists(s.T(), palette)
	assert.Contains(s.T(), report, "Size: 480px wide")
	assert.Contains(s.T(), report, "Frame rate: 10fps")
	assert.Contains(s.T(), report, "Time range: 00:00:02 - end")
}

// TestArtifactLockFileRemoved verifies that releasing an artifact leaves no
// lock file behind and that the next invocation can lock the same path.
func (s *ServiceTestSuite) TestArtifactLockFileRemoved() {
	inv := &invocation{tool: ToolMergeVideos, logger: hclog.NewNullLogger()}
	lock := lockPath(filepath.Join(s.dir, "video_list.txt"))

	first, err := s.service.acquireArtifact(s.ctx, inv, s.dir, "video_list.txt")
	require.NoError(s.T(), err)
	assert.FileExists(s.T(), lock)
	first.release()
	assert.NoFileExists(s.T(), lock)

	second, err := s.service.acquireArtifact(s.ctx, inv, s.dir, "video_list.txt")
	require.NoError(s.T(), err)
	assert.FileExists(s.T(), lock)
	second.release()
	assert.NoFileExists(s.T(), lock)

	input := s.file("clip.mp4", megabyte)
	s.service.VideoToGif(s.ctx, VideoToGifRequest{InputPath: input})
	assert.NoFileExists(s.T(), lockPath(filepath.Join(s.dir, "palette.png")))
}

// TestVideoToGifRenderFailure verifies palette removal when step 2 fails.
func (s *ServiceTestSuite) TestVideoToGifRenderFailure() {
	input := s.file("clip.mp4", megabyte)
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		if argIndex(argv, "-filter_complex") >= 0 {
			return ffmpeg.Result{ExitCode: 1, Stderr: "render error"}, true
		}
		return ffmpeg.Result{}, false
	}

	report := s.service.VideoToGif(s.ctx, VideoToGifRequest{InputPath: input})

	assert.Equal(s.T(), 2, s.runner.count())
	assert.Equal(s.T(), "GIF conversion failed: render error", report)
	assert.NoFileExists(s.T(), filepath.Join(s.dir, "palette.png"))
}

// TestVideoToGifPaletteFailure verifies that step 2 is skipped.
func (s *ServiceTestSuite) TestVideoToGifPaletteFailure() {
	input := s.file("clip.mp4", megabyte)
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		return ffmpeg.Result{ExitCode: 1, Stderr: "palette error"}, true
	}

	report := s.service.VideoToGif(s.ctx, VideoToGifRequest{InputPath: input})

	assert.Equal(s.T(), 1, s.runner.count())
	assert.Equal(s.T(), "Palette generation failed: palette error", report)
}

// TestCutValidation verifies the end/duration exclusivity rule.
func (s *ServiceTestSuite) TestCutValidation() {
	input := s.file("clip.mp4", megabyte)

	assert.Equal(s.T(), "Error: provide either end_time or duration, not both",
		s.service.CutVideoSegment(s.ctx, CutVideoSegmentRequest{InputPath: input, StartTime: "0", EndTime: "5", Duration: "5"}))
	assert.Equal(s.T(), "Error: either end_time or duration must be provided",
		s.service.CutAudioSegment(s.ctx, CutAudioSegmentRequest{InputPath: input, StartTime: "0"}))
	assert.Equal(s.T(), 0, s.runner.count())
}

// TestCutVideoSegment verifies stream copy and precise re-encode.
func (s *ServiceTestSuite) TestCutVideoSegment() {
	input := s.file("clip.mp4", megabyte)
	output := filepath.Join(s.dir, "clip_cut.mp4")

	report := s.service.CutVideoSegment(s.ctx, CutVideoSegmentRequest{InputPath: input, StartTime: "00:00:10", EndTime: "00:00:20"})
	assert.Equal(s.T(), "ffmpeg -i "+input+" -ss 00:00:10 -to 00:00:20 -c copy -y "+output, s.runner.joined(0))
	assert.Contains(s.T(), report, "Start time: 00:00:10, end time: 00:00:20")
	assert.Contains(s.T(), report, "Mode: stream copy")

	report = s.service.CutVideoSegment(s.ctx, CutVideoSegmentRequest{InputPath: input, StartTime: "10", Duration: "5", PreciseCut: true})
	assert.Equal(s.T(), "ffmpeg -i "+input+" -ss 10 -t 5 -c:v libx264 -crf 23 -c:a aac -y "+output, s.runner.joined(1))
	assert.Contains(s.T(), report, "Mode: re-encode (libx264)")
}

// TestChangeVideoSpeed verifies validation and the default output name.
func (s *ServiceTestSuite) TestChangeVideoSpeed() {
	input := s.file("clip.mp4", megabyte)

	assert.Equal(s.T(), "Error: speed must be greater than 0",
		s.service.ChangeVideoSpeed(s.ctx, ChangeVideoSpeedRequest{InputPath: input, Speed: 0}))
	assert.Equal(s.T(), 0, s.runner.count())

	report := s.service.ChangeVideoSpeed(s.ctx, ChangeVideoSpeedRequest{InputPath: input, Speed: 4})
	require.Equal(s.T(), 1, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(0), "[0:v]setpts=0.25*PTS[v];[0:a]atempo=2.0,atempo=2.0[a]")
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "clip_speed_4_0x.mp4"))
	assert.Contains(s.T(), report, "Speed: 4.0x faster (pitch kept)")
}

// TestExtractFrames verifies the output directory and frame counting.
func (s *ServiceTestSuite) TestExtractFrames() {
	input := s.file("clip.mp4", megabyte)
	framesDir := filepath.Join(s.dir, "clip_frames")
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		for _, name := range []string{"frame_0001.png", "frame_0002.png", "frame_0003.png", "frame_0004.jpg", "cover.png"} {
			_ = os.WriteFile(filepath.Join(framesDir, name), nil, 0o644)
		}
		return ffmpeg.Result{}, true
	}

	report := s.service.ExtractFrames(s.ctx, ExtractFramesRequest{InputPath: input, FPS: 0.5, ImageFormat: "png"})

	require.Equal(s.T(), 1, s.runner.count())
	assert.Equal(s.T(), "ffmpeg -i "+input+" -vf fps=0.5 -y "+filepath.Join(framesDir, "frame_%04d.png"), s.runner.joined(0))
	assert.Contains(s.T(), report, "Frame count: 3")
	assert.Contains(s.T(), report, "Extraction rate: 0.5fps")
	assert.DirExists(s.T(), framesDir)
}

// TestAddWatermark verifies both file checks and the overlay graph.
func (s *ServiceTestSuite) TestAddWatermark() {
	input := s.file("clip.mp4", megabyte)
	logo := filepath.Join(s.dir, "logo.png")

	assert.Equal(s.T(), "Error: watermark file does not exist - "+logo,
		s.service.AddWatermark(s.ctx, AddWatermarkRequest{InputPath: input, WatermarkPath: logo}))
	assert.Equal(s.T(), 0, s.runner.count())

	s.file("logo.png", 1024)
	margin := 0
	report := s.service.AddWatermark(s.ctx, AddWatermarkRequest{InputPath: input, WatermarkPath: logo, Position: "center", Margin: &margin})
	require.Equal(s.T(), 1, s.runner.count())
	assert.Contains(s.T(), s.runner.joined(0), "[1:v]format=rgba,colorchannelmixer=aa=0.8[watermark];[0:v][watermark]overlay=(W-w)/2:(H-h)/2")
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "clip_watermarked.mp4"))
}

// TestAudioTools verifies the default outputs of the audio operations.
func (s *ServiceTestSuite) TestAudioTools() {
	input := s.file("talk.mp4", megabyte)

	report := s.service.ExtractAudioFromVideo(s.ctx, ExtractAudioFromVideoRequest{VideoPath: input})
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "talk.mp3"))
	assert.Contains(s.T(), s.runner.joined(0), "-vn -acodec libmp3lame -ab 192k")

	report = s.service.ExtractAudioSegment(s.ctx, ExtractAudioSegmentRequest{VideoPath: input, StartTime: "1", Duration: "2", AudioFormat: "wav"})
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "talk_segment.wav"))
	assert.Contains(s.T(), s.runner.joined(1), "-ss 1 -t 2 -vn -acodec copy")

	report = s.service.ConvertAudioFormat(s.ctx, ConvertAudioFormatRequest{InputPath: input, OutputFormat: "ogg", AudioCodec: "libvorbis"})
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "talk_converted.ogg"))
	assert.Contains(s.T(), s.runner.joined(2), "-c:a libvorbis -b:a 192k")

	assert.Equal(s.T(), "Error: start_time and duration must both be provided",
		s.service.ExtractAudioSegment(s.ctx, ExtractAudioSegmentRequest{VideoPath: input, StartTime: "1"}))
	assert.Equal(s.T(), 3, s.runner.count())
}

// TestMergeM3U8ToMP4 verifies header placement.
func (s *ServiceTestSuite) TestMergeM3U8ToMP4() {
	output := filepath.Join(s.dir, "stream.mp4")

	report := s.service.MergeM3U8ToMP4(s.ctx, MergeM3U8ToMP4Request{
		M3U8URL: "https://cdn.example.com/index.m3u8", OutputPath: output, Headers: "Referer: https://example.com",
	})

	assert.Equal(s.T(),
		"ffmpeg -headers Referer: https://example.com -i https://cdn.example.com/index.m3u8 -c copy -bsf:a aac_adtstoasc -y "+output,
		s.runner.joined(0))
	assert.Contains(s.T(), report, "M3U8 URL: https://cdn.example.com/index.m3u8")
	assert.Equal(s.T(), "Error: output_path must be provided",
		s.service.MergeM3U8ToMP4(s.ctx, MergeM3U8ToMP4Request{M3U8URL: "https://cdn.example.com/index.m3u8"}))
}

// TestCheckHardwareAcceleration verifies the report and the single listing.
func (s *ServiceTestSuite) TestCheckHardwareAcceleration() {
	var lines []string
	for _, name := range []string{"h264_qsv", "hevc_qsv", "av1_qsv", "mjpeg_qsv", "mpeg2_qsv", "vp9_qsv", "vvc_qsv"} {
		lines = append(lines, " V..... "+name+"  Intel QSV encoder")
	}
	s.runner.encoders = strings.Join(lines, "\n") + "\n V..... h264_nvenc  NVIDIA NVENC\n"

	report := s.service.CheckHardwareAcceleration(s.ctx)

	assert.Contains(s.T(), report, "Available hardware accelerators:\n  - cuda\n  - qsv\n")
	assert.Contains(s.T(), report, "Intel QSV support: ✓ supported")
	assert.Contains(s.T(), report, "  - V..... mpeg2_qsv  Intel QSV encoder\n")
	assert.NotContains(s.T(), report, "vp9_qsv")
	assert.Contains(s.T(), report, "  ... and 2 more encoders\n")
	assert.Contains(s.T(), report, "NVIDIA NVENC support: ✓ supported")

	encoderCalls := 0
	for i := 0; i < s.runner.count(); i++ {
		if strings.HasSuffix(s.runner.joined(i), "-encoders") {
			encoderCalls++
		}
	}
	assert.Equal(s.T(), 1, encoderCalls)
}

// TestCheckHardwareAccelerationUnavailable verifies that probe failures are not errors.
func (s *ServiceTestSuite) TestCheckHardwareAccelerationUnavailable() {
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		return ffmpeg.Result{ExitCode: 1}, true
	}

	report := s.service.CheckHardwareAcceleration(s.ctx)

	assert.NotContains(s.T(), report, "Available hardware accelerators")
	assert.Contains(s.T(), report, "Intel QSV support: ✗ not supported")
	assert.Contains(s.T(), report, "NVIDIA NVENC support: ✗ not supported")
	assert.Equal(s.T(), OutcomeSuccess, s.recorder.last().outcome)
}

// TestGetVideoInfo verifies the raw probe output is returned.
func (s *ServiceTestSuite) TestGetVideoInfo() {
	input := s.file("clip.mp4", megabyte)

	report := s.service.GetVideoInfo(s.ctx, GetVideoInfoRequest{VideoPath: input})

	assert.Equal(s.T(), "Video info:\n"+`{"format":{"duration":"1.0"}}`, report)
	assert.Equal(s.T(), "ffprobe -v quiet -print_format json -show_format -show_streams "+input, s.runner.joined(0))
	assert.Equal(s.T(), "Error: video file does not exist - nope.mp4",
		s.service.GetVideoInfo(s.ctx, GetVideoInfoRequest{VideoPath: "nope.mp4"}))
}

// TestLaunchError verifies reporting when FFmpeg cannot be started.
func (s *ServiceTestSuite) TestLaunchError() {
	input := s.file("clip.mp4", megabyte)
	s.runner.launchErr = errors.New("executable file not found in $PATH")

	report := s.service.ResizeVideo(s.ctx, ResizeVideoRequest{InputPath: input, Width: 640, Height: 360})

	assert.Equal(s.T(), "Error: could not start ffmpeg: executable file not found in $PATH", report)
	assert.Equal(s.T(), OutcomeLaunch, s.recorder.last().outcome)
}

// TestResizeVideo verifies both aspect modes.
func (s *ServiceTestSuite) TestResizeVideo() {
	input := s.file("clip.mp4", megabyte)
	keep := false

	report := s.service.ResizeVideo(s.ctx, ResizeVideoRequest{InputPath: input, Width: 640, Height: 360, KeepAspectRatio: &keep})

	assert.Contains(s.T(), s.runner.joined(0), "-vf scale=640:360 -c:a copy")
	assert.Contains(s.T(), report, "Resolution: 640x360 (stretched to fill)")
	assert.Contains(s.T(), report, "Output file: "+filepath.Join(s.dir, "clip_resized.mp4"))
}

// TestPanicIsReported verifies that a panic never escapes a tool call.
func (s *ServiceTestSuite) TestPanicIsReported() {
	input := s.file("clip.mp4", megabyte)
	s.runner.hook = func(argv []string) (ffmpeg.Result, bool) {
		panic("runner exploded")
	}

	report := s.service.ResizeVideo(s.ctx, ResizeVideoRequest{InputPath: input, Width: 1, Height: 1})

	assert.Equal(s.T(), "An error occurred: panic: runner exploded", report)
	assert.Equal(s.T(), OutcomeUnexpected, s.recorder.last().outcome)
}

// TestServiceSuite runs the service test suite.
func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
