package command

import (
	"path/filepath"
	"strconv"
)

// Public types (alphabetical)

// CompressParams describes a size-reducing re-encode.
type CompressParams struct {
	Input  string
	Output string
	Tier   Tier
	Accel  Accel
	// TargetKbps, when positive, replaces the quality flag with -b:v <n>k.
	TargetKbps int
}

// ConvertParams describes a container/codec conversion.
type ConvertParams struct {
	Input      string
	Output     string
	VideoCodec string
	AudioCodec string
	Tier       Tier
	Accel      Accel
}

// CutParams describes a trim. When Reencode is false the streams are copied.
type CutParams struct {
	Input    string
	Output   string
	Range    TimeRange
	Reencode bool
	Accel    Accel
}

// FramesParams describes still-image extraction.
type FramesParams struct {
	Input     string
	OutputDir string
	Format    string
	// FPS, when positive, limits extraction to that many frames per second.
	FPS      float64
	Start    string
	Duration string
}

// GifParams describes palette-based GIF rendering.
type GifParams struct {
	Input    string
	Output   string
	Palette  string
	Start    string
	Duration string
	Width    int
	FPS      int
	Tier     Tier
}

// QSVCompressParams describes compress_video_with_qsv.
type QSVCompressParams struct {
	Input         string
	Output        string
	Encoder       string
	Tier          Tier
	TargetBitrate string
}

// QSVConvertParams describes convert_video_with_qsv.
type QSVConvertParams struct {
	Input   string
	Output  string
	Encoder string
	Preset  string
	Tier    Tier
}

// WatermarkParams describes an image overlay.
type WatermarkParams struct {
	Input     string
	Watermark string
	Output    string
	Anchor    Anchor
	Opacity   float64
	Margin    int
}

// Public constants (alphabetical)

const (
	// CompressAudioBitrate is the AAC bitrate used by compression operations.
	CompressAudioBitrate = "128k"

	// DefaultVideoCodec is the software encoder used when none is requested.
	DefaultVideoCodec = "libx264"

	// FramePattern is the printf pattern for extracted frame file names.
	FramePattern = "frame_%04d"
)

// Public functions (alphabetical)

// BitrateForSize returns the video bitrate in kbps that makes a file of
// durationSeconds weigh targetMB: floor(targetMB * 8 * 1024 / duration).
func BitrateForSize(targetMB int, durationSeconds float64) int {
	if durationSeconds <= 0 {
		return 0
	}
	return int(float64(targetMB) * 8 * 1024 / durationSeconds)
}

// Public methods (alphabetical)

// ChangeSpeed retimes video and audio by speed.
func (b *Builder) ChangeSpeed(input, output string, speed float64, keepPitch bool) (Argv, error) {
	graph, err := b.filterComplex(SpeedGraph(speed, keepPitch), 1)
	if err != nil {
		return nil, err
	}
	argv := b.start("-i", input)
	argv = append(argv, graph...)
	return append(argv, "-map", "[v]", "-map", "[a]", "-y", output), nil
}

// Compress re-encodes with the family quality flag, or with a fixed bitrate
// when TargetKbps is set. Hardware encoders use the compact quality table.
// It returns the argv and the encoder actually used.
func (b *Builder) Compress(p CompressParams) (Argv, string) {
	codec := p.Accel.SubstituteCodec(DefaultVideoCodec)

	argv := b.start(p.Accel.DecodeArgs()...)
	argv = append(argv, "-i", p.Input, "-c:v", codec)
	if p.TargetKbps > 0 {
		argv = append(argv, "-b:v", strconv.Itoa(p.TargetKbps)+"k")
	} else {
		argv = append(argv, QualityArgs(codec, p.Tier, TableCompact)...)
	}
	argv = append(argv, "-c:a", "aac", "-b:a", CompressAudioBitrate, "-preset", "medium", "-y", p.Output)
	return argv, codec
}

// CompressQSV re-encodes with a QSV encoder, by bitrate when TargetBitrate is
// set and by the compact global_quality scale otherwise.
func (b *Builder) CompressQSV(p QSVCompressParams) Argv {
	argv := b.start(AccelQSV.DecodeArgs()...)
	argv = append(argv, "-i", p.Input, "-c:v", p.Encoder, "-preset", "medium")
	if p.TargetBitrate != "" {
		argv = append(argv, "-b:v", p.TargetBitrate)
	} else {
		argv = append(argv, "-global_quality", strconv.Itoa(compactValue(p.Tier)))
	}
	return append(argv, "-c:a", "aac", "-b:a", CompressAudioBitrate, "-y", p.Output)
}

// ConvertQSV transcodes with a QSV encoder and preset.
func (b *Builder) ConvertQSV(p QSVConvertParams) Argv {
	argv := b.start(AccelQSV.DecodeArgs()...)
	return append(argv,
		"-i", p.Input,
		"-c:v", p.Encoder,
		"-preset", p.Preset,
		"-global_quality", strconv.Itoa(standardValue(p.Tier)),
		"-c:a", "aac",
		"-y", p.Output)
}

// ConvertVideo transcodes to another codec/container. The quality flag is
// picked from the effective encoder name after hardware substitution. It
// returns the argv and the encoder actually used.
func (b *Builder) ConvertVideo(p ConvertParams) (Argv, string) {
	codec := p.Accel.SubstituteCodec(p.VideoCodec)

	argv := b.start(p.Accel.DecodeArgs()...)
	argv = append(argv, "-i", p.Input, "-c:v", codec)
	argv = append(argv, QualityArgs(codec, p.Tier, TableStandard)...)
	argv = append(argv, "-c:a", p.AudioCodec, "-y", p.Output)
	return argv, codec
}

// Cut trims a window out of the input. Stream copy is used unless Reencode
// is set, in which case the default encoder (after hardware substitution)
// and AAC audio are used at the standard medium quality.
func (b *Builder) Cut(p CutParams) (Argv, string) {
	if !p.Reencode {
		argv := b.start("-i", p.Input)
		argv = append(argv, p.Range.Args()...)
		return append(argv, "-c", "copy", "-y", p.Output), "copy"
	}

	codec := p.Accel.SubstituteCodec(DefaultVideoCodec)
	argv := b.start(p.Accel.DecodeArgs()...)
	argv = append(argv, "-i", p.Input)
	argv = append(argv, p.Range.Args()...)
	argv = append(argv, "-c:v", codec)
	argv = append(argv, QualityArgs(codec, TierMedium, TableStandard)...)
	return append(argv, "-c:a", "aac", "-y", p.Output), codec
}

// ExtractFrames writes numbered stills into OutputDir.
func (b *Builder) ExtractFrames(p FramesParams) Argv {
	argv := b.start("-i", p.Input)
	argv = append(argv, SeekArgs(p.Start, p.Duration)...)
	if p.FPS > 0 {
		argv = append(argv, "-vf", NewFilter("fps", FormatFloat(p.FPS)).String())
	}
	return append(argv, "-y", filepath.Join(p.OutputDir, FramePattern+"."+p.Format))
}

// GifPalette is the first GIF pass, writing the palette image. The window
// is an input option of the video so both passes sample the same frames.
func (b *Builder) GifPalette(p GifParams) Argv {
	argv := b.start(SeekArgs(p.Start, p.Duration)...)
	return append(argv,
		"-i", p.Input,
		"-vf", PaletteGenChain(p.FPS, p.Width, PaletteFor(p.Tier)).String(),
		"-y", p.Palette)
}

// GifRender is the second GIF pass, dithering against the palette. The
// window precedes the video input so it never applies to the palette.
func (b *Builder) GifRender(p GifParams) (Argv, error) {
	graph, err := b.filterComplex(PaletteUseGraph(p.FPS, p.Width, PaletteFor(p.Tier)), 2)
	if err != nil {
		return nil, err
	}
	argv := b.start(SeekArgs(p.Start, p.Duration)...)
	argv = append(argv, "-i", p.Input, "-i", p.Palette)
	argv = append(argv, graph...)
	return append(argv, "-y", p.Output), nil
}

// Resize scales the video and copies the audio.
func (b *Builder) Resize(input, output string, width, height int, keepAspect bool) Argv {
	return b.start("-i", input,
		"-vf", ScaleFilter(width, height, keepAspect).String(),
		"-c:a", "copy",
		"-y", output)
}

// Watermark overlays an image on the video and copies the audio.
func (b *Builder) Watermark(p WatermarkParams) (Argv, error) {
	graph, err := b.filterComplex(WatermarkGraph(p.Anchor, p.Opacity, p.Margin), 2)
	if err != nil {
		return nil, err
	}
	argv := b.start("-i", p.Input, "-i", p.Watermark)
	argv = append(argv, graph...)
	return append(argv, "-c:a", "copy", "-y", p.Output), nil
}
