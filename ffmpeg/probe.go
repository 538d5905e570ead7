// Package ffmpeg provides functionality for detecting and working with FFmpeg.
package ffmpeg

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
)

// Private types (alphabetical)

// ffprobeDisposition mirrors the disposition object of a stream.
type ffprobeDisposition struct {
	Default int `json:"default"`
	Forced  int `json:"forced"`
}

// ffprobeFormat mirrors the "format" object of FFprobe's JSON output.
type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	Tags           map[string]string `json:"tags"`
}

// ffprobeOutput is the top-level document produced by
// `ffprobe -print_format json -show_format -show_streams`.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

// ffprobeStream mirrors one entry of the "streams" array.
type ffprobeStream struct {
	Index              int                `json:"index"`
	CodecName          string             `json:"codec_name"`
	CodecLongName      string             `json:"codec_long_name"`
	CodecType          string             `json:"codec_type"`
	CodecTagString     string             `json:"codec_tag_string"`
	Profile            string             `json:"profile"`
	Width              int                `json:"width"`
	Height             int                `json:"height"`
	DisplayAspectRatio string             `json:"display_aspect_ratio"`
	PixFmt             string             `json:"pix_fmt"`
	ColorSpace         string             `json:"color_space"`
	RFrameRate         string             `json:"r_frame_rate"`
	SampleRate         string             `json:"sample_rate"`
	Channels           int                `json:"channels"`
	ChannelLayout      string             `json:"channel_layout"`
	BitRate            string             `json:"bit_rate"`
	Duration           string             `json:"duration"`
	Disposition        ffprobeDisposition `json:"disposition"`
	Tags               map[string]string  `json:"tags"`
}

// Public types (alphabetical)

// Prober runs FFprobe queries against media files.
type Prober struct {
	// FFprobePath is the path to the FFprobe executable
	FFprobePath string

	runner Runner
}

// Private functions (alphabetical)

// calculateMissingBitRates estimates video bit rates from the container bit
// rate when FFprobe did not report them per stream.
func calculateMissingBitRates(containerInfo *ContainerInfo) {
	if containerInfo.General.OverallBitRate <= 0 || len(containerInfo.VideoStreams) == 0 {
		return
	}

	var totalAudioBitRate int64
	for i := range containerInfo.AudioStreams {
		totalAudioBitRate += containerInfo.AudioStreams[i].BitRate
	}
	remainingBitRate := containerInfo.General.OverallBitRate - totalAudioBitRate

	missing := 0
	for i := range containerInfo.VideoStreams {
		if containerInfo.VideoStreams[i].BitRate == 0 {
			missing++
		}
	}
	if missing == 0 || remainingBitRate <= 0 {
		return
	}

	perStream := remainingBitRate / int64(missing)
	for i := range containerInfo.VideoStreams {
		if containerInfo.VideoStreams[i].BitRate == 0 {
			containerInfo.VideoStreams[i].BitRate = perStream
		}
	}
}

// parseFloat parses a decimal string, returning 0 when it is not a number.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseInt parses a base-10 integer string, returning 0 when it is not a number.
func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseRatio parses "num/den" values such as r_frame_rate.
func parseRatio(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return parseFloat(s)
	}
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return parseFloat(num) / d
}

// processJSONAudioStream converts an FFprobe audio stream.
func processJSONAudioStream(stream ffprobeStream) AudioStream {
	return AudioStream{
		ID:            strconv.Itoa(stream.Index),
		Format:        stream.CodecName,
		FormatInfo:    stream.CodecLongName,
		CodecID:       stream.CodecTagString,
		Duration:      parseFloat(stream.Duration),
		BitRate:       parseInt(stream.BitRate),
		Channels:      stream.Channels,
		ChannelLayout: stream.ChannelLayout,
		SamplingRate:  int(parseInt(stream.SampleRate)),
		Title:         stream.Tags["title"],
		Language:      stream.Tags["language"],
		Default:       stream.Disposition.Default == 1,
	}
}

// processJSONFormat converts the FFprobe format object.
func processJSONFormat(format ffprobeFormat, info *GeneralInfo) {
	info.Format = format.FormatName
	info.FormatLongName = format.FormatLongName
	info.Duration = parseFloat(format.Duration)
	info.FileSize = parseInt(format.Size)
	info.OverallBitRate = parseInt(format.BitRate)
	info.WritingApplication = format.Tags["encoder"]
	info.EncodedDate = format.Tags["creation_time"]
}

// processJSONSubtitleStream converts an FFprobe subtitle stream.
func processJSONSubtitleStream(stream ffprobeStream) SubtitleStream {
	return SubtitleStream{
		ID:          strconv.Itoa(stream.Index),
		Format:      stream.CodecName,
		CodecIDInfo: stream.CodecLongName,
		Title:       stream.Tags["title"],
		Language:    stream.Tags["language"],
		Default:     stream.Disposition.Default == 1,
	}
}

// processJSONVideoStream converts an FFprobe video stream.
func processJSONVideoStream(stream ffprobeStream) VideoStream {
	return VideoStream{
		ID:                 strconv.Itoa(stream.Index),
		Format:             stream.CodecName,
		FormatInfo:         stream.CodecLongName,
		FormatProfile:      stream.Profile,
		CodecID:            stream.CodecTagString,
		Duration:           parseFloat(stream.Duration),
		BitRate:            parseInt(stream.BitRate),
		Width:              stream.Width,
		Height:             stream.Height,
		DisplayAspectRatio: stream.DisplayAspectRatio,
		FrameRate:          parseRatio(stream.RFrameRate),
		PixelFormat:        stream.PixFmt,
		ColorSpace:         stream.ColorSpace,
		Language:           stream.Tags["language"],
		Title:              stream.Tags["title"],
		Default:            stream.Disposition.Default == 1,
	}
}

// Public functions (alphabetical)

// NewProber creates a Prober for the FFprobe binary at path.
func NewProber(path string, runner Runner) *Prober {
	if path == "" {
		path = DefaultFFprobeBinary
	}
	return &Prober{FFprobePath: path, runner: runner}
}

// ParseContainerInfo decodes FFprobe JSON output into a ContainerInfo.
// Streams of other types (data, attachment) are ignored.
func ParseContainerInfo(data []byte, filePath string) (*ContainerInfo, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, FormatError("error parsing ffprobe output: %w", err)
	}

	containerInfo := &ContainerInfo{
		VideoStreams:    make([]VideoStream, 0),
		AudioStreams:    make([]AudioStream, 0),
		SubtitleStreams: make([]SubtitleStream, 0),
	}
	processJSONFormat(output.Format, &containerInfo.General)
	containerInfo.General.CompleteName = filePath
	if filePath == "" {
		containerInfo.General.CompleteName = output.Format.Filename
	}

	for _, stream := range output.Streams {
		switch stream.CodecType {
		case "video":
			containerInfo.VideoStreams = append(containerInfo.VideoStreams, processJSONVideoStream(stream))
		case "audio":
			containerInfo.AudioStreams = append(containerInfo.AudioStreams, processJSONAudioStream(stream))
		case "subtitle":
			containerInfo.SubtitleStreams = append(containerInfo.SubtitleStreams, processJSONSubtitleStream(stream))
		}
	}

	calculateMissingBitRates(containerInfo)
	return containerInfo, nil
}

// Public methods (alphabetical)

// Duration returns the container duration in seconds using
// `ffprobe -v quiet -show_entries format=duration -of csv=p=0`.
func (p *Prober) Duration(ctx context.Context, filePath string) (float64, error) {
	argv := []string{p.FFprobePath, "-v", "quiet", "-show_entries", "format=duration", "-of", "csv=p=0", filePath}
	result, err := p.runner.Run(ctx, argv)
	if err != nil {
		return 0, err
	}
	if !result.Succeeded() {
		return 0, &ExitError{Program: p.FFprobePath, Result: result}
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(result.Stdout), 64)
	if err != nil {
		return 0, FormatError("unexpected duration %q: %w", strings.TrimSpace(result.Stdout), err)
	}
	if duration <= 0 {
		return 0, FormatError("non-positive duration %v for %s", duration, filePath)
	}
	return duration, nil
}

// Inspect runs the JSON probe and decodes it into a ContainerInfo.
func (p *Prober) Inspect(ctx context.Context, filePath string) (*ContainerInfo, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, FormatError("error getting absolute path: %w", err)
	}

	result, err := p.RawInfo(ctx, absPath)
	if err != nil {
		return nil, err
	}
	return ParseContainerInfo([]byte(result.Stdout), absPath)
}

// RawInfo runs `ffprobe -v quiet -print_format json -show_format -show_streams`
// and returns the process result untouched. A non-zero exit is reported as an
// *ExitError alongside the result.
func (p *Prober) RawInfo(ctx context.Context, filePath string) (Result, error) {
	argv := []string{p.FFprobePath, "-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", filePath}
	result, err := p.runner.Run(ctx, argv)
	if err != nil {
		return Result{}, err
	}
	if !result.Succeeded() {
		return result, &ExitError{Program: p.FFprobePath, Result: result}
	}
	return result, nil
}
