package tools

// Request types double as MCP input schemas: fields without omitempty are
// required, and jsonschema tags become the parameter descriptions.

// Public types (alphabetical)

// AddWatermarkRequest is the input of add_watermark.
type AddWatermarkRequest struct {
	InputPath     string   `json:"input_path" jsonschema:"input video file path"`
	WatermarkPath string   `json:"watermark_path" jsonschema:"watermark image path"`
	OutputPath    string   `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_watermarked.{ext})"`
	Position      string   `json:"position,omitempty" jsonschema:"top-left, top-right, bottom-left, bottom-right (default) or center"`
	Opacity       *float64 `json:"opacity,omitempty" jsonschema:"watermark opacity from 0.0 to 1.0 (default 0.8)"`
	Margin        *int     `json:"margin,omitempty" jsonschema:"distance from the edges in pixels (default 10)"`
}

// ChangeVideoSpeedRequest is the input of change_video_speed.
type ChangeVideoSpeedRequest struct {
	InputPath      string  `json:"input_path" jsonschema:"input video file path"`
	Speed          float64 `json:"speed" jsonschema:"playback speed factor (0.5 half speed, 2.0 double speed)"`
	OutputPath     string  `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_speed_{S_S}x.{ext})"`
	KeepAudioPitch *bool   `json:"keep_audio_pitch,omitempty" jsonschema:"keep the audio pitch unchanged (default true)"`
}

// CompressVideoRequest is the input of compress_video.
type CompressVideoRequest struct {
	InputPath               string `json:"input_path" jsonschema:"input video file path"`
	OutputPath              string `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_compressed.{ext})"`
	Quality                 string `json:"quality,omitempty" jsonschema:"high, medium (default) or low"`
	TargetSizeMB            int    `json:"target_size_mb,omitempty" jsonschema:"target output size in MB; replaces the quality setting"`
	UseHardwareAcceleration bool   `json:"use_hardware_acceleration,omitempty" jsonschema:"encode with a hardware encoder"`
	HWAccelType             string `json:"hwaccel_type,omitempty" jsonschema:"qsv (default), nvenc, vaapi, ..."`
}

// CompressVideoWithQSVRequest is the input of compress_video_with_qsv.
type CompressVideoWithQSVRequest struct {
	InputPath     string `json:"input_path" jsonschema:"input video file path"`
	OutputPath    string `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_qsv_compressed.{ext})"`
	Quality       string `json:"quality,omitempty" jsonschema:"high, medium (default) or low"`
	QSVEncoder    string `json:"qsv_encoder,omitempty" jsonschema:"QSV encoder such as h264_qsv (default) or hevc_qsv"`
	TargetBitrate string `json:"target_bitrate,omitempty" jsonschema:"target video bitrate such as 2M or 1000k; replaces the quality setting"`
}

// ConvertAudioFormatRequest is the input of convert_audio_format.
type ConvertAudioFormatRequest struct {
	InputPath    string `json:"input_path" jsonschema:"input audio file path"`
	OutputPath   string `json:"output_path,omitempty" jsonschema:"output audio path (defaults to {stem}_converted.{format})"`
	OutputFormat string `json:"output_format,omitempty" jsonschema:"mp3 (default), wav, aac, flac, ogg, ..."`
	AudioCodec   string `json:"audio_codec,omitempty" jsonschema:"audio encoder (default libmp3lame)"`
	Bitrate      string `json:"bitrate,omitempty" jsonschema:"audio bitrate (default 192k)"`
}

// ConvertVideoFormatRequest is the input of convert_video_format.
type ConvertVideoFormatRequest struct {
	InputPath               string `json:"input_path" jsonschema:"input video file path"`
	OutputPath              string `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_converted.{format})"`
	OutputFormat            string `json:"output_format,omitempty" jsonschema:"mp4 (default), avi, mov, mkv, flv, ..."`
	VideoCodec              string `json:"video_codec,omitempty" jsonschema:"video encoder (default libx264)"`
	AudioCodec              string `json:"audio_codec,omitempty" jsonschema:"audio encoder (default aac)"`
	Quality                 string `json:"quality,omitempty" jsonschema:"high, medium (default) or low"`
	UseHardwareAcceleration bool   `json:"use_hardware_acceleration,omitempty" jsonschema:"substitute a hardware encoder for libx264/libx265"`
	HWAccelType             string `json:"hwaccel_type,omitempty" jsonschema:"qsv (default), nvenc, vaapi, ..."`
}

// ConvertVideoWithQSVRequest is the input of convert_video_with_qsv.
type ConvertVideoWithQSVRequest struct {
	InputPath    string `json:"input_path" jsonschema:"input video file path"`
	OutputPath   string `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_qsv.{format})"`
	OutputFormat string `json:"output_format,omitempty" jsonschema:"mp4 (default), mkv, avi, ..."`
	QSVEncoder   string `json:"qsv_encoder,omitempty" jsonschema:"QSV encoder such as h264_qsv (default), hevc_qsv or av1_qsv"`
	Quality      string `json:"quality,omitempty" jsonschema:"high, medium (default) or low"`
	QSVPreset    string `json:"qsv_preset,omitempty" jsonschema:"veryfast to veryslow (default medium)"`
}

// CutAudioSegmentRequest is the input of cut_audio_segment.
type CutAudioSegmentRequest struct {
	InputPath  string `json:"input_path" jsonschema:"input audio file path"`
	StartTime  string `json:"start_time" jsonschema:"start time (HH:MM:SS or seconds)"`
	EndTime    string `json:"end_time,omitempty" jsonschema:"end time; mutually exclusive with duration"`
	Duration   string `json:"duration,omitempty" jsonschema:"duration; mutually exclusive with end_time"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"output audio path (defaults to {stem}_cut.{ext})"`
}

// CutVideoSegmentRequest is the input of cut_video_segment.
type CutVideoSegmentRequest struct {
	InputPath               string `json:"input_path" jsonschema:"input video file path"`
	StartTime               string `json:"start_time" jsonschema:"start time (HH:MM:SS or seconds)"`
	EndTime                 string `json:"end_time,omitempty" jsonschema:"end time; mutually exclusive with duration"`
	Duration                string `json:"duration,omitempty" jsonschema:"duration; mutually exclusive with end_time"`
	OutputPath              string `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_cut.{ext})"`
	UseHardwareAcceleration bool   `json:"use_hardware_acceleration,omitempty" jsonschema:"re-encode with a hardware encoder"`
	HWAccelType             string `json:"hwaccel_type,omitempty" jsonschema:"qsv (default), nvenc, vaapi, ..."`
	PreciseCut              bool   `json:"precise_cut,omitempty" jsonschema:"re-encode for frame-accurate cut points (slower)"`
}

// ExtractAudioFromVideoRequest is the input of extract_audio_from_video.
type ExtractAudioFromVideoRequest struct {
	VideoPath    string `json:"video_path" jsonschema:"input video file path"`
	OutputPath   string `json:"output_path,omitempty" jsonschema:"output audio path (defaults to {stem}.{format})"`
	AudioFormat  string `json:"audio_format,omitempty" jsonschema:"mp3 (default), wav, aac, flac, ..."`
	AudioQuality string `json:"audio_quality,omitempty" jsonschema:"audio bitrate (default 192k)"`
}

// ExtractAudioSegmentRequest is the input of extract_audio_segment.
type ExtractAudioSegmentRequest struct {
	VideoPath   string `json:"video_path" jsonschema:"input video file path"`
	StartTime   string `json:"start_time" jsonschema:"start time (HH:MM:SS)"`
	Duration    string `json:"duration" jsonschema:"duration (HH:MM:SS)"`
	OutputPath  string `json:"output_path,omitempty" jsonschema:"output audio path (defaults to {stem}_segment.{format})"`
	AudioFormat string `json:"audio_format,omitempty" jsonschema:"mp3 (default), wav, aac, ..."`
}

// ExtractFramesRequest is the input of extract_frames.
type ExtractFramesRequest struct {
	InputPath   string  `json:"input_path" jsonschema:"input video file path"`
	OutputDir   string  `json:"output_dir,omitempty" jsonschema:"directory for the images (defaults to {stem}_frames)"`
	FPS         float64 `json:"fps,omitempty" jsonschema:"frames per second to extract (1 = one per second, 0.5 = one every two seconds)"`
	StartTime   string  `json:"start_time,omitempty" jsonschema:"start time (HH:MM:SS)"`
	Duration    string  `json:"duration,omitempty" jsonschema:"duration (HH:MM:SS)"`
	ImageFormat string  `json:"image_format,omitempty" jsonschema:"jpg (default), png or bmp"`
}

// GetVideoInfoRequest is the input of get_video_info.
type GetVideoInfoRequest struct {
	VideoPath string `json:"video_path" jsonschema:"video file path"`
}

// MergeAudiosRequest is the input of merge_audios.
type MergeAudiosRequest struct {
	AudioPaths  string `json:"audio_paths" jsonschema:"comma-separated list of audio files"`
	OutputPath  string `json:"output_path,omitempty" jsonschema:"output audio path (defaults to merged_audio.{ext} next to the first input)"`
	MergeMethod string `json:"merge_method,omitempty" jsonschema:"concat (default, back to back) or mix"`
}

// MergeM3U8ToMP4Request is the input of merge_m3u8_to_mp4.
type MergeM3U8ToMP4Request struct {
	M3U8URL    string `json:"m3u8_url" jsonschema:"M3U8 playlist URL"`
	OutputPath string `json:"output_path" jsonschema:"output MP4 path"`
	Headers    string `json:"headers,omitempty" jsonschema:"HTTP headers as key1:value1,key2:value2"`
}

// MergeVideosRequest is the input of merge_videos.
type MergeVideosRequest struct {
	VideoPaths  string `json:"video_paths" jsonschema:"comma-separated list of video files"`
	OutputPath  string `json:"output_path,omitempty" jsonschema:"output video path (defaults to merged_video.{ext} next to the first input)"`
	MergeMethod string `json:"merge_method,omitempty" jsonschema:"concat (default, stream copy) or filter (re-encode)"`
}

// ResizeVideoRequest is the input of resize_video.
type ResizeVideoRequest struct {
	InputPath       string `json:"input_path" jsonschema:"input video file path"`
	Width           int    `json:"width" jsonschema:"target width"`
	Height          int    `json:"height" jsonschema:"target height"`
	OutputPath      string `json:"output_path,omitempty" jsonschema:"output video path (defaults to {stem}_resized.{ext})"`
	KeepAspectRatio *bool  `json:"keep_aspect_ratio,omitempty" jsonschema:"fit inside width x height keeping the aspect ratio (default true)"`
}

// VideoToGifRequest is the input of video_to_gif.
type VideoToGifRequest struct {
	InputPath  string `json:"input_path" jsonschema:"input video file path"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"output GIF path (defaults to {stem}.gif)"`
	StartTime  string `json:"start_time,omitempty" jsonschema:"start time (HH:MM:SS)"`
	Duration   string `json:"duration,omitempty" jsonschema:"duration (HH:MM:SS)"`
	Width      int    `json:"width,omitempty" jsonschema:"GIF width in pixels, height follows the aspect ratio (default 480)"`
	FPS        int    `json:"fps,omitempty" jsonschema:"frame rate, 5 to 15 recommended (default 10)"`
	Quality    string `json:"quality,omitempty" jsonschema:"high, medium (default) or low"`
}

// Private functions (alphabetical)

// boolOr dereferences b, or returns fallback when b is nil.
func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
