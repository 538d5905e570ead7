package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/torre76/mediamcp/tools"
)

// Private types (alphabetical)

// noArguments is the input of tools that take no parameters.
type noArguments struct{}

// Private functions (alphabetical)

// addReportTool registers a tool whose body produces a plain-text report.
// Reports describe failures too, so the handler never returns a Go error.
func addReportTool[In any](s *Server, group, name, description string, run func(context.Context, In) string) {
	mcp.AddTool(s.server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			return textResult(run(ctx, in)), nil, nil
		})
	s.tools = append(s.tools, ToolInfo{Name: name, Group: group, Description: description})
}

// Private methods (alphabetical)

// registerMediaTools binds every operation of service to its tool name.
func (s *Server) registerMediaTools(service *tools.Service) {
	addReportTool(s, GroupHardware, tools.ToolCheckHardwareAcceleration,
		"Report the hardware acceleration backends and the Intel QSV and NVIDIA NVENC encoders available to FFmpeg.",
		func(ctx context.Context, _ noArguments) string { return service.CheckHardwareAcceleration(ctx) })
	addReportTool(s, GroupHardware, tools.ToolCompressVideoWithQSV,
		"Compress a video with an Intel QSV encoder, by quality tier or to a target bitrate.",
		service.CompressVideoWithQSV)
	addReportTool(s, GroupHardware, tools.ToolConvertVideoWithQSV,
		"Convert a video with an Intel QSV encoder and preset.",
		service.ConvertVideoWithQSV)

	addReportTool(s, GroupVideo, tools.ToolAddWatermark,
		"Overlay an image watermark on a video at a corner or the center, with adjustable opacity and margin.",
		service.AddWatermark)
	addReportTool(s, GroupVideo, tools.ToolChangeVideoSpeed,
		"Speed up or slow down a video and its audio, optionally keeping the audio pitch.",
		service.ChangeVideoSpeed)
	addReportTool(s, GroupVideo, tools.ToolCompressVideo,
		"Compress a video by quality tier or to a target size in MB, optionally with hardware acceleration.",
		service.CompressVideo)
	addReportTool(s, GroupVideo, tools.ToolConvertVideoFormat,
		"Convert a video to another container and codec, optionally with hardware acceleration.",
		service.ConvertVideoFormat)
	addReportTool(s, GroupVideo, tools.ToolCutVideoSegment,
		"Cut a segment out of a video by start time plus end time or duration. Stream copy unless a precise cut is requested.",
		service.CutVideoSegment)
	addReportTool(s, GroupVideo, tools.ToolExtractFrames,
		"Extract still frames from a video into a directory as numbered images.",
		service.ExtractFrames)
	addReportTool(s, GroupVideo, tools.ToolGetVideoInfo,
		"Return the ffprobe JSON description of a media file.",
		service.GetVideoInfo)
	addReportTool(s, GroupVideo, tools.ToolResizeVideo,
		"Resize a video, keeping the aspect ratio by default.",
		service.ResizeVideo)
	addReportTool(s, GroupVideo, tools.ToolVideoToGif,
		"Convert a video, or part of it, to an animated GIF using a generated palette.",
		service.VideoToGif)

	addReportTool(s, GroupAudio, tools.ToolConvertAudioFormat,
		"Convert an audio file to another format, codec and bitrate.",
		service.ConvertAudioFormat)
	addReportTool(s, GroupAudio, tools.ToolCutAudioSegment,
		"Cut a segment out of an audio file by start time plus end time or duration.",
		service.CutAudioSegment)
	addReportTool(s, GroupAudio, tools.ToolExtractAudioFromVideo,
		"Extract the audio track of a video to an audio file.",
		service.ExtractAudioFromVideo)
	addReportTool(s, GroupAudio, tools.ToolExtractAudioSegment,
		"Extract the audio of a time window of a video to an audio file.",
		service.ExtractAudioSegment)

	addReportTool(s, GroupMerge, tools.ToolMergeAudios,
		"Join audio files back to back (concat) or mix them together (mix).",
		service.MergeAudios)
	addReportTool(s, GroupMerge, tools.ToolMergeM3U8ToMP4,
		"Download an M3U8 (HLS) stream and remux it into a local MP4 file.",
		service.MergeM3U8ToMP4)
	addReportTool(s, GroupMerge, tools.ToolMergeVideos,
		"Join videos back to back, by stream copy (concat) or by re-encoding (filter).",
		service.MergeVideos)
}
