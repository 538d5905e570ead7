package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/torre76/mediamcp/command"
)

// Private constants (alphabetical)
const (
	mergeConcat = "concat"
	mergeFilter = "filter"
	mergeMix    = "mix"
)

// Private types (alphabetical)

// mergeKind describes the differences between merge_videos and merge_audios.
type mergeKind struct {
	fileKind    string
	defaultName string
	manifest    string
	// fallback is the method used for anything other than concat.
	fallback string
	headline string
}

// Private variables (alphabetical)

var (
	audioMerge = mergeKind{
		fileKind:    "audio file",
		defaultName: "merged_audio",
		manifest:    "audio_list.txt",
		fallback:    mergeMix,
		headline:    "Audio files merged!",
	}

	videoMerge = mergeKind{
		fileKind:    "video file",
		defaultName: "merged_video",
		manifest:    "video_list.txt",
		fallback:    mergeFilter,
		headline:    "Videos merged!",
	}
)

// Private functions (alphabetical)

// writeManifest writes the concat list with absolute paths, so the demuxer
// does not resolve entries relative to the manifest location.
func writeManifest(path string, inputs []string) error {
	entries := make([]string, len(inputs))
	for i, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", in, err)
		}
		entries[i] = abs
	}
	if err := os.WriteFile(path, []byte(command.ManifestBody(entries)), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Private methods (alphabetical)

// merge validates the inputs, then concatenates them through a manifest or
// hands them to the kind's filter graph.
func (s *Service) merge(ctx context.Context, inv *invocation, kind mergeKind, list, outputPath, method string) (string, error) {
	inputs := splitPaths(list)
	for _, in := range inputs {
		if err := requireFile(kind.fileKind, in); err != nil {
			return "", err
		}
	}
	if len(inputs) < 2 {
		return "", validationf("at least two %ss are required to merge", kind.fileKind)
	}

	output := orDefault(outputPath, DefaultSibling(inputs[0], kind.defaultName))
	method = strings.ToLower(orDefault(strings.TrimSpace(method), mergeConcat))
	if method != mergeConcat {
		method = kind.fallback
	}

	var argv command.Argv
	if method == mergeConcat {
		manifest, err := s.acquireArtifact(ctx, inv, filepath.Dir(output), kind.manifest)
		if err != nil {
			return "", err
		}
		defer manifest.release()

		if err := writeManifest(manifest.path, inputs); err != nil {
			return "", err
		}
		argv = s.builder.ConcatDemuxer(manifest.path, output)
	} else {
		var err error
		if kind.fallback == mergeMix {
			argv, err = s.builder.MixAudio(inputs, output)
		} else {
			argv, err = s.builder.ConcatFilter(inputs, output)
		}
		if err != nil {
			return "", invalidGraph(err)
		}
	}

	if _, err := s.execute(ctx, inv, "Merge", argv); err != nil {
		return "", err
	}

	return newReport(kind.headline).
		field("Input files", strings.Join(inputs, ", ")).
		field("Output file", output).
		field("Merge method", method).
		String(), nil
}

// Public methods (alphabetical)

// MergeAudios concatenates (method concat) or mixes (method mix) audio files.
func (s *Service) MergeAudios(ctx context.Context, req MergeAudiosRequest) string {
	return s.invoke(ctx, ToolMergeAudios, func(ctx context.Context, inv *invocation) (string, error) {
		return s.merge(ctx, inv, audioMerge, req.AudioPaths, req.OutputPath, req.MergeMethod)
	})
}

// MergeM3U8ToMP4 remuxes a remote HLS playlist into a local file.
func (s *Service) MergeM3U8ToMP4(ctx context.Context, req MergeM3U8ToMP4Request) string {
	return s.invoke(ctx, ToolMergeM3U8ToMP4, func(ctx context.Context, inv *invocation) (string, error) {
		url := strings.TrimSpace(req.M3U8URL)
		if url == "" {
			return "", validationf("m3u8_url must be provided")
		}
		if strings.TrimSpace(req.OutputPath) == "" {
			return "", validationf("output_path must be provided")
		}

		argv := s.builder.MergeStream(url, req.OutputPath, req.Headers)
		if _, err := s.execute(ctx, inv, "Merge", argv); err != nil {
			return "", err
		}

		return newReport("M3U8 stream merged!").
			field("M3U8 URL", url).
			field("Output file", req.OutputPath).
			String(), nil
	})
}

// MergeVideos concatenates videos by stream copy (method concat) or through
// the concat filter (method filter).
func (s *Service) MergeVideos(ctx context.Context, req MergeVideosRequest) string {
	return s.invoke(ctx, ToolMergeVideos, func(ctx context.Context, inv *invocation) (string, error) {
		return s.merge(ctx, inv, videoMerge, req.VideoPaths, req.OutputPath, req.MergeMethod)
	})
}
