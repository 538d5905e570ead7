package command

import (
	"strings"
)

// Private functions (alphabetical)

// inputArgs repeats -i for every input.
func inputArgs(inputs []string) []string {
	args := make([]string, 0, 2*len(inputs))
	for _, in := range inputs {
		args = append(args, "-i", in)
	}
	return args
}

// Public functions (alphabetical)

// ManifestBody renders a concat demuxer list: one `file '<path>'` line per
// input. Single quotes inside paths are escaped the way the demuxer expects.
func ManifestBody(paths []string) string {
	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		sb.WriteString("'\n")
	}
	return sb.String()
}

// ParseHeaders splits a comma-delimited "Key: Value" list into the entries
// passed to -headers. Entries without a colon are dropped.
func ParseHeaders(headers string) []string {
	var out []string
	if headers == "" {
		return out
	}
	for _, pair := range strings.Split(headers, ",") {
		if strings.Contains(pair, ":") {
			out = append(out, strings.TrimSpace(pair))
		}
	}
	return out
}

// Public methods (alphabetical)

// ConcatDemuxer concatenates the files listed in manifest without re-encoding.
func (b *Builder) ConcatDemuxer(manifest, output string) Argv {
	return b.start("-f", "concat", "-safe", "0", "-i", manifest, "-c", "copy", "-y", output)
}

// ConcatFilter concatenates inputs by decoding them through the concat filter.
func (b *Builder) ConcatFilter(inputs []string, output string) (Argv, error) {
	graph, err := b.filterComplex(ConcatGraph(len(inputs)), len(inputs))
	if err != nil {
		return nil, err
	}
	argv := b.start(inputArgs(inputs)...)
	argv = append(argv, graph...)
	return append(argv, "-map", "[outv]", "-map", "[outa]", "-y", output), nil
}

// MergeStream remuxes a remote HLS playlist into a local file. Request
// headers are input options, so they precede -i.
func (b *Builder) MergeStream(url, output, headers string) Argv {
	argv := b.start()
	for _, h := range ParseHeaders(headers) {
		argv = append(argv, "-headers", h)
	}
	return append(argv, "-i", url, "-c", "copy", "-bsf:a", "aac_adtstoasc", "-y", output)
}
