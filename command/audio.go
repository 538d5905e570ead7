package command

// Private functions (alphabetical)

// audioCodecFor picks the encoder for an audio extraction target: MP3 is
// encoded with LAME, everything else is stream-copied.
func audioCodecFor(format string) string {
	if format == "mp3" {
		return "libmp3lame"
	}
	return "copy"
}

// Public methods (alphabetical)

// ConvertAudio re-encodes audio with codec at bitrate.
func (b *Builder) ConvertAudio(input, output, codec, bitrate string) Argv {
	return b.start("-i", input, "-c:a", codec, "-b:a", bitrate, "-y", output)
}

// ExtractAudio drops the video stream and writes the audio track.
func (b *Builder) ExtractAudio(input, output, format, bitrate string) Argv {
	return b.start("-i", input, "-vn", "-acodec", audioCodecFor(format), "-ab", bitrate, "-y", output)
}

// ExtractAudioSegment writes the audio of a start/duration window.
func (b *Builder) ExtractAudioSegment(input, output, format, start, duration string) Argv {
	return b.start("-i", input, "-ss", start, "-t", duration, "-vn", "-acodec", audioCodecFor(format), "-y", output)
}

// MixAudio mixes all inputs into one track.
func (b *Builder) MixAudio(inputs []string, output string) (Argv, error) {
	graph, err := b.filterComplex(MixGraph(len(inputs)), len(inputs))
	if err != nil {
		return nil, err
	}
	argv := b.start(inputArgs(inputs)...)
	argv = append(argv, graph...)
	return append(argv, "-y", output), nil
}
