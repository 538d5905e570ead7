// Package command builds FFmpeg argument vectors. Every function in this
// package is pure: it takes semantic parameters and returns the exact argv
// to execute, without touching the filesystem or spawning processes.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// Public variables (alphabetical)

// ErrInvalidGraph wraps every filter graph rejected before it reaches FFmpeg.
var ErrInvalidGraph = errors.New("invalid filter graph")

// Public types (alphabetical)

// Argv is one program invocation. Element 0 is the program; every flag and
// its value are separate elements.
type Argv []string

// Builder produces argument vectors for a given FFmpeg binary.
type Builder struct {
	// FFmpeg is the program placed in argv[0] of every vector.
	FFmpeg string
}

// Private functions (alphabetical)

// quoteArg quotes an argument for display when it contains whitespace.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.ContainsAny(arg, " \t\n'\"") {
		return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return arg
}

// Public functions (alphabetical)

// NewBuilder creates a Builder for the given FFmpeg program, defaulting to "ffmpeg".
func NewBuilder(ffmpegPath string) *Builder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Builder{FFmpeg: ffmpegPath}
}

// Public methods (alphabetical)

// String renders the vector as a shell-like line for logs and reports.
// It is never executed through a shell.
func (a Argv) String() string {
	quoted := make([]string, len(a))
	for i, arg := range a {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

// Private methods (alphabetical)

// filterComplex validates g against the number of command inputs and
// renders it as the -filter_complex flag pair.
func (b *Builder) filterComplex(g Graph, inputs int) ([]string, error) {
	if err := g.ValidateInputs(inputs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGraph, err)
	}
	return []string{"-filter_complex", g.String()}, nil
}

// start begins a new vector with the FFmpeg program followed by args.
func (b *Builder) start(args ...string) Argv {
	argv := make(Argv, 0, 16)
	argv = append(argv, b.FFmpeg)
	return append(argv, args...)
}
