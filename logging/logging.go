// Package logging builds the process logger. Logs always go to stderr or
// another writer supplied by the caller, never to stdout, which carries the
// MCP stream when serving over stdio.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"
)

// Public types (alphabetical)

// Options configures New.
type Options struct {
	// Name is the root logger name.
	Name string
	// Level is trace, debug, info, warn or error. Unknown values mean info.
	Level string
	// Format is console or json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Public functions (alphabetical)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New creates the root logger. Console output is colored only when it goes
// to a terminal.
func New(opts Options) hclog.Logger {
	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	json := strings.EqualFold(opts.Format, "json")
	color := hclog.ColorOff
	if !json && IsTerminal(output) {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       opts.Name,
		Level:      ParseLevel(opts.Level),
		Output:     output,
		JSONFormat: json,
		Color:      color,
	})
}

// ParseLevel maps a level name to an hclog level, defaulting to Info.
func ParseLevel(name string) hclog.Level {
	level := hclog.LevelFromString(strings.TrimSpace(name))
	if level == hclog.NoLevel {
		return hclog.Info
	}
	return level
}
