package command

import (
	"errors"
	"strings"
)

// Public variables (alphabetical)

var (
	// ErrAmbiguousRangeEnd is returned when both an end time and a duration are given.
	ErrAmbiguousRangeEnd = errors.New("provide either end_time or duration, not both")

	// ErrMissingRangeEnd is returned when neither an end time nor a duration is given.
	ErrMissingRangeEnd = errors.New("either end_time or duration must be provided")

	// ErrMissingRangeStart is returned when the start time is empty.
	ErrMissingRangeStart = errors.New("start_time must be provided")
)

// TimeRange is a trim window: a start plus exactly one of End or Duration.
// Values are passed to FFmpeg verbatim (HH:MM:SS[.ms] or seconds).
type TimeRange struct {
	Start    string
	End      string
	Duration string
}

// Public functions (alphabetical)

// SeekArgs returns the optional -ss/-t pair used by operations that accept an
// open-ended window (GIF rendering, frame extraction). Empty values are omitted.
func SeekArgs(start, duration string) []string {
	var args []string
	if start != "" {
		args = append(args, "-ss", start)
	}
	if duration != "" {
		args = append(args, "-t", duration)
	}
	return args
}

// Public methods (alphabetical)

// Args returns -ss followed by exactly one of -t or -to. Call Validate first.
func (r TimeRange) Args() []string {
	args := []string{"-ss", r.Start}
	if r.Duration != "" {
		return append(args, "-t", r.Duration)
	}
	return append(args, "-to", r.End)
}

// Describe renders the window for reports.
func (r TimeRange) Describe() string {
	if r.Duration != "" {
		return "Start time: " + r.Start + ", duration: " + r.Duration
	}
	return "Start time: " + r.Start + ", end time: " + r.End
}

// Normalize trims surrounding whitespace from every field.
func (r TimeRange) Normalize() TimeRange {
	return TimeRange{
		Start:    strings.TrimSpace(r.Start),
		End:      strings.TrimSpace(r.End),
		Duration: strings.TrimSpace(r.Duration),
	}
}

// Validate enforces the end/duration exclusivity rule.
func (r TimeRange) Validate() error {
	if r.Start == "" {
		return ErrMissingRangeStart
	}
	switch {
	case r.End == "" && r.Duration == "":
		return ErrMissingRangeEnd
	case r.End != "" && r.Duration != "":
		return ErrAmbiguousRangeEnd
	default:
		return nil
	}
}
