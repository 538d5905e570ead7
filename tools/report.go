package tools

import (
	"fmt"
	"strings"
)

// report accumulates the lines of a success report: a headline followed by
// "Label: value" fields.
type report struct {
	lines []string
}

// newReport starts a report with its headline.
func newReport(headline string) *report {
	return &report{lines: []string{headline}}
}

// field appends "label: value".
func (r *report) field(label string, value interface{}) *report {
	r.lines = append(r.lines, fmt.Sprintf("%s: %v", label, value))
	return r
}

// fieldIf appends the field only when cond holds.
func (r *report) fieldIf(cond bool, label string, value interface{}) *report {
	if cond {
		r.field(label, value)
	}
	return r
}

// line appends a free-form line.
func (r *report) line(text string) *report {
	r.lines = append(r.lines, text)
	return r
}

// String joins the lines with newlines.
func (r *report) String() string {
	return strings.Join(r.lines, "\n")
}

// compressionFields appends the size and ratio lines shared by the
// compression tools. The ratio is 0 for an empty original.
func (r *report) compressionFields(originalMB, compressedMB float64) *report {
	ratio := 0.0
	if originalMB > 0 {
		ratio = (1 - compressedMB/originalMB) * 100
	}
	r.field("Original size", fmt.Sprintf("%.1fMB", originalMB))
	r.field("Compressed size", fmt.Sprintf("%.1fMB", compressedMB))
	r.field("Compression ratio", fmt.Sprintf("%.1f%%", ratio))
	return r
}

// timeWindow renders an optional start/duration pair, or "" when both are empty.
func timeWindow(start, duration string) string {
	if start == "" && duration == "" {
		return ""
	}
	return orDefault(start, "start") + " - " + orDefault(duration, "end")
}
