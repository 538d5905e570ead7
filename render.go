package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/gertd/go-pluralize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/torre76/mediamcp/ffmpeg"
	"github.com/torre76/mediamcp/mcpserver"
)

// Private types (alphabetical)

type columnAlignment int

// Private constants (alphabetical)
const (
	alignLeft columnAlignment = iota
	alignRight
)

// Private variables (alphabetical)

var (
	errorStyle   = color.New(color.FgRed)
	regularStyle = color.New(color.Reset)
	successStyle = color.New(color.FgGreen)
	summaryStyle = color.New(color.FgCyan, color.Bold)
	valueStyle   = color.New(color.Bold)

	pluralizer = pluralize.NewClient()
)

// Private functions (alphabetical)

// formatDuration formats seconds into a human-readable duration string
// such as "10.5 seconds" or "1 hour, 2 minutes and 13 seconds".
func formatDuration(seconds float64) string {
	if seconds < 60 {
		if seconds == float64(int(seconds)) {
			return fmt.Sprintf("%d seconds", int(seconds))
		}
		return fmt.Sprintf("%.3f seconds", seconds)
	}

	duration := time.Duration(seconds * float64(time.Second))
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	secs := int(duration.Seconds()) % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, pluralizer.Pluralize("hour", hours, true))
	}
	if minutes > 0 {
		parts = append(parts, pluralizer.Pluralize("minute", minutes, true))
	}
	if secs > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, pluralizer.Pluralize("second", secs, true))
	}

	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " and " + parts[1]
	default:
		return parts[0] + ", " + parts[1] + " and " + parts[2]
	}
}

// formatHumanReadableSize formats a size in bytes to a human-readable format.
func formatHumanReadableSize(bytes int64) string {
	const (
		_          = iota
		KB float64 = 1 << (10 * iota)
		MB
		GB
		TB
	)

	switch {
	case bytes < 1000:
		return fmt.Sprintf("%d bytes", bytes)
	case bytes < 1000*int64(KB):
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	case bytes < 1000*int64(MB):
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes < 1000*int64(GB):
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	}
	return fmt.Sprintf("%.2f TB", float64(bytes)/TB)
}

// printContainerSummary prints the file name, duration, size and stream
// counts of a probed file, followed by one line per video stream.
func printContainerSummary(w io.Writer, info *ffmpeg.ContainerInfo) {
	summaryStyle.Fprintln(w, "📊 FILE ANALYSIS")
	regularStyle.Fprintln(w, "----------------")
	regularStyle.Fprint(w, "🎬 Working on: ")
	valueStyle.Fprintf(w, "%s\n", filepath.Base(info.General.CompleteName))
	if info.General.FormatLongName != "" {
		regularStyle.Fprint(w, "📦 Container: ")
		valueStyle.Fprintf(w, "%s\n", info.General.FormatLongName)
	}
	regularStyle.Fprint(w, "⏱️ Duration: ")
	valueStyle.Fprintf(w, "%s\n", formatDuration(info.General.Duration))
	regularStyle.Fprint(w, "💾 Size: ")
	valueStyle.Fprintf(w, "%s\n", formatHumanReadableSize(info.General.FileSize))
	if info.General.OverallBitRate > 0 {
		regularStyle.Fprint(w, "📶 Bit rate: ")
		valueStyle.Fprintf(w, "%.2f Kbps\n", float64(info.General.OverallBitRate)/1000)
	}

	videoCount := len(info.VideoStreams)
	audioCount := len(info.AudioStreams)
	subtitleCount := len(info.SubtitleStreams)

	summaryStyle.Fprintln(w, "\nℹ️ STREAM SUMMARY")
	regularStyle.Fprintln(w, "----------------")
	regularStyle.Fprintf(w, "🎞️ %d ", videoCount)
	valueStyle.Fprintln(w, pluralizer.Pluralize("video stream", videoCount, false))
	regularStyle.Fprintf(w, "🔊 %d ", audioCount)
	valueStyle.Fprintln(w, pluralizer.Pluralize("audio stream", audioCount, false))
	regularStyle.Fprintf(w, "💬 %d ", subtitleCount)
	valueStyle.Fprintln(w, pluralizer.Pluralize("subtitle track", subtitleCount, false))

	for i, stream := range info.VideoStreams {
		regularStyle.Fprintf(w, "  #%d %s\n", i, stream)
	}
}

// renderTable draws rows under headers with rounded borders. maxWidths
// limits the width of the matching columns, soft wrapping longer cells; a
// zero leaves the column unbounded.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment, maxWidths ...int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		column := table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft}
		if i < len(maxWidths) && maxWidths[i] > 0 {
			column.WidthMax = maxWidths[i]
			column.WidthMaxEnforcer = text.WrapSoft
		}
		configs = append(configs, column)
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// toolRows lists the catalog as group, name and description rows.
func toolRows(list []mcpserver.ToolInfo) [][]string {
	rows := make([][]string, 0, len(list))
	for _, tool := range list {
		rows = append(rows, []string{tool.Group, tool.Name, tool.Description})
	}
	return rows
}

// versionPrinter prints the version banner.
func versionPrinter(w io.Writer) {
	summaryStyle.Fprintf(w, "🎬 MediaMCP %s\n", Version)
	regularStyle.Fprint(w, "  🛠️ Build date: ")
	valueStyle.Fprintf(w, "%s\n", BuildDate)
	regularStyle.Fprint(w, "  🔍 Commit: ")
	valueStyle.Fprintf(w, "%s\n", Commit)
}
