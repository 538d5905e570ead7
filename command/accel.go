package command

import (
	"strings"
)

// Accel is a hardware acceleration backend. The empty value means software.
type Accel string

// Known acceleration backends. Other names (vaapi, videotoolbox, ...) are
// accepted but neither substitute encoders nor add decode flags.
const (
	AccelNone  Accel = ""
	AccelNVENC Accel = "nvenc"
	AccelQSV   Accel = "qsv"
)

// ParseAccel returns the backend requested by a tool call. When enabled is
// false the result is AccelNone regardless of kind.
func ParseAccel(enabled bool, kind string) Accel {
	if !enabled {
		return AccelNone
	}
	return Accel(strings.ToLower(strings.TrimSpace(kind)))
}

// DecodeArgs returns the decode-side hardware flag, placed before -i.
func (a Accel) DecodeArgs() []string {
	switch a {
	case AccelQSV:
		return []string{"-hwaccel", "qsv"}
	case AccelNVENC:
		return []string{"-hwaccel", "cuda"}
	default:
		return nil
	}
}

// Enabled reports whether a hardware backend was requested.
func (a Accel) Enabled() bool {
	return a != AccelNone
}

// Label is the upper-case name shown in reports.
func (a Accel) Label() string {
	return strings.ToUpper(string(a))
}

// NeedsProbe reports whether the backend must be confirmed by the capability
// prober before any command is built.
func (a Accel) NeedsProbe() bool {
	return a == AccelQSV
}

// SubstituteCodec swaps a software encoder name for its hardware equivalent.
// Names without an equivalent, including hardware encoder names, pass through.
func (a Accel) SubstituteCodec(codec string) string {
	switch a {
	case AccelQSV:
		switch codec {
		case "libx264":
			return "h264_qsv"
		case "libx265":
			return "hevc_qsv"
		}
	case AccelNVENC:
		switch codec {
		case "libx264":
			return "h264_nvenc"
		case "libx265":
			return "hevc_nvenc"
		}
	}
	return codec
}
