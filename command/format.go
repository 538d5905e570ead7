package command

import (
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders a float the way filter expressions expect it: the
// shortest representation that round-trips, with integral values keeping a
// trailing ".0" (2 renders as "2.0", 0.5 as "0.5").
func FormatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	abs := math.Abs(v)
	if abs >= 1e-4 && abs < 1e16 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'e', -1, 64)
}

// SpeedLabel renders a speed factor for file names: one decimal with the
// point replaced by an underscore (1.5 becomes "1_5x").
func SpeedLabel(speed float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(speed, 'f', 1, 64), ".", "_") + "x"
}
