package command

import (
	"strconv"
	"strings"
)

// Public types (alphabetical)

// Anchor names a watermark placement.
type Anchor string

// Watermark anchors. Unknown anchors are placed at AnchorBottomRight.
const (
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorCenter      Anchor = "center"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
)

// Public constants (alphabetical)

const (
	// MaxAtempo is the largest factor a single atempo stage is given.
	MaxAtempo = 2.0

	// MinAtempo is the smallest factor a single atempo stage is given.
	MinAtempo = 0.5
)

// Public functions (alphabetical)

// AtempoChain splits a speed factor into atempo stage factors. Factors in
// [0.5, 2.0] use one stage. Otherwise stages of exactly 2.0 (or 0.5) are
// added until the remainder falls back into range, followed by one stage for
// the remainder unless it is exactly 1.0.
func AtempoChain(speed float64) []float64 {
	if speed >= MinAtempo && speed <= MaxAtempo {
		return []float64{speed}
	}

	var stages []float64
	var remaining float64
	if speed > MaxAtempo {
		stages = append(stages, MaxAtempo)
		remaining = speed / MaxAtempo
	} else {
		stages = append(stages, MinAtempo)
		remaining = speed / MinAtempo
	}

	for remaining > MaxAtempo || remaining < MinAtempo {
		if remaining > MaxAtempo {
			stages = append(stages, MaxAtempo)
			remaining /= MaxAtempo
		} else {
			stages = append(stages, MinAtempo)
			remaining /= MinAtempo
		}
	}

	if remaining != 1.0 {
		stages = append(stages, remaining)
	}
	return stages
}

// ConcatGraph joins the video and audio streams of n inputs in order.
func ConcatGraph(n int) Graph {
	inputs := make([]string, 0, 2*n)
	for i := 0; i < n; i++ {
		idx := strconv.Itoa(i)
		inputs = append(inputs, idx+":v", idx+":a")
	}
	return Graph{{
		Inputs:  inputs,
		Filters: []Filter{NewFilter("concat", "n="+strconv.Itoa(n), "v=1", "a=1")},
		Outputs: []string{"outv", "outa"},
	}}
}

// MixGraph mixes the audio of n inputs, lasting as long as the longest one.
func MixGraph(n int) Graph {
	return Graph{{
		Filters: []Filter{NewFilter("amix", "inputs="+strconv.Itoa(n), "duration=longest")},
	}}
}

// OverlayPosition returns the overlay x:y expression for an anchor.
func OverlayPosition(anchor Anchor, margin int) []string {
	m := strconv.Itoa(margin)
	switch anchor {
	case AnchorTopLeft:
		return []string{m, m}
	case AnchorTopRight:
		return []string{"W-w-" + m, m}
	case AnchorBottomLeft:
		return []string{m, "H-h-" + m}
	case AnchorCenter:
		return []string{"(W-w)/2", "(H-h)/2"}
	case AnchorBottomRight:
		return []string{"W-w-" + m, "H-h-" + m}
	default:
		return []string{"W-w-" + m, "H-h-" + m}
	}
}

// PaletteGenChain is the first GIF pass: sample, scale and build a palette.
func PaletteGenChain(fps, width int, palette PaletteSettings) Chain {
	return Chain{Filters: append(gifScaleFilters(fps, width),
		NewFilter("palettegen", "max_colors="+strconv.Itoa(palette.Colors)))}
}

// PaletteUseGraph is the second GIF pass: the same sampling and scaling as
// the first pass, then dithering against the palette read from input 1.
func PaletteUseGraph(fps, width int, palette PaletteSettings) Graph {
	return Graph{
		{Filters: gifScaleFilters(fps, width), Outputs: []string{"x"}},
		{
			Inputs:  []string{"x", "1:v"},
			Filters: []Filter{NewFilter("paletteuse", "dither=bayer", "bayer_scale="+strconv.Itoa(palette.BayerScale))},
		},
	}
}

// ParseAnchor normalizes a user-supplied anchor name.
func ParseAnchor(name string) Anchor {
	return Anchor(strings.ToLower(strings.TrimSpace(name)))
}

// ScaleFilter resizes to width x height, optionally shrinking to fit while
// keeping the source aspect ratio.
func ScaleFilter(width, height int, keepAspect bool) Filter {
	options := []string{strconv.Itoa(width), strconv.Itoa(height)}
	if keepAspect {
		options = append(options, "force_original_aspect_ratio=decrease")
	}
	return NewFilter("scale", options...)
}

// SpeedGraph retimes video by 1/speed and audio by speed. With keepPitch the
// audio uses a chained atempo filter; without it a single atempo stage is used.
func SpeedGraph(speed float64, keepPitch bool) Graph {
	video := Chain{
		Inputs:  []string{"0:v"},
		Filters: []Filter{NewFilter("setpts", FormatFloat(1/speed)+"*PTS")},
		Outputs: []string{"v"},
	}

	stages := []float64{speed}
	if keepPitch {
		stages = AtempoChain(speed)
	}
	audioFilters := make([]Filter, len(stages))
	for i, factor := range stages {
		audioFilters[i] = NewFilter("atempo", FormatFloat(factor))
	}
	audio := Chain{
		Inputs:  []string{"0:a"},
		Filters: audioFilters,
		Outputs: []string{"a"},
	}
	return Graph{video, audio}
}

// WatermarkGraph scales the alpha of input 1 by opacity and overlays it on
// input 0 at the anchor.
func WatermarkGraph(anchor Anchor, opacity float64, margin int) Graph {
	return Graph{
		{
			Inputs: []string{"1:v"},
			Filters: []Filter{
				NewFilter("format", "rgba"),
				NewFilter("colorchannelmixer", "aa="+FormatFloat(opacity)),
			},
			Outputs: []string{"watermark"},
		},
		{
			Inputs:  []string{"0:v", "watermark"},
			Filters: []Filter{NewFilter("overlay", OverlayPosition(anchor, margin)...)},
		},
	}
}

// Private functions (alphabetical)

// gifScaleFilters samples at fps and scales to width with lanczos, keeping
// the aspect ratio.
func gifScaleFilters(fps, width int) []Filter {
	return []Filter{
		NewFilter("fps", strconv.Itoa(fps)),
		NewFilter("scale", strconv.Itoa(width), "-1", "flags=lanczos"),
	}
}
