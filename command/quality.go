package command

import (
	"strconv"
	"strings"
)

// Public types (alphabetical)

// Family groups encoders that share a quality knob.
type Family int

// PaletteSettings are the palette size and dithering strength used for GIFs.
type PaletteSettings struct {
	Colors     int
	BayerScale int
}

// Table selects one of the two quality scales. TableStandard is used for
// conversions; TableCompact is the slightly lower-quality scale used when a
// hardware encoder compresses without a target size.
type Table int

// Tier is a coarse quality selection.
type Tier int

// Public constants (alphabetical)

// Encoder families.
const (
	FamilySoftware Family = iota
	FamilyQSV
	FamilyNVENC
)

// Quality tables.
const (
	TableStandard Table = iota
	TableCompact
)

// Quality tiers. The zero value is TierMedium.
const (
	TierMedium Tier = iota
	TierHigh
	TierLow
)

// Private functions (alphabetical)

// compactValue is the lower-quality hardware scale: 20/25/30.
func compactValue(t Tier) int {
	switch t {
	case TierHigh:
		return 20
	case TierLow:
		return 30
	case TierMedium:
		return 25
	default:
		return 25
	}
}

// standardValue is the shared scale: 18/23/28.
func standardValue(t Tier) int {
	switch t {
	case TierHigh:
		return 18
	case TierLow:
		return 28
	case TierMedium:
		return 23
	default:
		return 23
	}
}

// Public functions (alphabetical)

// FamilyOf classifies an encoder name by substring, the way FFmpeg names them.
func FamilyOf(codec string) Family {
	lower := strings.ToLower(codec)
	switch {
	case strings.Contains(lower, "qsv"):
		return FamilyQSV
	case strings.Contains(lower, "nvenc"):
		return FamilyNVENC
	default:
		return FamilySoftware
	}
}

// PaletteFor returns the GIF palette settings of a tier.
func PaletteFor(t Tier) PaletteSettings {
	switch t {
	case TierHigh:
		return PaletteSettings{Colors: 256, BayerScale: 5}
	case TierLow:
		return PaletteSettings{Colors: 64, BayerScale: 1}
	case TierMedium:
		return PaletteSettings{Colors: 128, BayerScale: 3}
	default:
		return PaletteSettings{Colors: 128, BayerScale: 3}
	}
}

// ParseTier maps a user-supplied tier name to a Tier. Names match exactly,
// lowercase only. Unknown names map to TierMedium; this is never an error.
func ParseTier(name string) Tier {
	switch name {
	case "high":
		return TierHigh
	case "low":
		return TierLow
	case "medium":
		return TierMedium
	default:
		return TierMedium
	}
}

// QualityArgs returns the flag/value pair controlling quality for codec.
func QualityArgs(codec string, t Tier, table Table) []string {
	family := FamilyOf(codec)
	return []string{family.QualityFlag(), strconv.Itoa(QualityValue(family, t, table))}
}

// QualityValue returns the numeric quality of a tier for an encoder family.
// Software encoders always use the standard scale.
func QualityValue(f Family, t Tier, table Table) int {
	if f == FamilySoftware {
		return standardValue(t)
	}
	switch table {
	case TableCompact:
		return compactValue(t)
	case TableStandard:
		return standardValue(t)
	default:
		return standardValue(t)
	}
}

// Public methods (alphabetical)

// QualityFlag returns the FFmpeg option carrying the quality value.
func (f Family) QualityFlag() string {
	switch f {
	case FamilyQSV:
		return "-global_quality"
	case FamilyNVENC:
		return "-cq"
	default:
		return "-crf"
	}
}

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyQSV:
		return "qsv"
	case FamilyNVENC:
		return "nvenc"
	default:
		return "software"
	}
}

// String returns the canonical tier name.
func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierLow:
		return "low"
	default:
		return "medium"
	}
}
