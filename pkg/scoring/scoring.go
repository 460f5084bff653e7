// Package scoring maps evaluation scores to display tiers and colors.
//
// Tiers are an ordered table checked top-down with inclusive lower bounds,
// so a score equal to a threshold belongs to the higher tier.
package scoring

import (
	"image/color"
	"math"

	"github.com/ideamans/go-l10n"
)

// Tier ids.
const (
	TierMasterpiece   = "masterpiece"
	TierMasterWork    = "master_work"
	TierBrilliant     = "brilliant"
	TierWorthKeeping  = "worth_keeping"
	TierKeepExploring = "keep_exploring"
)

// Palette shared by the card renderer.
var (
	Gold     = color.RGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 255}
	Platinum = color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 255}
	Accent   = color.RGBA{R: 0xff, G: 0x4d, B: 0x4f, A: 255}
	Graphite = color.RGBA{R: 0x52, G: 0x52, B: 0x52, A: 255}
	Charcoal = color.RGBA{R: 0x26, G: 0x26, B: 0x26, A: 255}
	Muted    = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 255}
)

// Tier is one row of the tier table.
type Tier struct {
	ID       string
	MinScore float64 // inclusive lower bound
	LabelKey string  // lexicon key of the badge label
	BgColor  color.Color
	Text     color.Color
}

// Label returns the localized badge label.
func (t Tier) Label() string {
	return l10n.T(t.LabelKey)
}

// IsTop reports whether t is the highest tier.
func (t Tier) IsTop() bool {
	return t.ID == tiers[0].ID
}

// tiers is ordered from the highest lower bound down. The last row catches
// everything below the previous threshold.
var tiers = []Tier{
	{ID: TierMasterpiece, MinScore: 9.0, LabelKey: "✦ Masterpiece", BgColor: Gold, Text: color.Black},
	{ID: TierMasterWork, MinScore: 8.0, LabelKey: "◈ Master work", BgColor: Platinum, Text: color.Black},
	{ID: TierBrilliant, MinScore: 7.0, LabelKey: "◎ Brilliant moment", BgColor: Accent, Text: color.White},
	{ID: TierWorthKeeping, MinScore: 6.0, LabelKey: "○ Worth keeping", BgColor: Graphite, Text: color.White},
	{ID: TierKeepExploring, MinScore: math.Inf(-1), LabelKey: "· Keep exploring", BgColor: Charcoal, Text: Muted},
}

// Tiers returns a copy of the tier table, highest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierFor returns the first tier whose lower bound the score reaches.
// NaN falls through to the lowest tier.
func TierFor(score float64) Tier {
	for _, t := range tiers {
		if score >= t.MinScore {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// ScoreColor returns the color of the headline score: gold for the top
// tier, accent red for every other tier.
func ScoreColor(t Tier) color.Color {
	if t.IsTop() {
		return Gold
	}
	return Accent
}

// BarColor returns the fill color of a sub-score bar.
func BarColor(value float64) color.Color {
	switch {
	case value >= 8.5:
		return Gold
	case value >= 7.0:
		return color.White
	default:
		return Accent
	}
}

// BarFraction returns value/10 clamped to [0,1].
func BarFraction(value float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	return math.Max(0, math.Min(1, value/10))
}
