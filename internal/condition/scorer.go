// Package condition converts raw condition signals (a 0-100 score plus
// detected defect tags) into a discrete tier and a pricing multiplier.
package condition

import "strings"

// Assessment is the scored condition of one item.
type Assessment struct {
	Tier       string
	Multiplier float64
	Defects    []string
}

// Multiplier bounds. Whatever the tier and defect stack, the final
// multiplier stays inside this range.
const (
	MinMultiplier = 0.3
	MaxMultiplier = 1.0
)

// tier is one row of the ordered threshold table: scores at or above
// Floor map to this tier.
type tier struct {
	Floor      float64
	Name       string
	Multiplier float64
}

// tiers is evaluated top-down, first floor that the score clears wins.
var tiers = []tier{
	{95, "Like New", 1.0},
	{85, "Excellent", 0.92},
	{75, "Very Good", 0.84},
	{65, "Good", 0.75},
	{50, "Fair", 0.65},
	{0, "Poor", 0.45},
}

// penaltyRule pairs a defect keyword with its multiplicative penalty.
// Rule lists are evaluated top-down, first keyword contained in the
// defect tag wins, so a tag matching several keywords always resolves
// to the same penalty.
type penaltyRule struct {
	Keyword string
	Penalty float64
}

// defectPenalties maps category letter -> ordered penalty rules. Defects
// not matched by a category rule fall back to the generic table.
// Multiple defects compound multiplicatively.
var defectPenalties = map[string][]penaltyRule{
	// Footwear
	"E": {
		{"insole", 0.90},
		{"sole", 0.85},
		{"scuff", 0.92},
		{"yellow", 0.88},
		{"crease", 0.93},
		{"lace", 0.97},
	},
	// Electronics
	"G": {
		{"screen", 0.70},
		{"battery", 0.80},
		{"port", 0.85},
		{"crack", 0.75},
		{"dent", 0.90},
	},
	// Jackets & outerwear
	"B": {
		{"zipper", 0.85},
		{"tear", 0.80},
		{"stain", 0.85},
		{"pill", 0.92},
	},
	// Tops
	"A": {
		{"stain", 0.82},
		{"hole", 0.75},
		{"fade", 0.90},
		{"pill", 0.92},
		{"shrink", 0.88},
	},
}

// genericPenalties apply when no category rule matches the defect.
var genericPenalties = []penaltyRule{
	{"stain", 0.85},
	{"tear", 0.80},
	{"hole", 0.78},
	{"crack", 0.80},
	{"missing", 0.75},
	{"odor", 0.85},
	{"fade", 0.92},
	{"scratch", 0.92},
	{"wear", 0.95},
}

// Score converts a raw 0-100 condition score and detected defect tags into
// an Assessment for the given category letter. Out-of-range scores are
// clamped, not rejected; an empty defect list leaves the tier multiplier
// unchanged. The final multiplier is clamped to [MinMultiplier, MaxMultiplier].
func Score(rawScore float64, categoryLetter string, defects []string) Assessment {
	score := clamp(rawScore, 0, 100)

	var name string
	var mult float64
	for _, t := range tiers {
		if score >= t.Floor {
			name = t.Name
			mult = t.Multiplier
			break
		}
	}

	for _, d := range defects {
		mult *= penaltyFor(categoryLetter, d)
	}

	return Assessment{
		Tier:       name,
		Multiplier: clamp(mult, MinMultiplier, MaxMultiplier),
		Defects:    defects,
	}
}

// penaltyFor resolves one defect tag to its multiplicative penalty. The
// category table wins over the generic table; unknown defects apply a mild
// default so an unrecognized tag still counts against the item.
func penaltyFor(categoryLetter, defect string) float64 {
	d := strings.ToLower(strings.TrimSpace(defect))
	if d == "" {
		return 1.0
	}
	for _, r := range defectPenalties[strings.ToUpper(categoryLetter)] {
		if strings.Contains(d, r.Keyword) {
			return r.Penalty
		}
	}
	for _, r := range genericPenalties {
		if strings.Contains(d, r.Keyword) {
			return r.Penalty
		}
	}
	return 0.95
}

// TierNames returns the tier labels from best to worst.
func TierNames() []string {
	out := make([]string, len(tiers))
	for i, t := range tiers {
		out[i] = t.Name
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
