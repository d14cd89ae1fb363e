package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreTiers(t *testing.T) {
	tests := []struct {
		score float64
		tier  string
		mult  float64
	}{
		{100, "Like New", 1.0},
		{95, "Like New", 1.0},
		{94.9, "Excellent", 0.92},
		{85, "Excellent", 0.92},
		{75, "Very Good", 0.84},
		{65, "Good", 0.75},
		{50, "Fair", 0.65},
		{49.9, "Poor", 0.45},
		{0, "Poor", 0.45},
	}
	for _, tt := range tests {
		got := Score(tt.score, "A", nil)
		assert.Equal(t, tt.tier, got.Tier, "score %v", tt.score)
		assert.InDelta(t, tt.mult, got.Multiplier, 1e-9, "score %v", tt.score)
	}
}

func TestScoreClampsOutOfRangeInput(t *testing.T) {
	assert.Equal(t, "Like New", Score(140, "A", nil).Tier)
	assert.Equal(t, "Poor", Score(-10, "A", nil).Tier)
}

func TestCategorySpecificDefectPenalties(t *testing.T) {
	// Footwear sole defect: 1.0 * 0.85
	got := Score(95, "E", []string{"worn sole"})
	assert.InDelta(t, 0.85, got.Multiplier, 1e-9)

	// Electronics screen defect: 1.0 * 0.7
	got = Score(95, "G", []string{"screen scratches"})
	assert.InDelta(t, 0.70, got.Multiplier, 1e-9)

	// Same defect outside the electronics table falls back to generic.
	got = Score(95, "A", []string{"scratch"})
	assert.InDelta(t, 0.92, got.Multiplier, 1e-9)
}

func TestDefectsCompoundMultiplicatively(t *testing.T) {
	got := Score(95, "E", []string{"sole wear", "yellowing"})
	assert.InDelta(t, 0.85*0.88, got.Multiplier, 1e-9)
}

func TestMultiplierClampedToFloor(t *testing.T) {
	got := Score(0, "G", []string{"screen crack", "battery dead", "port broken"})
	assert.Equal(t, MinMultiplier, got.Multiplier)
}

func TestEmptyDefectListLeavesTierMultiplier(t *testing.T) {
	got := Score(85, "E", []string{})
	assert.InDelta(t, 0.92, got.Multiplier, 1e-9)
}

// A tag containing several penalty keywords resolves by rule order, so
// repeated calls with identical input always return the same multiplier.
func TestOverlappingDefectKeywordsResolveDeterministically(t *testing.T) {
	// "cracked screen" matches both the screen and crack rules; the
	// screen rule is listed first.
	for i := 0; i < 500; i++ {
		got := Score(95, "G", []string{"cracked screen"})
		assert.InDelta(t, 0.70, got.Multiplier, 1e-9)
	}
	// Category rule order also disambiguates nested keywords.
	assert.InDelta(t, 0.90, Score(95, "E", []string{"worn insole"}).Multiplier, 1e-9)
}

// Multiplier must be monotone non-decreasing in score for fixed defects, and
// non-increasing in defect count for fixed score; always within bounds.
func TestMultiplierMonotonicity(t *testing.T) {
	prev := 0.0
	for score := 0.0; score <= 100; score += 5 {
		m := Score(score, "B", []string{"stain"}).Multiplier
		assert.GreaterOrEqual(t, m, prev, "score %v", score)
		assert.GreaterOrEqual(t, m, MinMultiplier)
		assert.LessOrEqual(t, m, MaxMultiplier)
		prev = m
	}

	defects := []string{"stain", "tear", "pill", "zipper broken"}
	prev = MaxMultiplier + 1
	for i := 0; i <= len(defects); i++ {
		m := Score(80, "B", defects[:i]).Multiplier
		assert.LessOrEqual(t, m, prev, "defect count %d", i)
		prev = m
	}
}
