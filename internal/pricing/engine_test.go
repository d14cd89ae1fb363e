package pricing

import (
	"testing"
	"time"

	"github.com/ollisal/flipstack/internal/condition"
	"github.com/ollisal/flipstack/internal/market"
	"github.com/stretchr/testify/assert"
)

func defaultEngine() *Engine {
	return NewEngine(DefaultConfig())
}

func TestPriceOrderingInvariant(t *testing.T) {
	e := defaultEngine()
	summaries := []market.Summary{
		{AveragePrice: 0.01, Trend: market.TrendStable},
		{AveragePrice: 50, Trend: market.TrendIncreasing},
		{AveragePrice: 300, Trend: market.TrendDecreasing},
	}
	for _, s := range summaries {
		q := e.Price(s, condition.Assessment{Multiplier: 0.5}, Product{}, DemandLow, time.July)
		assert.LessOrEqual(t, q.QuickSale, q.Realistic)
		assert.LessOrEqual(t, q.Realistic, q.MaxProfit)
		assert.Greater(t, q.Realistic, 0.0)
	}
}

func TestPriceFloor(t *testing.T) {
	e := defaultEngine()
	q := e.Price(market.Summary{AveragePrice: 1}, condition.Assessment{Multiplier: 0.3}, Product{}, DemandNormal, time.July)
	assert.Equal(t, 5.0, q.Realistic)
}

func TestMultipliersCombineMultiplicatively(t *testing.T) {
	e := defaultEngine()
	cond := condition.Assessment{Tier: "Like New", Multiplier: 1.0}

	// Nike hoodie (jackets letter B, size L) in July: brand 1.15, size 1.04,
	// no seasonal boost, neutral demand.
	q := e.Price(
		market.Summary{AveragePrice: 100, Trend: market.TrendStable},
		cond,
		Product{Brand: "Nike", CategoryLetter: "B", Size: "L"},
		DemandNormal,
		time.July,
	)
	assert.InDelta(t, 100*1.15*1.04, q.Realistic, 0.01)

	// Same item in worse condition scales by the condition multiplier, not
	// additively.
	worn := e.Price(
		market.Summary{AveragePrice: 100, Trend: market.TrendStable},
		condition.Assessment{Tier: "Good", Multiplier: 0.75},
		Product{Brand: "Nike", CategoryLetter: "B", Size: "L"},
		DemandNormal,
		time.July,
	)
	assert.InDelta(t, q.Realistic*0.75, worn.Realistic, 0.01)
}

func TestBrandTiers(t *testing.T) {
	e := defaultEngine()
	assert.Equal(t, TierPremium, e.BrandTierFor("nike"))
	assert.Equal(t, TierPremium, e.BrandTierFor("  NIKE "))
	assert.Equal(t, TierLuxury, e.BrandTierFor("Gucci"))
	assert.Equal(t, TierHype, e.BrandTierFor("Supreme"))
	assert.Equal(t, TierStandard, e.BrandTierFor("some random brand"))

	// Tier ordering: luxury > hype > premium > standard.
	cfg := e.Config()
	assert.Greater(t, cfg.BrandTierMultipliers[TierLuxury], cfg.BrandTierMultipliers[TierHype])
	assert.Greater(t, cfg.BrandTierMultipliers[TierHype], cfg.BrandTierMultipliers[TierPremium])
	assert.Greater(t, cfg.BrandTierMultipliers[TierPremium], 0.99)
	assert.Equal(t, 1.0, cfg.BrandTierMultipliers[TierStandard])
}

func TestSizeMultiplier(t *testing.T) {
	e := defaultEngine()
	assert.Greater(t, e.SizeMultiplier(Product{CategoryLetter: "E", Size: "10"}), 1.0)
	assert.Equal(t, 1.0, e.SizeMultiplier(Product{CategoryLetter: "E", Size: "14"}))
	// Size-insensitive category is neutral regardless of size.
	assert.Equal(t, 1.0, e.SizeMultiplier(Product{CategoryLetter: "G", Size: "10"}))
}

func TestDemandMultiplierWithTrend(t *testing.T) {
	e := defaultEngine()
	base := e.DemandMultiplier(DemandNormal, market.TrendStable)
	assert.Equal(t, 1.0, base)
	assert.Greater(t, e.DemandMultiplier(DemandHigh, market.TrendStable), base)
	assert.Less(t, e.DemandMultiplier(DemandLow, market.TrendStable), base)
	assert.Greater(t, e.DemandMultiplier(DemandNormal, market.TrendIncreasing), base)
	assert.Less(t, e.DemandMultiplier(DemandNormal, market.TrendDecreasing), base)
}

func TestSeasonalMultiplier(t *testing.T) {
	e := defaultEngine()
	assert.Greater(t, e.SeasonalMultiplier("B", time.December), 1.0)
	assert.Equal(t, 1.0, e.SeasonalMultiplier("B", time.June))
	assert.Equal(t, 1.0, e.SeasonalMultiplier("G", time.December))
}
