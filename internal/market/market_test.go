package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func obsFromPrices(prices ...float64) []Observation {
	out := make([]Observation, len(prices))
	for i, p := range prices {
		out[i] = Observation{Price: p, Confidence: 0.8}
	}
	return out
}

func TestAggregateEmptyFallsBackToMarkedDownRetail(t *testing.T) {
	got := Aggregate(nil, 170)

	assert.InDelta(t, 102.0, got.AveragePrice, 1e-9)
	assert.LessOrEqual(t, got.Confidence, 0.6)
	assert.Equal(t, TrendStable, got.Trend)
	assert.Equal(t, 0, got.SampleCount)
	// Narrow symmetric band around the fallback average.
	assert.Less(t, got.PriceLow, got.AveragePrice)
	assert.Greater(t, got.PriceHigh, got.AveragePrice)
	assert.InDelta(t, got.AveragePrice-got.PriceLow, got.PriceHigh-got.AveragePrice, 1e-9)
}

func TestAggregateMean(t *testing.T) {
	got := Aggregate(obsFromPrices(10, 20, 30), 0)
	assert.InDelta(t, 20.0, got.AveragePrice, 1e-9)
	assert.Equal(t, 3, got.SampleCount)
	assert.InDelta(t, 10, got.PriceLow, 1e-9)
	assert.InDelta(t, 30, got.PriceHigh, 1e-9)
}

func TestAggregateTrend(t *testing.T) {
	// Earliest five average 100, last five average 120: increasing.
	up := obsFromPrices(100, 100, 100, 100, 100, 120, 120, 120, 120, 120)
	assert.Equal(t, TrendIncreasing, Aggregate(up, 0).Trend)

	down := obsFromPrices(100, 100, 100, 100, 100, 80, 80, 80, 80, 80)
	assert.Equal(t, TrendDecreasing, Aggregate(down, 0).Trend)

	// Within +-10%: stable.
	flat := obsFromPrices(100, 100, 100, 100, 100, 105, 105, 105, 105, 105)
	assert.Equal(t, TrendStable, Aggregate(flat, 0).Trend)

	assert.Equal(t, TrendStable, Aggregate(obsFromPrices(50), 0).Trend)
}

func TestAggregateRecentPricesWindowCapped(t *testing.T) {
	prices := make([]float64, 0, 25)
	for i := 1; i <= 25; i++ {
		prices = append(prices, float64(i))
	}
	got := Aggregate(obsFromPrices(prices...), 0)

	assert.Len(t, got.RecentPrices, RecentWindowCap)
	// Sliding window keeps the most recent, in supplied order.
	assert.Equal(t, 16.0, got.RecentPrices[0])
	assert.Equal(t, 25.0, got.RecentPrices[len(got.RecentPrices)-1])
}

func TestConfidenceMonotonicInSampleCount(t *testing.T) {
	prev := 0.0
	for n := 0; n <= 8; n++ {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = 50
		}
		var obs []Observation
		if n > 0 {
			obs = obsFromPrices(prices...)
		}
		conf := Aggregate(obs, 100).Confidence
		assert.GreaterOrEqual(t, conf, prev, "n=%d", n)
		prev = conf
	}
}
