// Package market aggregates price observations from external providers into
// a single summary and hosts the provider HTTP clients.
package market

import "time"

// Observation is one external data point about an item's achievable price.
type Observation struct {
	Price      float64
	Confidence float64
	ObservedAt time.Time
}

// Trend classifies recent price direction.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Aggregation policy knobs. The confidence ladder is a tunable policy, not a
// hard contract, but must stay monotonic non-decreasing in sample count.
const (
	// FallbackMarkdown is applied to the retail price when no observations
	// exist: unknown market position prices below retail.
	FallbackMarkdown = 0.6

	// fallbackBandSpread sizes the synthetic price band around the
	// fallback average.
	fallbackBandSpread = 0.15

	// Trend compares the mean of the last trendWindow observations against
	// the first trendWindow, in supplied order.
	trendWindow        = 5
	trendUpThreshold   = 1.10
	trendDownThreshold = 0.90

	// RecentWindowCap bounds the recent-price list exposed downstream.
	RecentWindowCap = 10

	confidenceNone   = 0.5
	confidenceLow    = 0.65
	confidenceMedium = 0.75
	confidenceHigh   = 0.9
)

// Summary is the merged view of all observations for one item.
type Summary struct {
	AveragePrice float64
	Trend        Trend
	Confidence   float64
	RecentPrices []float64
	PriceLow     float64
	PriceHigh    float64
	SampleCount  int
}

// Aggregate merges price observations into a Summary. With no observations
// it falls back to a marked-down retail price with a narrow synthetic band
// and low confidence, so downstream stages always get a usable value.
func Aggregate(observations []Observation, fallbackRetailPrice float64) Summary {
	if len(observations) == 0 {
		avg := fallbackRetailPrice * FallbackMarkdown
		return Summary{
			AveragePrice: avg,
			Trend:        TrendStable,
			Confidence:   confidenceNone,
			PriceLow:     avg * (1 - fallbackBandSpread),
			PriceHigh:    avg * (1 + fallbackBandSpread),
		}
	}

	prices := make([]float64, len(observations))
	sum := 0.0
	low, high := observations[0].Price, observations[0].Price
	for i, o := range observations {
		prices[i] = o.Price
		sum += o.Price
		if o.Price < low {
			low = o.Price
		}
		if o.Price > high {
			high = o.Price
		}
	}

	recent := prices
	if len(recent) > RecentWindowCap {
		recent = recent[len(recent)-RecentWindowCap:]
	}

	return Summary{
		AveragePrice: sum / float64(len(prices)),
		Trend:        classifyTrend(prices),
		Confidence:   confidenceForSamples(len(prices)),
		RecentPrices: recent,
		PriceLow:     low,
		PriceHigh:    high,
		SampleCount:  len(prices),
	}
}

// classifyTrend compares the mean of the most recent slice against the mean
// of the earliest slice, in supplied order.
func classifyTrend(prices []float64) Trend {
	if len(prices) < 2 {
		return TrendStable
	}
	n := trendWindow
	if n > len(prices) {
		n = len(prices)
	}
	older := mean(prices[:n])
	newer := mean(prices[len(prices)-n:])
	if older <= 0 {
		return TrendStable
	}
	switch {
	case newer > older*trendUpThreshold:
		return TrendIncreasing
	case newer < older*trendDownThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func confidenceForSamples(n int) float64 {
	switch {
	case n >= 5:
		return confidenceHigh
	case n >= 3:
		return confidenceMedium
	case n >= 1:
		return confidenceLow
	default:
		return confidenceNone
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
