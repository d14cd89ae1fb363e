// Package pricing turns a market summary, a condition assessment and product
// attributes into realistic / quick-sale / max-profit price points, plus
// marketplace fee and margin math.
//
// Every multiplier and fee rate lives in Config as named policy data so the
// pricing model can be audited and tested in isolation. The multipliers are
// scalars combined multiplicatively; their order does not matter.
package pricing

import (
	"math"
	"strings"
	"time"

	"github.com/ollisal/flipstack/internal/condition"
	"github.com/ollisal/flipstack/internal/market"
)

// Product carries the pricing-relevant attributes of an item.
type Product struct {
	Brand          string
	CategoryLetter string
	Size           string
}

// Demand is the assessed demand level for an item.
type Demand string

const (
	DemandHigh   Demand = "high"
	DemandNormal Demand = "normal"
	DemandLow    Demand = "low"
)

// BrandTier ranks brands by resale pull.
type BrandTier string

const (
	TierLuxury   BrandTier = "luxury"
	TierHype     BrandTier = "hype"
	TierPremium  BrandTier = "premium"
	TierStandard BrandTier = "standard"
)

// Quote is the priced output for one item.
type Quote struct {
	Realistic float64
	QuickSale float64
	MaxProfit float64
	RangeLow  float64
	RangeHigh float64
}

// SeasonalRule boosts a category during its peak months.
type SeasonalRule struct {
	CategoryLetter string
	Months         []time.Month
	Multiplier     float64
}

// Config is the full pricing policy.
type Config struct {
	// MinimumPrice floors the realistic price; a quote is never zero or
	// negative.
	MinimumPrice float64

	QuickSaleFactor float64
	MaxProfitFactor float64

	// BrandTiers maps a normalized brand name to its tier; unrecognized
	// brands are standard (neutral).
	BrandTiers           map[string]BrandTier
	BrandTierMultipliers map[BrandTier]float64

	// SizePremiums maps category letter -> size -> multiplier, for
	// size-sensitive categories. Anything absent is neutral.
	SizePremiums map[string]map[string]float64

	DemandMultipliers map[Demand]float64

	// TrendAdjustments nudge the demand multiplier by the market trend.
	TrendAdjustments map[market.Trend]float64

	Seasonal []SeasonalRule

	Fees FeePolicy
}

// DefaultConfig returns the standard pricing policy.
func DefaultConfig() Config {
	return Config{
		MinimumPrice:    5.0,
		QuickSaleFactor: 0.85,
		MaxProfitFactor: 1.15,
		BrandTiers: map[string]BrandTier{
			"gucci":          TierLuxury,
			"louis vuitton":  TierLuxury,
			"prada":          TierLuxury,
			"chanel":         TierLuxury,
			"hermes":         TierLuxury,
			"rolex":          TierLuxury,
			"burberry":       TierLuxury,
			"supreme":        TierHype,
			"off-white":      TierHype,
			"palace":         TierHype,
			"bape":           TierHype,
			"fear of god":    TierHype,
			"stussy":         TierHype,
			"nike":           TierPremium,
			"jordan":         TierPremium,
			"adidas":         TierPremium,
			"patagonia":      TierPremium,
			"the north face": TierPremium,
			"lululemon":      TierPremium,
			"carhartt":       TierPremium,
			"apple":          TierPremium,
			"sony":           TierPremium,
			"levi's":         TierPremium,
		},
		BrandTierMultipliers: map[BrandTier]float64{
			TierLuxury:   1.5,
			TierHype:     1.35,
			TierPremium:  1.15,
			TierStandard: 1.0,
		},
		SizePremiums: map[string]map[string]float64{
			// Footwear: common mens sizes move fastest.
			"E": {
				"9": 1.08, "9.5": 1.08, "10": 1.08, "10.5": 1.08, "11": 1.08,
			},
			// Apparel: mid sizes.
			"A": {"m": 1.04, "l": 1.04},
			"B": {"m": 1.04, "l": 1.04},
		},
		DemandMultipliers: map[Demand]float64{
			DemandHigh:   1.10,
			DemandNormal: 1.0,
			DemandLow:    0.92,
		},
		TrendAdjustments: map[market.Trend]float64{
			market.TrendIncreasing: 0.05,
			market.TrendStable:     0.0,
			market.TrendDecreasing: -0.05,
		},
		Seasonal: []SeasonalRule{
			// Outerwear peaks going into winter.
			{CategoryLetter: "B", Months: []time.Month{time.October, time.November, time.December, time.January}, Multiplier: 1.10},
			// Sporting goods peak in spring and early summer.
			{CategoryLetter: "J", Months: []time.Month{time.March, time.April, time.May, time.June}, Multiplier: 1.05},
			// Toys peak before the holidays.
			{CategoryLetter: "I", Months: []time.Month{time.November, time.December}, Multiplier: 1.08},
		},
		Fees: DefaultFeePolicy(),
	}
}

// Engine prices items under a Config.
type Engine struct {
	cfg Config
}

// NewEngine creates a pricing engine. A zero-value Config is replaced by the
// default policy.
func NewEngine(cfg Config) *Engine {
	if cfg.MinimumPrice == 0 && cfg.BrandTiers == nil {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// Config returns the active policy.
func (e *Engine) Config() Config {
	return e.cfg
}

// Price combines the market average with condition, size, brand, demand and
// seasonal multipliers. The realistic price is floored at MinimumPrice;
// quick-sale and max-profit are fixed factors of realistic, so
// QuickSale <= Realistic <= MaxProfit always holds.
func (e *Engine) Price(summary market.Summary, cond condition.Assessment, p Product, demand Demand, month time.Month) Quote {
	adjusted := summary.AveragePrice *
		cond.Multiplier *
		e.SizeMultiplier(p) *
		e.BrandMultiplier(p.Brand) *
		e.DemandMultiplier(demand, summary.Trend) *
		e.SeasonalMultiplier(p.CategoryLetter, month)

	realistic := adjusted
	if realistic < e.cfg.MinimumPrice {
		realistic = e.cfg.MinimumPrice
	}

	return Quote{
		Realistic: round2(realistic),
		QuickSale: round2(realistic * e.cfg.QuickSaleFactor),
		MaxProfit: round2(realistic * e.cfg.MaxProfitFactor),
		RangeLow:  round2(realistic * e.cfg.QuickSaleFactor),
		RangeHigh: round2(realistic * e.cfg.MaxProfitFactor),
	}
}

// BrandMultiplier resolves a brand name to its tier multiplier. Unrecognized
// brands are neutral.
func (e *Engine) BrandMultiplier(brand string) float64 {
	tier := e.BrandTierFor(brand)
	if m, ok := e.cfg.BrandTierMultipliers[tier]; ok {
		return m
	}
	return 1.0
}

// BrandTierFor returns the tier for a brand, TierStandard when unknown.
func (e *Engine) BrandTierFor(brand string) BrandTier {
	b := strings.ToLower(strings.TrimSpace(brand))
	if tier, ok := e.cfg.BrandTiers[b]; ok {
		return tier
	}
	return TierStandard
}

// SizeMultiplier is the premium for high-demand sizes in size-sensitive
// categories, neutral otherwise.
func (e *Engine) SizeMultiplier(p Product) float64 {
	sizes, ok := e.cfg.SizePremiums[strings.ToUpper(p.CategoryLetter)]
	if !ok {
		return 1.0
	}
	if m, ok := sizes[strings.ToLower(strings.TrimSpace(p.Size))]; ok {
		return m
	}
	return 1.0
}

// DemandMultiplier combines the demand level with a secondary trend
// adjustment.
func (e *Engine) DemandMultiplier(d Demand, trend market.Trend) float64 {
	m, ok := e.cfg.DemandMultipliers[d]
	if !ok {
		m = 1.0
	}
	return m + e.cfg.TrendAdjustments[trend]
}

// SeasonalMultiplier boosts seasonally-relevant categories in their peak
// months.
func (e *Engine) SeasonalMultiplier(categoryLetter string, month time.Month) float64 {
	letter := strings.ToUpper(categoryLetter)
	for _, rule := range e.cfg.Seasonal {
		if rule.CategoryLetter != letter {
			continue
		}
		for _, m := range rule.Months {
			if m == month {
				return rule.Multiplier
			}
		}
	}
	return 1.0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
