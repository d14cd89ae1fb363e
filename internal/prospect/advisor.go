// Package prospect decides whether an item is worth buying for resale.
// Evaluate is a pure decision function: no I/O, fully deterministic.
package prospect

import "math"

// Recommendation is the advisor's verdict.
type Recommendation string

const (
	RecommendBuy         Recommendation = "buy"
	RecommendInvestigate Recommendation = "investigate"
)

// Risk grades the downside of acting on the recommendation.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Policy is the single table of decision thresholds. Every gate reads
// from here, so one table governs every evaluation path and a tweak in
// one place changes them all consistently.
type Policy struct {
	// BuyPriceFactor sets the baseline max buy price as a fraction of the
	// condition-adjusted sell price.
	BuyPriceFactor float64
	// TargetFactor discounts the max buy price to the target offer.
	TargetFactor float64
	// FeeRateEstimate approximates total selling fees as a fraction of the
	// sale price.
	FeeRateEstimate float64

	// Competitor bands: few competitors justify paying more, a crowded
	// market less.
	LowCompetitorCount   int
	HighCompetitorCount  int
	CompetitorAdjustment float64

	// Strong-buy gate.
	StrongROI        float64
	StrongMinProfit  float64
	StrongConfidence float64
	// Regular-buy gate.
	GoodROI        float64
	GoodMinProfit  float64
	GoodConfidence float64

	// Condition gates, expressed as condition multipliers.
	StrongMinCondition float64
	GoodMinCondition   float64
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		BuyPriceFactor:       0.5,
		TargetFactor:         0.75,
		FeeRateEstimate:      0.15,
		LowCompetitorCount:   50,
		HighCompetitorCount:  200,
		CompetitorAdjustment: 0.10,
		StrongROI:            100,
		StrongMinProfit:      20,
		StrongConfidence:     0.7,
		GoodROI:              50,
		GoodMinProfit:        10,
		GoodConfidence:       0.6,
		StrongMinCondition:   0.75,
		GoodMinCondition:     0.65,
	}
}

// Input is everything Evaluate needs about the item and the market.
type Input struct {
	EstimatedSellPrice  float64
	ConditionMultiplier float64
	CompetitorCount     int
	Confidence          float64
}

// Decision is the advisor's full output.
type Decision struct {
	MaxBuyPrice     float64
	TargetBuyPrice  float64
	PotentialProfit float64
	ExpectedROI     float64
	Recommendation  Recommendation
	Risk            Risk
	Reasons         []string
}

// Advisor applies a Policy to prospect inputs.
type Advisor struct {
	policy Policy
}

// NewAdvisor creates an advisor; a zero Policy is replaced by the default.
func NewAdvisor(policy Policy) *Advisor {
	if policy == (Policy{}) {
		policy = DefaultPolicy()
	}
	return &Advisor{policy: policy}
}

// Policy returns the active thresholds.
func (a *Advisor) Policy() Policy {
	return a.policy
}

// Evaluate computes buy-side economics and a recommendation. The decision
// rules are ordered, first match wins; when no buy gate passes, the reasons
// list itemizes exactly the criteria that failed.
func (a *Advisor) Evaluate(in Input) Decision {
	p := a.policy

	maxBuy := in.EstimatedSellPrice * in.ConditionMultiplier * p.BuyPriceFactor
	switch {
	case in.CompetitorCount < p.LowCompetitorCount:
		maxBuy *= 1 + p.CompetitorAdjustment
	case in.CompetitorCount > p.HighCompetitorCount:
		maxBuy *= 1 - p.CompetitorAdjustment
	}
	maxBuy = round2(maxBuy)

	profit := round2(in.EstimatedSellPrice - maxBuy - in.EstimatedSellPrice*p.FeeRateEstimate)

	roi := 0.0
	if maxBuy > 0 {
		roi = round2(profit / maxBuy * 100)
	}

	d := Decision{
		MaxBuyPrice:     maxBuy,
		TargetBuyPrice:  round2(maxBuy * p.TargetFactor),
		PotentialProfit: profit,
		ExpectedROI:     roi,
	}

	switch {
	case roi >= p.StrongROI && profit >= p.StrongMinProfit &&
		in.Confidence >= p.StrongConfidence && in.ConditionMultiplier >= p.StrongMinCondition:
		d.Recommendation = RecommendBuy
		d.Risk = RiskLow

	case roi >= p.GoodROI && profit >= p.GoodMinProfit &&
		in.Confidence >= p.GoodConfidence && in.ConditionMultiplier >= p.GoodMinCondition:
		d.Recommendation = RecommendBuy
		d.Risk = RiskMedium
		if in.ConditionMultiplier >= p.StrongMinCondition {
			d.Risk = RiskLow
		}

	default:
		d.Recommendation = RecommendInvestigate
		d.Risk = RiskHigh
		if roi < p.GoodROI {
			d.Reasons = append(d.Reasons, "expected ROI below threshold")
		}
		if profit < p.GoodMinProfit {
			d.Reasons = append(d.Reasons, "potential profit too small")
		}
		if in.ConditionMultiplier < p.GoodMinCondition {
			d.Reasons = append(d.Reasons, "condition concern")
		}
		if in.Confidence < p.GoodConfidence {
			d.Reasons = append(d.Reasons, "low market confidence")
		}
	}

	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
