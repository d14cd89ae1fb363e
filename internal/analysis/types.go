// Package analysis runs the item valuation pipeline: classification,
// condition scoring, market aggregation, pricing and prospecting, producing
// immutable result bundles that the persistence and listing layers consume.
package analysis

import (
	"time"

	"github.com/ollisal/flipstack/internal/condition"
	"github.com/ollisal/flipstack/internal/market"
	"github.com/ollisal/flipstack/internal/pricing"
	"github.com/ollisal/flipstack/internal/prospect"
)

// VisionExtract is the opaque output of the on-device vision/OCR step:
// deduplicated free-text artifact lists plus an overall extraction
// confidence in [0,1]. How the artifacts were produced is not modeled here.
type VisionExtract struct {
	ImageRefs    []string
	Brands       []string
	ModelNumbers []string
	Sizes        []string
	Barcodes     []string
	PriceTexts   []string
	Confidence   float64
}

// Request is one item to analyze.
type Request struct {
	// ID correlates logs and results; assigned when empty.
	ID string

	// Label is the free-text category/item label used for classification.
	Label string
	Name  string
	Brand string
	Size  string

	Vision VisionExtract

	ConditionScore float64
	Defects        []string

	// Demand overrides the derived demand level when set.
	Demand pricing.Demand

	// FallbackRetailPrice seeds the market fallback when no observations
	// are available and no barcode match supplies a retail price.
	FallbackRetailPrice float64

	// CompetitorCount is the caller's market-research count of active
	// competing listings; zero means unknown.
	CompetitorCount int
}

// FailureKind distinguishes why a pipeline stage degraded.
type FailureKind string

const (
	// FailureConfig marks a missing/invalid provider configuration; the
	// remediation is operator action, not a retry.
	FailureConfig FailureKind = "config"
	// FailureProvider marks a runtime provider error or timeout.
	FailureProvider FailureKind = "provider"
)

// Failure is one degraded stage with a human-readable reason.
type Failure struct {
	Kind   FailureKind
	Source string
	Reason string
}

// Result is the immutable computed bundle for one analyzed item. It is
// produced once per analysis pass and only consumed afterwards. Callers
// must check Confidence before trusting any price field; failed analyses
// carry near-zero confidence and populated Failures, never silently
// plausible values.
type Result struct {
	ID        string
	CreatedAt time.Time

	// Identification
	Name           string
	Brand          string
	Model          string
	Category       string
	CategoryLetter string
	Size           string

	Condition condition.Assessment

	Quote   pricing.Quote
	Market  market.Summary
	Demand  pricing.Demand
	Fees    pricing.FeeBreakdown
	Margins pricing.Margins

	CompetitorCount int

	ListingText string

	Confidence float64
	Failures   []Failure
}

// LowConfidence reports whether the result should not be trusted without
// human review.
func (r *Result) LowConfidence() bool {
	return r.Confidence < 0.5
}

// ConfigFailed reports whether any stage failed for configuration reasons.
func (r *Result) ConfigFailed() bool {
	for _, f := range r.Failures {
		if f.Kind == FailureConfig {
			return true
		}
	}
	return false
}

// ProspectAnalysis bundles an analysis with the buy-side decision for a
// not-yet-purchased item.
type ProspectAnalysis struct {
	Result   *Result
	Decision prospect.Decision
}
