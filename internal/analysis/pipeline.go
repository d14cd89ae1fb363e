package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ollisal/flipstack/internal/condition"
	"github.com/ollisal/flipstack/internal/market"
	"github.com/ollisal/flipstack/internal/pricing"
	"github.com/ollisal/flipstack/internal/prospect"
	"github.com/ollisal/flipstack/internal/taxonomy"
	"github.com/rs/zerolog/log"
)

// DefaultBatchDelay spaces out batch items so provider quotas are
// respected. A policy knob, not a correctness requirement.
const DefaultBatchDelay = 2 * time.Second

// BarcodeLookup resolves a barcode to product info; (nil, nil) means no
// match.
type BarcodeLookup interface {
	Lookup(ctx context.Context, barcode string) (*market.ProductInfo, error)
}

// Options wires a Pipeline.
type Options struct {
	Sources       []market.Source
	Barcode       BarcodeLookup
	SourceTimeout time.Duration
	Pricing       pricing.Config
	Policy        prospect.Policy
	// Now is injectable for deterministic seasonal pricing in tests.
	Now func() time.Time
}

// Pipeline runs one item at a time through classification, condition
// scoring, market aggregation and pricing. Each stage is a pure function of
// its inputs; the pipeline itself only coordinates and never shares mutable
// state between requests, so independent analyses may run concurrently.
type Pipeline struct {
	sources []market.Source
	barcode BarcodeLookup
	timeout time.Duration
	engine  *pricing.Engine
	advisor *prospect.Advisor
	now     func() time.Time
}

// NewPipeline creates a pipeline from options, applying defaults for
// anything unset.
func NewPipeline(opts Options) *Pipeline {
	p := &Pipeline{
		sources: opts.Sources,
		barcode: opts.Barcode,
		timeout: opts.SourceTimeout,
		engine:  pricing.NewEngine(opts.Pricing),
		advisor: prospect.NewAdvisor(opts.Policy),
		now:     opts.Now,
	}
	if p.timeout <= 0 {
		p.timeout = market.DefaultSourceTimeout
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Analyze runs the full pipeline for one item. It always returns a
// well-formed Result: provider and configuration problems degrade the
// result (fallback pricing, low confidence, populated Failures) instead of
// failing it, because a batch of fifty items cannot abort on one.
func (p *Pipeline) Analyze(ctx context.Context, req Request) *Result {
	res := &Result{
		ID:        req.ID,
		CreatedAt: p.now(),
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	product := p.identify(ctx, req, res)

	cat := taxonomy.Classify(pickLabel(req, product))
	res.Category = cat.Name
	res.CategoryLetter = cat.Letter

	res.Condition = condition.Score(req.ConditionScore, cat.Letter, req.Defects)

	query := market.Query{
		Text:  res.Name,
		Brand: res.Brand,
		Model: res.Model,
	}
	report := market.FetchAll(ctx, query, p.sources, p.timeout)
	for _, e := range report.Errors {
		kind := FailureProvider
		if e.Config {
			kind = FailureConfig
		}
		res.Failures = append(res.Failures, Failure{Kind: kind, Source: e.Source, Reason: e.Reason})
	}

	fallbackRetail := req.FallbackRetailPrice
	if fallbackRetail == 0 && product != nil {
		fallbackRetail = product.RetailPrice
	}
	res.Market = market.Aggregate(report.Observations, fallbackRetail)

	res.Demand = req.Demand
	if res.Demand == "" {
		res.Demand = deriveDemand(res.Market)
	}

	res.CompetitorCount = req.CompetitorCount
	if res.CompetitorCount == 0 {
		res.CompetitorCount = res.Market.SampleCount
	}

	res.Quote = p.engine.Price(res.Market, res.Condition, pricing.Product{
		Brand:          res.Brand,
		CategoryLetter: cat.Letter,
		Size:           res.Size,
	}, res.Demand, p.now().Month())

	res.Fees = p.engine.Fees(res.Quote.Realistic)
	res.Margins = p.engine.Margins(res.Quote)

	res.Confidence = p.confidence(req, res)
	res.ListingText = buildListingText(res)

	log.Debug().
		Str("id", res.ID).
		Str("category", res.Category).
		Str("tier", res.Condition.Tier).
		Float64("realistic", res.Quote.Realistic).
		Float64("confidence", res.Confidence).
		Int("failures", len(res.Failures)).
		Msg("analysis complete")

	return res
}

// identify fills the result's identity fields from the request, the vision
// extract and, when available, a barcode match. A failed barcode lookup
// degrades to the vision-only path.
func (p *Pipeline) identify(ctx context.Context, req Request, res *Result) *market.ProductInfo {
	res.Name = req.Name
	res.Brand = firstNonEmpty(req.Brand, first(req.Vision.Brands))
	res.Model = first(req.Vision.ModelNumbers)
	res.Size = firstNonEmpty(req.Size, first(req.Vision.Sizes))

	if p.barcode == nil || len(req.Vision.Barcodes) == 0 {
		return nil
	}

	barcode := req.Vision.Barcodes[0]
	info, err := p.barcode.Lookup(ctx, barcode)
	if err != nil {
		kind := FailureProvider
		if errors.Is(err, market.ErrMissingAPIKey) {
			kind = FailureConfig
		}
		res.Failures = append(res.Failures, Failure{Kind: kind, Source: "barcode", Reason: err.Error()})
		return nil
	}
	if info == nil {
		return nil
	}

	res.Name = firstNonEmpty(res.Name, info.Name)
	res.Brand = firstNonEmpty(info.Brand, res.Brand)
	res.Model = firstNonEmpty(info.Model, res.Model)
	res.Size = firstNonEmpty(res.Size, info.Size)
	return info
}

// confidence combines market confidence with the vision extraction
// confidence. A request whose providers all failed and produced no
// observations is tagged near zero so downstream code cannot mistake the
// fallback numbers for market-backed ones.
func (p *Pipeline) confidence(req Request, res *Result) float64 {
	conf := res.Market.Confidence
	if req.Vision.Confidence > 0 {
		conf = (conf + req.Vision.Confidence) / 2
	}
	if len(res.Failures) > 0 && res.Market.SampleCount == 0 {
		conf = 0.1
	}
	return conf
}

// Prospect runs Analyze and then the buy-side decision for an item that has
// not been purchased yet.
func (p *Pipeline) Prospect(ctx context.Context, req Request) *ProspectAnalysis {
	res := p.Analyze(ctx, req)
	decision := p.advisor.Evaluate(prospect.Input{
		EstimatedSellPrice:  res.Quote.Realistic,
		ConditionMultiplier: res.Condition.Multiplier,
		CompetitorCount:     res.CompetitorCount,
		Confidence:          res.Confidence,
	})
	return &ProspectAnalysis{Result: res, Decision: decision}
}

// AnalyzeBatch processes requests sequentially with a fixed delay between
// items to respect provider quotas. Cancelling the context stops feeding
// new items; the item in flight runs to completion under its own source
// timeouts. Returns the results produced so far.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, reqs []Request, delay time.Duration) []*Result {
	if delay < 0 {
		delay = DefaultBatchDelay
	}

	var out []*Result
	for i, req := range reqs {
		if ctx.Err() != nil {
			log.Info().Int("completed", len(out)).Int("total", len(reqs)).Msg("batch cancelled")
			break
		}
		if i > 0 && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				log.Info().Int("completed", len(out)).Int("total", len(reqs)).Msg("batch cancelled")
				return out
			}
		}
		out = append(out, p.Analyze(ctx, req))
	}
	return out
}

func deriveDemand(s market.Summary) pricing.Demand {
	switch s.Trend {
	case market.TrendIncreasing:
		return pricing.DemandHigh
	case market.TrendDecreasing:
		return pricing.DemandLow
	default:
		return pricing.DemandNormal
	}
}

func pickLabel(req Request, product *market.ProductInfo) string {
	if req.Label != "" {
		return req.Label
	}
	if product != nil && product.Category != "" {
		return product.Category
	}
	return req.Name
}

func first(xs []string) string {
	if len(xs) == 0 {
		return ""
	}
	return xs[0]
}

func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if x != "" {
			return x
		}
	}
	return ""
}
