package pricing

// FeePolicy holds the marketplace cost structure. All rates are policy
// data, overridable per marketplace.
type FeePolicy struct {
	// MarketplaceRate is the final-value fee fraction of the sale price.
	MarketplaceRate float64
	// PaymentRate and PaymentFixed model the payment processor
	// (percentage plus a fixed per-transaction amount).
	PaymentRate  float64
	PaymentFixed float64
	// ShippingCost is the flat label cost the seller eats.
	ShippingCost float64
	// ListingFee is the flat insertion fee.
	ListingFee float64
}

// DefaultFeePolicy mirrors a typical managed-payments marketplace.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{
		MarketplaceRate: 0.1325,
		PaymentRate:     0.029,
		PaymentFixed:    0.30,
		ShippingCost:    9.50,
		ListingFee:      0.35,
	}
}

// FeeBreakdown itemizes the costs of selling at a given price.
type FeeBreakdown struct {
	MarketplaceFee float64
	PaymentFee     float64
	ShippingCost   float64
	ListingFee     float64
	Total          float64
}

// Fees computes the fee breakdown for one sale price.
func (e *Engine) Fees(price float64) FeeBreakdown {
	p := e.cfg.Fees
	b := FeeBreakdown{
		MarketplaceFee: round2(price * p.MarketplaceRate),
		PaymentFee:     round2(price*p.PaymentRate + p.PaymentFixed),
		ShippingCost:   p.ShippingCost,
		ListingFee:     p.ListingFee,
	}
	b.Total = round2(b.MarketplaceFee + b.PaymentFee + b.ShippingCost + b.ListingFee)
	return b
}

// Margins are the fee-adjusted profits at each price point of a quote.
type Margins struct {
	Realistic float64
	QuickSale float64
	MaxProfit float64
}

// Margins computes, for each price point, the price minus total fees at
// that price point.
func (e *Engine) Margins(q Quote) Margins {
	return Margins{
		Realistic: round2(q.Realistic - e.Fees(q.Realistic).Total),
		QuickSale: round2(q.QuickSale - e.Fees(q.QuickSale).Total),
		MaxProfit: round2(q.MaxProfit - e.Fees(q.MaxProfit).Total),
	}
}
