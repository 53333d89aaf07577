package roi

import (
	"fmt"

	"github.com/Simplici0/councilroi/internal/pricing"
)

// Payback is how long net benefits take to cover one year's subscription.
type Payback struct {
	Months      float64
	Recoverable bool
}

// NonRecoverableInvestment is the payback when the modeled net benefit is zero or
// negative. It carries no month count.
var NonRecoverableInvestment = Payback{}

func (p Payback) String() string {
	if !p.Recoverable {
		return "not recoverable within the modeled benefits"
	}
	return fmt.Sprintf("%.1f months", p.Months)
}

// ROIResult is the single-year return of a tier and feature selection.
type ROIResult struct {
	Costs    CostBreakdown
	Benefits BenefitBreakdown
	Quote    pricing.Quote

	NetAnnualBenefit float64
	ROIPercentage    float64
	Payback          Payback
	TotalSavings     float64
}

// Engine evaluates ROI against an injected price list.
type Engine struct {
	catalog *pricing.Catalog
}

// NewEngine returns an Engine that prices with catalog.
func NewEngine(catalog *pricing.Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Catalog returns the price list the engine quotes from.
func (e *Engine) Catalog() *pricing.Catalog {
	return e.catalog
}

// Evaluate computes the annual return. in must already have passed validation.
func (e *Engine) Evaluate(in Inputs, tier pricing.Tier, features pricing.Features) (ROIResult, error) {
	quote, err := e.catalog.Quote(tier, features)
	if err != nil {
		return ROIResult{}, err
	}

	costs := CurrentCosts(in)
	benefits := ProjectedBenefits(in)
	annualCost := quote.TotalAnnualCost
	net := benefits.TotalBenefits - annualCost

	return ROIResult{
		Costs:            costs,
		Benefits:         benefits,
		Quote:            quote,
		NetAnnualBenefit: net,
		ROIPercentage:    net / annualCost * 100,
		Payback:          paybackFor(annualCost, net),
		TotalSavings:     costs.Total - annualCost,
	}, nil
}

func paybackFor(annualCost, net float64) Payback {
	if !(net > 0) {
		return NonRecoverableInvestment
	}
	return Payback{Months: annualCost / (net / 12), Recoverable: true}
}
