package roi

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/councilroi/internal/pricing"
)

// ErrOutOfRange is returned when a currency figure is too large to present in whole
// units. Payback is not range checked; a huge month count is still shown.
var ErrOutOfRange = errors.New("roi: result outside presentable range")

const maxPresentable = 1e15

// Tenths is a value rounded to one decimal place. It always prints one fractional digit.
type Tenths struct {
	d decimal.Decimal
}

func newTenths(v float64) Tenths {
	return Tenths{d: decimal.NewFromFloat(v).Round(1)}
}

func (t Tenths) String() string   { return t.d.StringFixed(1) }
func (t Tenths) Float64() float64 { return t.d.InexactFloat64() }

func (t Tenths) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tenths) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	t.d = d.Round(1)
	return nil
}

// PaybackSummary is the presented payback period.
type PaybackSummary struct {
	Recoverable bool    `json:"recoverable"`
	Months      *Tenths `json:"months,omitempty"`
	Label       string  `json:"label"`
}

// Summary holds the headline figures.
type Summary struct {
	TotalCurrentCosts int64          `json:"totalCurrentCosts"`
	TotalBenefits     int64          `json:"totalBenefits"`
	AnnualCost        int64          `json:"annualCost"`
	NetAnnualBenefit  int64          `json:"netAnnualBenefit"`
	ROIPercentage     int64          `json:"roiPercentage"`
	TotalSavings      int64          `json:"totalSavings"`
	Payback           PaybackSummary `json:"payback"`
}

// CostSummary is the current cost of running grants, in whole currency units.
type CostSummary struct {
	StaffCost int64 `json:"staffCost"`
	TechCost  int64 `json:"techCost"`
	AdminCost int64 `json:"adminCost"`
	Total     int64 `json:"total"`
}

// BenefitSummary breaks down the annual benefit of adopting the platform.
type BenefitSummary struct {
	HoursSavedPerApplication float64 `json:"hoursSavedPerApplication"`
	TotalHoursSaved          float64 `json:"totalHoursSaved"`
	StaffTimeSavingsValue    int64   `json:"staffTimeSavingsValue"`
	TechSavings              int64   `json:"techSavings"`
	AdminSavings             int64   `json:"adminSavings"`
	TotalBenefits            int64   `json:"totalBenefits"`
}

// PricingSummary is the quoted subscription for the chosen tier and add-ons.
type PricingSummary struct {
	BasePrice              int64   `json:"basePrice"`
	AddOnListPrice         int64   `json:"addOnListPrice"`
	AddOnCost              int64   `json:"addOnCost"`
	BundleApplied          bool    `json:"bundleApplied"`
	BundleDiscountFraction float64 `json:"bundleDiscountFraction"`
	TotalAnnualCost        int64   `json:"totalAnnualCost"`
}

// NPVSummary is the discounted multi-year projection.
type NPVSummary struct {
	HorizonYears            int     `json:"horizonYears"`
	DiscountRate            float64 `json:"discountRate"`
	NPV                     int64   `json:"npv"`
	TotalBenefitOverHorizon int64   `json:"totalBenefitOverHorizon"`
	AverageAnnualReturn     int64   `json:"averageAnnualReturn"`
}

// Report is the presented result of one calculation.
type Report struct {
	Inputs          Inputs           `json:"inputs"`
	Tier            pricing.Tier     `json:"tier"`
	RecommendedTier pricing.Tier     `json:"recommendedTier"`
	Features        pricing.Features `json:"features"`

	Summary  Summary        `json:"summary"`
	Costs    CostSummary    `json:"costs"`
	Benefits BenefitSummary `json:"benefits"`
	Pricing  PricingSummary `json:"pricing"`
	NPV      NPVSummary     `json:"npv"`

	IncludedFeatures []string      `json:"includedFeatures"`
	AddOns           []AddOnStatus `json:"addOns"`
}

// Assembler runs validation, evaluation and projection and rounds the result.
type Assembler struct {
	engine    *Engine
	validator *Validator
}

// NewAssembler returns an Assembler backed by engine.
func NewAssembler(engine *Engine) *Assembler {
	return &Assembler{engine: engine, validator: defaultValidator}
}

// Engine returns the underlying engine.
func (a *Assembler) Engine() *Engine {
	return a.engine
}

// Assemble builds a Report. Invalid inputs or projection return ValidationErrors
// holding every violation and no report.
func (a *Assembler) Assemble(in Inputs, tier pricing.Tier, features pricing.Features, p Projection) (Report, error) {
	errs := a.validator.Validate(in)
	errs = append(errs, a.validator.ValidateProjection(p)...)
	if len(errs) > 0 {
		return Report{}, errs
	}

	result, err := a.engine.Evaluate(in, tier, features)
	if err != nil {
		return Report{}, err
	}
	npv, err := Project(result, p)
	if err != nil {
		return Report{}, err
	}
	row, err := a.engine.catalog.Row(tier)
	if err != nil {
		return Report{}, err
	}

	if !presentable(
		result.Costs.Total, result.Costs.StaffCost,
		result.Benefits.TotalBenefits, result.Benefits.StaffTimeSavingsValue, result.Benefits.TotalHoursSaved,
		result.NetAnnualBenefit, result.ROIPercentage, result.TotalSavings,
		npv.NPV, npv.TotalBenefitOverHorizon,
	) {
		return Report{}, ErrOutOfRange
	}

	return Report{
		Inputs:          in,
		Tier:            tier,
		RecommendedTier: RecommendTier(in.ApplicationsPerYear),
		Features:        features,
		Summary: Summary{
			TotalCurrentCosts: whole(result.Costs.Total),
			TotalBenefits:     whole(result.Benefits.TotalBenefits),
			AnnualCost:        whole(result.Quote.TotalAnnualCost),
			NetAnnualBenefit:  whole(result.NetAnnualBenefit),
			ROIPercentage:     whole(result.ROIPercentage),
			TotalSavings:      whole(result.TotalSavings),
			Payback:           summarizePayback(result.Payback),
		},
		Costs: CostSummary{
			StaffCost: whole(result.Costs.StaffCost),
			TechCost:  whole(result.Costs.TechCost),
			AdminCost: whole(result.Costs.AdminCost),
			Total:     whole(result.Costs.Total),
		},
		Benefits: BenefitSummary{
			HoursSavedPerApplication: hundredths(result.Benefits.HoursSavedPerApplication),
			TotalHoursSaved:          hundredths(result.Benefits.TotalHoursSaved),
			StaffTimeSavingsValue:    whole(result.Benefits.StaffTimeSavingsValue),
			TechSavings:              whole(result.Benefits.TechSavings),
			AdminSavings:             whole(result.Benefits.AdminSavings),
			TotalBenefits:            whole(result.Benefits.TotalBenefits),
		},
		Pricing: PricingSummary{
			BasePrice:              whole(result.Quote.BasePrice),
			AddOnListPrice:         whole(result.Quote.AddOnListPrice),
			AddOnCost:              whole(result.Quote.AddOnCost),
			BundleApplied:          result.Quote.BundleApplied,
			BundleDiscountFraction: row.BundleDiscount,
			TotalAnnualCost:        whole(result.Quote.TotalAnnualCost),
		},
		NPV: NPVSummary{
			HorizonYears:            p.HorizonYears,
			DiscountRate:            p.DiscountRate,
			NPV:                     whole(npv.NPV),
			TotalBenefitOverHorizon: whole(npv.TotalBenefitOverHorizon),
			AverageAnnualReturn:     whole(npv.AverageAnnualReturn),
		},
		IncludedFeatures: IncludedFeatures(),
		AddOns:           addOnStatuses(features, result.Quote),
	}, nil
}

func summarizePayback(p Payback) PaybackSummary {
	if !p.Recoverable || math.IsInf(p.Months, 0) || math.IsNaN(p.Months) {
		return PaybackSummary{Label: NonRecoverableInvestment.String()}
	}
	months := newTenths(p.Months)
	return PaybackSummary{Recoverable: true, Months: &months, Label: months.String() + " months"}
}

func presentable(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.Abs(v) > maxPresentable {
			return false
		}
	}
	return true
}

// whole rounds half away from zero to a whole currency unit.
func whole(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

func hundredths(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
