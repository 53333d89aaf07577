package roi

import "math"

// NPVResult is the discounted value of the subscription over a horizon.
type NPVResult struct {
	Projection              Projection
	NPV                     float64
	TotalBenefitOverHorizon float64
	AverageAnnualReturn     float64
}

// Project discounts the annual net benefit over the projection horizon. The first
// year's subscription is an upfront outlay and every year repeats the same net
// benefit, so the discounted sum is an ordinary annuity.
func Project(result ROIResult, p Projection) (NPVResult, error) {
	if errs := defaultValidator.ValidateProjection(p); len(errs) > 0 {
		return NPVResult{}, errs
	}

	net := result.NetAnnualBenefit
	years := float64(p.HorizonYears)
	npv := -result.Quote.TotalAnnualCost + net*annuityFactor(p.DiscountRate, years)

	return NPVResult{
		Projection:              p,
		NPV:                     npv,
		TotalBenefitOverHorizon: net * years,
		AverageAnnualReturn:     npv / years,
	}, nil
}

// annuityFactor is the present value of 1 received at the end of each of years.
func annuityFactor(rate, years float64) float64 {
	if rate == 0 {
		return years
	}
	return (1 - math.Pow(1+rate, -years)) / rate
}
