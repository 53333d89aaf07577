package roi

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/councilroi/internal/pricing"
)

func TestAssemble_SmallCouncilScenario(t *testing.T) {
	report, err := newTestAssembler().Assemble(smallCouncil(), pricing.TierSmall, pricing.Features{}, DefaultProjection())
	require.NoError(t, err)

	assert.Equal(t, int64(17000), report.Costs.StaffCost)
	assert.Equal(t, int64(22000), report.Summary.TotalCurrentCosts)
	assert.Equal(t, int64(19500), report.Summary.TotalBenefits)
	assert.Equal(t, int64(2400), report.Summary.AnnualCost)
	assert.Equal(t, int64(17100), report.Summary.NetAnnualBenefit)
	assert.Equal(t, int64(713), report.Summary.ROIPercentage)
	assert.Equal(t, int64(19600), report.Summary.TotalSavings)

	require.True(t, report.Summary.Payback.Recoverable)
	require.NotNil(t, report.Summary.Payback.Months)
	assert.Equal(t, "1.7", report.Summary.Payback.Months.String())
	assert.Equal(t, "1.7 months", report.Summary.Payback.Label)

	assert.Equal(t, 3.75, report.Benefits.HoursSavedPerApplication)
	assert.Equal(t, int64(65875), report.NPV.NPV)
	assert.Equal(t, int64(85500), report.NPV.TotalBenefitOverHorizon)
	assert.Equal(t, int64(13175), report.NPV.AverageAnnualReturn)
	assert.Equal(t, 5, report.NPV.HorizonYears)

	assert.Equal(t, pricing.TierSmall, report.RecommendedTier)
	assert.NotEmpty(t, report.IncludedFeatures)
	assert.Equal(t, []AddOnStatus{
		{AddOn: pricing.CommunityVoting, Label: "Community Voting", Included: false, Status: StatusNotSelected},
		{AddOn: pricing.GrantMapping, Label: "Grant Mapping", Included: false, Status: StatusNotSelected},
	}, report.AddOns)
}

func TestAssemble_BundleAddOnCostIsRoundedDiscountedSum(t *testing.T) {
	a := newTestAssembler()
	for _, tier := range pricing.Tiers {
		row, err := pricing.DefaultCatalog().Row(tier)
		require.NoError(t, err)

		report, err := a.Assemble(smallCouncil(), tier, pricing.Features{CommunityVoting: true, GrantMapping: true}, DefaultProjection())
		require.NoError(t, err)

		sum := row.AddOns[pricing.CommunityVoting] + row.AddOns[pricing.GrantMapping]
		assert.Equal(t, int64(math.Round(sum*(1-row.BundleDiscount))), report.Pricing.AddOnCost, tier)
		assert.Less(t, report.Pricing.AddOnCost, report.Pricing.AddOnListPrice, tier)
		assert.True(t, report.Pricing.BundleApplied)
		assert.Equal(t, StatusIncluded, report.AddOns[0].Status)
		assert.Equal(t, StatusIncluded, report.AddOns[1].Status)
	}
}

func TestAssemble_IsDeterministic(t *testing.T) {
	a := newTestAssembler()
	features := pricing.Features{GrantMapping: true}

	first, err := a.Assemble(smallCouncil(), pricing.TierMedium, features, DefaultProjection())
	require.NoError(t, err)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := a.Assemble(smallCouncil(), pricing.TierMedium, features, DefaultProjection())
		require.NoError(t, err)
		againJSON, err := json.Marshal(again)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.JSONEq(t, string(firstJSON), string(againJSON))
	}
}

func TestAssemble_NonRecoverable(t *testing.T) {
	report, err := newTestAssembler().Assemble(breakEvenCouncil(), pricing.TierSmall, pricing.Features{}, DefaultProjection())
	require.NoError(t, err)

	assert.Equal(t, int64(-2400), report.Summary.NetAnnualBenefit)
	assert.Equal(t, int64(-100), report.Summary.ROIPercentage)
	assert.False(t, report.Summary.Payback.Recoverable)
	assert.Nil(t, report.Summary.Payback.Months)
	assert.Equal(t, "not recoverable within the modeled benefits", report.Summary.Payback.Label)

	raw, err := json.Marshal(report.Summary.Payback)
	require.NoError(t, err)
	assert.JSONEq(t, `{"recoverable":false,"label":"not recoverable within the modeled benefits"}`, string(raw))
}

func TestAssemble_TinyNetBenefitStillReportsPayback(t *testing.T) {
	in := Inputs{
		ApplicationsPerYear:          1,
		CurrentHoursPerApplication:   1,
		ProjectedHoursPerApplication: 1,
		StaffHourlyRate:              10,
		ProjectedTechSavingsPerYear:  math.Nextafter(2400, 3000),
	}

	report, err := newTestAssembler().Assemble(in, pricing.TierSmall, pricing.Features{}, DefaultProjection())
	require.NoError(t, err)

	require.True(t, report.Summary.Payback.Recoverable)
	require.NotNil(t, report.Summary.Payback.Months)
	assert.Greater(t, report.Summary.Payback.Months.Float64(), 1e15)
	assert.Contains(t, report.Summary.Payback.Label, "months")
}

func TestAssemble_SelectedAddOnMissingFromTierIsNotOffered(t *testing.T) {
	catalog, err := pricing.NewCatalog(pricing.Row{
		Tier:            pricing.TierSmall,
		BasePriceAnnual: 1000,
		AddOns:          map[pricing.AddOn]float64{pricing.CommunityVoting: 100},
		BundleDiscount:  0.5,
	})
	require.NoError(t, err)

	report, err := NewAssembler(NewEngine(catalog)).Assemble(smallCouncil(), pricing.TierSmall,
		pricing.Features{CommunityVoting: true, GrantMapping: true}, DefaultProjection())
	require.NoError(t, err)

	assert.Equal(t, []AddOnStatus{
		{AddOn: pricing.CommunityVoting, Label: "Community Voting", Included: true, Status: StatusIncluded},
		{AddOn: pricing.GrantMapping, Label: "Grant Mapping", Included: false, Status: StatusNotOffered},
	}, report.AddOns)
	assert.Equal(t, int64(100), report.Pricing.AddOnCost)
}

func TestAssemble_ReturnsAllValidationErrors(t *testing.T) {
	in := smallCouncil()
	in.ApplicationsPerYear = 0
	in.StaffHourlyRate = 2
	in.CurrentAdminCostPerYear = -1

	report, err := newTestAssembler().Assemble(in, pricing.TierSmall, pricing.Features{}, Projection{HorizonYears: 0, DiscountRate: 0.08})

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, []string{"applicationsPerYear", "staffHourlyRate", "currentAdminCostPerYear", "horizonYears"}, verrs.Fields())
	assert.Equal(t, Report{}, report)
}

func TestAssemble_UnknownTier(t *testing.T) {
	_, err := newTestAssembler().Assemble(smallCouncil(), pricing.Tier("mega"), pricing.Features{}, DefaultProjection())

	var unknown *pricing.UnknownTierError
	assert.ErrorAs(t, err, &unknown)
}

func TestAssemble_OutOfRange(t *testing.T) {
	in := smallCouncil()
	in.ApplicationsPerYear = math.MaxInt32
	in.CurrentHoursPerApplication = 1e300

	_, err := newTestAssembler().Assemble(in, pricing.TierLarge, pricing.Features{}, DefaultProjection())

	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAssemble_RoundingShape(t *testing.T) {
	in := Inputs{
		ApplicationsPerYear:          137,
		CurrentHoursPerApplication:   3.333,
		ProjectedHoursPerApplication: 1.111,
		StaffHourlyRate:              41.17,
		CurrentTechCostPerYear:       1234.56,
		CurrentAdminCostPerYear:      789.01,
		ProjectedTechSavingsPerYear:  333.33,
		ProjectedAdminSavingsPerYear: 99.99,
	}

	report, err := newTestAssembler().Assemble(in, pricing.TierSmall, pricing.Features{CommunityVoting: true}, Projection{HorizonYears: 7, DiscountRate: 0.065})
	require.NoError(t, err)

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded struct {
		Summary struct {
			ROIPercentage json.Number `json:"roiPercentage"`
			AnnualCost    json.Number `json:"annualCost"`
			Payback       struct {
				Months json.Number `json:"months"`
			} `json:"payback"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded.Summary.ROIPercentage.String(), ".")
	assert.NotContains(t, decoded.Summary.AnnualCost.String(), ".")
	assert.Regexp(t, `^\d+\.\d$`, decoded.Summary.Payback.Months.String())
}

func TestAssemble_ReportRoundTripsThroughJSON(t *testing.T) {
	report, err := newTestAssembler().Assemble(smallCouncil(), pricing.TierSmall, pricing.Features{}, DefaultProjection())
	require.NoError(t, err)

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, report.Summary.NetAnnualBenefit, decoded.Summary.NetAnnualBenefit)
	require.NotNil(t, decoded.Summary.Payback.Months)
	assert.Equal(t, "1.7", decoded.Summary.Payback.Months.String())
}

func TestTenths_AlwaysOneDigit(t *testing.T) {
	assert.Equal(t, "2.0", newTenths(2).String())
	assert.Equal(t, "1.7", newTenths(1.6842105263).String())
	assert.Equal(t, "0.1", newTenths(0.05).String())
}

func TestIncludedFeatures_ReturnsCopy(t *testing.T) {
	list := IncludedFeatures()
	list[0] = "changed"
	assert.NotEqual(t, "changed", IncludedFeatures()[0])
}
