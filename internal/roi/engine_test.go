package roi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/councilroi/internal/pricing"
)

func TestEvaluate_SmallCouncilNoAddOns(t *testing.T) {
	engine := NewEngine(pricing.DefaultCatalog())

	res, err := engine.Evaluate(smallCouncil(), pricing.TierSmall, pricing.Features{})
	require.NoError(t, err)

	assert.InDelta(t, 2400, res.Quote.TotalAnnualCost, 1e-9)
	assert.InDelta(t, 17100, res.NetAnnualBenefit, 1e-9)
	assert.InDelta(t, 712.5, res.ROIPercentage, 1e-9)
	assert.InDelta(t, 19600, res.TotalSavings, 1e-9)
	require.True(t, res.Payback.Recoverable)
	assert.InDelta(t, 2400/(17100.0/12), res.Payback.Months, 1e-9)
}

func TestEvaluate_BreakEvenIsNonRecoverable(t *testing.T) {
	engine := NewEngine(pricing.DefaultCatalog())

	res, err := engine.Evaluate(breakEvenCouncil(), pricing.TierSmall, pricing.Features{})
	require.NoError(t, err)

	assert.InDelta(t, -res.Quote.TotalAnnualCost, res.NetAnnualBenefit, 1e-9)
	assert.Equal(t, NonRecoverableInvestment, res.Payback)
	assert.False(t, math.IsInf(res.Payback.Months, 0))
	assert.Equal(t, "not recoverable within the modeled benefits", res.Payback.String())
}

func TestEvaluate_ZeroNetBenefitIsNonRecoverable(t *testing.T) {
	engine := NewEngine(pricing.DefaultCatalog())
	in := breakEvenCouncil()
	in.ProjectedTechSavingsPerYear = 2400

	res, err := engine.Evaluate(in, pricing.TierSmall, pricing.Features{})
	require.NoError(t, err)

	assert.Zero(t, res.NetAnnualBenefit)
	assert.Zero(t, res.ROIPercentage)
	assert.Equal(t, NonRecoverableInvestment, res.Payback)
}

func TestEvaluate_AddOnsRaiseAnnualCost(t *testing.T) {
	engine := NewEngine(pricing.DefaultCatalog())

	plain, err := engine.Evaluate(smallCouncil(), pricing.TierSmall, pricing.Features{})
	require.NoError(t, err)
	bundled, err := engine.Evaluate(smallCouncil(), pricing.TierSmall, pricing.Features{CommunityVoting: true, GrantMapping: true})
	require.NoError(t, err)

	assert.InDelta(t, 2400+960, bundled.Quote.TotalAnnualCost, 1e-9)
	assert.Less(t, bundled.NetAnnualBenefit, plain.NetAnnualBenefit)
	assert.Greater(t, bundled.Payback.Months, plain.Payback.Months)
}

func TestEvaluate_UnknownTier(t *testing.T) {
	engine := NewEngine(pricing.DefaultCatalog())

	_, err := engine.Evaluate(smallCouncil(), pricing.Tier("platinum"), pricing.Features{})

	var unknown *pricing.UnknownTierError
	assert.ErrorAs(t, err, &unknown)
}

func TestEvaluate_UsesInjectedCatalog(t *testing.T) {
	catalog, err := pricing.NewCatalog(pricing.Row{Tier: pricing.TierSmall, BasePriceAnnual: 19500})
	require.NoError(t, err)

	res, err := NewEngine(catalog).Evaluate(smallCouncil(), pricing.TierSmall, pricing.Features{})
	require.NoError(t, err)

	assert.Zero(t, res.NetAnnualBenefit)
	assert.Equal(t, NonRecoverableInvestment, res.Payback)
}
