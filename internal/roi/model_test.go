package roi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/councilroi/internal/pricing"
)

func TestCurrentCosts_SmallCouncil(t *testing.T) {
	costs := CurrentCosts(smallCouncil())

	assert.InDelta(t, 17000, costs.StaffCost, 1e-9)
	assert.InDelta(t, 3000, costs.TechCost, 1e-9)
	assert.InDelta(t, 2000, costs.AdminCost, 1e-9)
	assert.InDelta(t, 22000, costs.Total, 1e-9)
}

func TestProjectedBenefits_SmallCouncil(t *testing.T) {
	b := ProjectedBenefits(smallCouncil())

	assert.InDelta(t, 3.75, b.HoursSavedPerApplication, 1e-9)
	assert.InDelta(t, 375, b.TotalHoursSaved, 1e-9)
	assert.InDelta(t, 15000, b.StaffTimeSavingsValue, 1e-9)
	assert.InDelta(t, 19500, b.TotalBenefits, 1e-9)
}

func TestProjectedBenefits_SlowerProcessIsNotClamped(t *testing.T) {
	in := smallCouncil()
	in.ProjectedHoursPerApplication = 5.25

	b := ProjectedBenefits(in)

	assert.InDelta(t, -1, b.HoursSavedPerApplication, 1e-9)
	assert.InDelta(t, -100, b.TotalHoursSaved, 1e-9)
	assert.InDelta(t, -4000, b.StaffTimeSavingsValue, 1e-9)
	assert.InDelta(t, 500, b.TotalBenefits, 1e-9)
}

func TestCostsAndBenefits_MonotonicInVolume(t *testing.T) {
	in := smallCouncil()
	prevCost := CurrentCosts(in).Total
	prevBenefit := ProjectedBenefits(in).TotalBenefits

	for apps := in.ApplicationsPerYear + 1; apps <= 1000; apps += 37 {
		in.ApplicationsPerYear = apps
		cost := CurrentCosts(in).Total
		benefit := ProjectedBenefits(in).TotalBenefits

		assert.GreaterOrEqual(t, cost, prevCost, "apps=%d", apps)
		assert.GreaterOrEqual(t, benefit, prevBenefit, "apps=%d", apps)
		prevCost, prevBenefit = cost, benefit
	}
}

func TestRecommendTier_Boundaries(t *testing.T) {
	cases := map[int]pricing.Tier{
		1:    pricing.TierSmall,
		150:  pricing.TierSmall,
		151:  pricing.TierMedium,
		400:  pricing.TierMedium,
		401:  pricing.TierLarge,
		5000: pricing.TierLarge,
	}
	for apps, want := range cases {
		assert.Equal(t, want, RecommendTier(apps), "apps=%d", apps)
	}
}
