package roi

import "github.com/Simplici0/councilroi/internal/pricing"

const (
	smallTierMaxApplications  = 150
	mediumTierMaxApplications = 400
)

// RecommendTier suggests a pricing tier from annual application volume.
// A volume on a boundary belongs to the lower tier.
func RecommendTier(applicationsPerYear int) pricing.Tier {
	switch {
	case applicationsPerYear <= smallTierMaxApplications:
		return pricing.TierSmall
	case applicationsPerYear <= mediumTierMaxApplications:
		return pricing.TierMedium
	default:
		return pricing.TierLarge
	}
}
