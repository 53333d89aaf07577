// Package roi models the cost, benefit and return of a council adopting the grants
// platform. Every function here is pure: the same inputs always give the same result.
package roi

// Inputs is the council's description of its current and projected grant process.
type Inputs struct {
	ApplicationsPerYear          int     `json:"applicationsPerYear" validate:"gte=1"`
	CurrentHoursPerApplication   float64 `json:"currentHoursPerApplication" validate:"finite,gte=0.1"`
	ProjectedHoursPerApplication float64 `json:"projectedHoursPerApplication" validate:"finite,gte=0"`
	StaffHourlyRate              float64 `json:"staffHourlyRate" validate:"finite,gte=10"`
	CurrentTechCostPerYear       float64 `json:"currentTechCostPerYear" validate:"finite,gte=0"`
	CurrentAdminCostPerYear      float64 `json:"currentAdminCostPerYear" validate:"finite,gte=0"`
	ProjectedTechSavingsPerYear  float64 `json:"projectedTechSavingsPerYear" validate:"finite,gte=0"`
	ProjectedAdminSavingsPerYear float64 `json:"projectedAdminSavingsPerYear" validate:"finite,gte=0"`
}

// Projection controls the multi-year discounted cash flow.
type Projection struct {
	HorizonYears int     `json:"horizonYears" validate:"gte=1,lte=100"`
	DiscountRate float64 `json:"discountRate" validate:"finite,gte=0,lt=1"`
}

const (
	MaxHorizonYears     = 100
	DefaultHorizonYears = 5
	DefaultDiscountRate = 0.08
)

// DefaultProjection is five years at an 8% discount rate.
func DefaultProjection() Projection {
	return Projection{HorizonYears: DefaultHorizonYears, DiscountRate: DefaultDiscountRate}
}
