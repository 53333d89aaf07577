package roi

// CostBreakdown is what the council spends today on its grant process.
type CostBreakdown struct {
	StaffCost float64
	TechCost  float64
	AdminCost float64
	Total     float64
}

// CurrentCosts computes the status-quo annual cost.
func CurrentCosts(in Inputs) CostBreakdown {
	staff := float64(in.ApplicationsPerYear) * in.CurrentHoursPerApplication * in.StaffHourlyRate
	return CostBreakdown{
		StaffCost: staff,
		TechCost:  in.CurrentTechCostPerYear,
		AdminCost: in.CurrentAdminCostPerYear,
		Total:     staff + in.CurrentTechCostPerYear + in.CurrentAdminCostPerYear,
	}
}
