package roi

// BenefitBreakdown is the projected annual saving from adopting the platform.
type BenefitBreakdown struct {
	// HoursSavedPerApplication is negative when the new process is slower.
	HoursSavedPerApplication float64
	TotalHoursSaved          float64
	StaffTimeSavingsValue    float64
	TechSavings              float64
	AdminSavings             float64
	TotalBenefits            float64
}

// ProjectedBenefits computes the projected annual saving. Hours saved are not
// clamped at zero.
func ProjectedBenefits(in Inputs) BenefitBreakdown {
	perApp := in.CurrentHoursPerApplication - in.ProjectedHoursPerApplication
	totalHours := float64(in.ApplicationsPerYear) * perApp
	staffValue := totalHours * in.StaffHourlyRate

	return BenefitBreakdown{
		HoursSavedPerApplication: perApp,
		TotalHoursSaved:          totalHours,
		StaffTimeSavingsValue:    staffValue,
		TechSavings:              in.ProjectedTechSavingsPerYear,
		AdminSavings:             in.ProjectedAdminSavingsPerYear,
		TotalBenefits:            staffValue + in.ProjectedTechSavingsPerYear + in.ProjectedAdminSavingsPerYear,
	}
}
