package roi

import "github.com/Simplici0/councilroi/internal/pricing"

// smallCouncil is the reference scenario from the sales deck.
func smallCouncil() Inputs {
	return Inputs{
		ApplicationsPerYear:          100,
		CurrentHoursPerApplication:   4.25,
		ProjectedHoursPerApplication: 0.5,
		StaffHourlyRate:              40,
		CurrentTechCostPerYear:       3000,
		CurrentAdminCostPerYear:      2000,
		ProjectedTechSavingsPerYear:  3000,
		ProjectedAdminSavingsPerYear: 1500,
	}
}

// breakEvenCouncil gains nothing from the platform.
func breakEvenCouncil() Inputs {
	in := smallCouncil()
	in.ProjectedHoursPerApplication = in.CurrentHoursPerApplication
	in.ProjectedTechSavingsPerYear = 0
	in.ProjectedAdminSavingsPerYear = 0
	return in
}

func newTestAssembler() *Assembler {
	return NewAssembler(NewEngine(pricing.DefaultCatalog()))
}
