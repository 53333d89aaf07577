// Package seed loads demo scenarios into a development database.
package seed

import (
	"context"
	"fmt"

	"github.com/Simplici0/councilroi/internal/pricing"
	"github.com/Simplici0/councilroi/internal/roi"
	"github.com/Simplici0/councilroi/internal/store"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Skipped int
}

type demo struct {
	title    string
	notes    string
	inputs   roi.Inputs
	features pricing.Features
}

var demos = []demo{
	{
		title: "Demo: regional shire",
		notes: "Small council running a single community grants round on spreadsheets.",
		inputs: roi.Inputs{
			ApplicationsPerYear:          100,
			CurrentHoursPerApplication:   4.25,
			ProjectedHoursPerApplication: 0.5,
			StaffHourlyRate:              40,
			CurrentTechCostPerYear:       3000,
			CurrentAdminCostPerYear:      2000,
			ProjectedTechSavingsPerYear:  3000,
			ProjectedAdminSavingsPerYear: 1500,
		},
	},
	{
		title: "Demo: metropolitan council",
		notes: "Several funding streams with community voting on the arts program.",
		inputs: roi.Inputs{
			ApplicationsPerYear:          320,
			CurrentHoursPerApplication:   6,
			ProjectedHoursPerApplication: 1.5,
			StaffHourlyRate:              55,
			CurrentTechCostPerYear:       12000,
			CurrentAdminCostPerYear:      8000,
			ProjectedTechSavingsPerYear:  9000,
			ProjectedAdminSavingsPerYear: 4000,
		},
		features: pricing.Features{CommunityVoting: true},
	},
	{
		title: "Demo: city with full bundle",
		notes: "High volume program adopting both optional modules.",
		inputs: roi.Inputs{
			ApplicationsPerYear:          900,
			CurrentHoursPerApplication:   5,
			ProjectedHoursPerApplication: 1,
			StaffHourlyRate:              60,
			CurrentTechCostPerYear:       25000,
			CurrentAdminCostPerYear:      15000,
			ProjectedTechSavingsPerYear:  20000,
			ProjectedAdminSavingsPerYear: 8000,
		},
		features: pricing.Features{CommunityVoting: true, GrantMapping: true},
	},
}

// Run inserts any demo scenario whose title is not yet stored. Running it again
// inserts nothing.
func Run(ctx context.Context, s *store.Store, a *roi.Assembler, p roi.Projection) (Stats, error) {
	stats := Stats{}

	for _, d := range demos {
		exists, err := s.TitleExists(ctx, d.title)
		if err != nil {
			return stats, err
		}
		if exists {
			stats.Skipped++
			continue
		}

		tier := roi.RecommendTier(d.inputs.ApplicationsPerYear)
		report, err := a.Assemble(d.inputs, tier, d.features, p)
		if err != nil {
			return stats, fmt.Errorf("assemble %q: %w", d.title, err)
		}
		if _, err := s.Save(ctx, d.title, d.notes, report); err != nil {
			return stats, fmt.Errorf("save %q: %w", d.title, err)
		}
		stats.Inserts++
	}

	return stats, nil
}
