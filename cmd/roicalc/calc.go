package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Simplici0/councilroi/internal/config"
	"github.com/Simplici0/councilroi/internal/export"
	"github.com/Simplici0/councilroi/internal/pricing"
	"github.com/Simplici0/councilroi/internal/roi"
)

const (
	textFormat = "text"
	jsonFormat = "json"
)

var legalFormats = []string{textFormat, jsonFormat, string(export.FormatCSV), string(export.FormatXLSX)}

// CalcOptions holds the flags of one calculation.
type CalcOptions struct {
	Inputs     roi.Inputs
	Tier       string
	Features   pricing.Features
	Projection roi.Projection
	Format     string
	Output     string

	catalog *pricing.Catalog
}

// DefaultCalcOptions returns options with the default projection and output format.
func DefaultCalcOptions() *CalcOptions {
	return &CalcOptions{
		Inputs: roi.Inputs{
			ApplicationsPerYear:          100,
			CurrentHoursPerApplication:   4,
			ProjectedHoursPerApplication: 1,
			StaffHourlyRate:              45,
		},
		Projection: roi.DefaultProjection(),
		Format:     textFormat,
	}
}

// NewRoicalcCommand builds the root command. Reports are written to out unless
// --output names a file.
func NewRoicalcCommand(out io.Writer) *cobra.Command {
	o := DefaultCalcOptions()
	cmd := &cobra.Command{
		Use:   "roicalc [flags]",
		Short: "roicalc models the return a council gets from the grants platform.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(out)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

// Bind registers the calculator flags on fs.
func (o *CalcOptions) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&o.Inputs.ApplicationsPerYear, "applications", o.Inputs.ApplicationsPerYear, "Grant applications processed per year.")
	fs.Float64Var(&o.Inputs.CurrentHoursPerApplication, "current-hours", o.Inputs.CurrentHoursPerApplication, "Staff hours per application today.")
	fs.Float64Var(&o.Inputs.ProjectedHoursPerApplication, "projected-hours", o.Inputs.ProjectedHoursPerApplication, "Staff hours per application on the platform.")
	fs.Float64Var(&o.Inputs.StaffHourlyRate, "hourly-rate", o.Inputs.StaffHourlyRate, "Loaded staff cost per hour.")
	fs.Float64Var(&o.Inputs.CurrentTechCostPerYear, "tech-cost", 0, "Current annual technology spend on grants.")
	fs.Float64Var(&o.Inputs.CurrentAdminCostPerYear, "admin-cost", 0, "Current annual administration spend on grants.")
	fs.Float64Var(&o.Inputs.ProjectedTechSavingsPerYear, "tech-savings", 0, "Expected annual technology savings.")
	fs.Float64Var(&o.Inputs.ProjectedAdminSavingsPerYear, "admin-savings", 0, "Expected annual administration savings.")
	fs.StringVar(&o.Tier, "tier", "", "Council size tier (small, medium, large). Defaults to the recommended tier.")
	fs.BoolVar(&o.Features.CommunityVoting, "community-voting", false, "Include the Community Voting add-on.")
	fs.BoolVar(&o.Features.GrantMapping, "grant-mapping", false, "Include the Grant Mapping add-on.")
	fs.IntVar(&o.Projection.HorizonYears, "horizon-years", o.Projection.HorizonYears, "Years in the NPV projection.")
	fs.Float64Var(&o.Projection.DiscountRate, "discount-rate", o.Projection.DiscountRate, "Annual discount rate for NPV, as a fraction.")
	fs.StringVarP(&o.Format, "format", "f", o.Format, fmt.Sprintf("Report format. One of: (%s).", strings.Join(legalFormats, ", ")))
	fs.StringVarP(&o.Output, "output", "o", "", "Write the report to this file instead of stdout.")
}

// Complete fills defaults from configuration for anything not set on the command line.
func (o *CalcOptions) Complete(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.catalog, err = cfg.Catalog(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("horizon-years") {
		o.Projection.HorizonYears = cfg.DefaultHorizon
	}
	if !flags.Changed("discount-rate") {
		o.Projection.DiscountRate = cfg.DefaultDiscount
	}
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	return nil
}

// Validate checks the flags that can be rejected before running the engine.
func (o *CalcOptions) Validate() error {
	for _, f := range legalFormats {
		if o.Format == f {
			if f == string(export.FormatXLSX) && o.Output == "" {
				return errors.New("--format xlsx needs --output")
			}
			return nil
		}
	}
	return fmt.Errorf("output format must be one of %s", strings.Join(legalFormats, ", "))
}

// Run assembles the report and writes it to out in the selected format.
func (o *CalcOptions) Run(out io.Writer) error {
	tier := roi.RecommendTier(o.Inputs.ApplicationsPerYear)
	if strings.TrimSpace(o.Tier) != "" {
		parsed, err := pricing.ParseTier(o.Tier)
		if err != nil {
			return err
		}
		tier = parsed
	}

	report, err := roi.NewAssembler(roi.NewEngine(o.catalog)).Assemble(o.Inputs, tier, o.Features, o.Projection)
	if err != nil {
		return err
	}

	if o.Output != "" {
		f, err := os.Create(o.Output)
		if err != nil {
			return fmt.Errorf("create %s: %w", o.Output, err)
		}
		defer f.Close()
		out = f
	}

	switch o.Format {
	case jsonFormat:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case string(export.FormatCSV):
		return export.WriteCSV(out, report)
	case string(export.FormatXLSX):
		return export.WriteXLSX(out, report)
	}
	return printText(out, report)
}

func printText(out io.Writer, r roi.Report) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "Tier\t%s (recommended: %s)\n", r.Tier, r.RecommendedTier)
	fmt.Fprintf(w, "Current annual costs\t%d\n", r.Summary.TotalCurrentCosts)
	fmt.Fprintf(w, "Annual benefits\t%d\n", r.Summary.TotalBenefits)
	fmt.Fprintf(w, "Subscription\t%d\n", r.Summary.AnnualCost)
	fmt.Fprintf(w, "Net annual benefit\t%d\n", r.Summary.NetAnnualBenefit)
	fmt.Fprintf(w, "ROI\t%d%%\n", r.Summary.ROIPercentage)
	fmt.Fprintf(w, "Payback\t%s\n", r.Summary.Payback.Label)
	fmt.Fprintf(w, "Total savings\t%d\n", r.Summary.TotalSavings)
	fmt.Fprintf(w, "NPV (%d years at %g)\t%d\n", r.NPV.HorizonYears, r.NPV.DiscountRate, r.NPV.NPV)
	for _, a := range r.AddOns {
		fmt.Fprintf(w, "%s\t%s\n", a.Label, a.Status)
	}

	return w.Flush()
}
