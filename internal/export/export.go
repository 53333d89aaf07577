// Package export renders an ROI report as CSV or an Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/councilroi/internal/roi"
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", raw)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

const (
	summarySheet  = "Summary"
	featuresSheet = "Features"
)

var header = []string{"Section", "Metric", "Value"}

type line struct {
	section string
	metric  string
	value   any
}

func lines(r roi.Report) []line {
	payback := r.Summary.Payback.Label
	if r.Summary.Payback.Months != nil {
		payback = r.Summary.Payback.Months.String()
	}

	out := []line{
		{"Selection", "Tier", string(r.Tier)},
		{"Selection", "Recommended tier", string(r.RecommendedTier)},
		{"Inputs", "Applications per year", r.Inputs.ApplicationsPerYear},
		{"Inputs", "Current hours per application", r.Inputs.CurrentHoursPerApplication},
		{"Inputs", "Projected hours per application", r.Inputs.ProjectedHoursPerApplication},
		{"Inputs", "Staff hourly rate", r.Inputs.StaffHourlyRate},
		{"Inputs", "Current tech cost per year", r.Inputs.CurrentTechCostPerYear},
		{"Inputs", "Current admin cost per year", r.Inputs.CurrentAdminCostPerYear},
		{"Inputs", "Projected tech savings per year", r.Inputs.ProjectedTechSavingsPerYear},
		{"Inputs", "Projected admin savings per year", r.Inputs.ProjectedAdminSavingsPerYear},
		{"Summary", "Total current costs", r.Summary.TotalCurrentCosts},
		{"Summary", "Total benefits", r.Summary.TotalBenefits},
		{"Summary", "Annual cost", r.Summary.AnnualCost},
		{"Summary", "Net annual benefit", r.Summary.NetAnnualBenefit},
		{"Summary", "ROI %", r.Summary.ROIPercentage},
		{"Summary", "Total savings", r.Summary.TotalSavings},
		{"Summary", "Payback months", payback},
		{"Costs", "Staff cost", r.Costs.StaffCost},
		{"Costs", "Tech cost", r.Costs.TechCost},
		{"Costs", "Admin cost", r.Costs.AdminCost},
		{"Benefits", "Hours saved per application", r.Benefits.HoursSavedPerApplication},
		{"Benefits", "Total hours saved", r.Benefits.TotalHoursSaved},
		{"Benefits", "Staff time savings", r.Benefits.StaffTimeSavingsValue},
		{"Benefits", "Tech savings", r.Benefits.TechSavings},
		{"Benefits", "Admin savings", r.Benefits.AdminSavings},
		{"Pricing", "Base price", r.Pricing.BasePrice},
		{"Pricing", "Add-on list price", r.Pricing.AddOnListPrice},
		{"Pricing", "Add-on cost", r.Pricing.AddOnCost},
		{"Pricing", "Bundle applied", r.Pricing.BundleApplied},
		{"Pricing", "Total annual cost", r.Pricing.TotalAnnualCost},
		{"NPV", "Horizon years", r.NPV.HorizonYears},
		{"NPV", "Discount rate", r.NPV.DiscountRate},
		{"NPV", "Net present value", r.NPV.NPV},
		{"NPV", "Total benefit over horizon", r.NPV.TotalBenefitOverHorizon},
		{"NPV", "Average annual return", r.NPV.AverageAnnualReturn},
	}
	for _, a := range r.AddOns {
		out = append(out, line{"Add-ons", a.Label, a.Status})
	}
	for _, f := range r.IncludedFeatures {
		out = append(out, line{"Included", f, "Included"})
	}
	return out
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}

// Write renders report in format to w.
func Write(w io.Writer, format Format, report roi.Report) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, report)
	case FormatXLSX:
		return WriteXLSX(w, report)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteCSV writes one Section,Metric,Value row per figure.
func WriteCSV(w io.Writer, report roi.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range lines(report) {
		if err := cw.Write([]string{l.section, l.metric, text(l.value)}); err != nil {
			return fmt.Errorf("write csv row %s: %w", l.metric, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes a workbook with a Summary sheet of figures and a Features sheet.
// Numeric figures are stored as numbers.
func WriteXLSX(w io.Writer, report roi.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRow(f, summarySheet, 1, header); err != nil {
		return err
	}

	row := 2
	for _, l := range lines(report) {
		if l.section == "Add-ons" || l.section == "Included" {
			continue
		}
		value := l.value
		if b, ok := value.(bool); ok {
			value = text(b)
		}
		if err := writeRow(f, summarySheet, row, []any{l.section, l.metric, value}); err != nil {
			return err
		}
		row++
	}

	if _, err := f.NewSheet(featuresSheet); err != nil {
		return fmt.Errorf("create %s sheet: %w", featuresSheet, err)
	}
	if err := writeRow(f, featuresSheet, 1, []string{"Feature", "Status"}); err != nil {
		return err
	}
	row = 2
	for _, feature := range report.IncludedFeatures {
		if err := writeRow(f, featuresSheet, row, []string{feature, "Included"}); err != nil {
			return err
		}
		row++
	}
	for _, a := range report.AddOns {
		if err := writeRow(f, featuresSheet, row, []string{a.Label, a.Status}); err != nil {
			return err
		}
		row++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
