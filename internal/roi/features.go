package roi

import "github.com/Simplici0/councilroi/internal/pricing"

var includedFeatures = []string{
	"Online grant application portal",
	"Eligibility screening and assessment workflows",
	"Panel scoring and moderation",
	"Automated applicant notifications",
	"Acquittal and outcome reporting",
	"QR code links for printed campaigns",
	"Onboarding and staff training",
}

// IncludedFeatures returns the capabilities every subscription includes.
func IncludedFeatures() []string {
	out := make([]string, len(includedFeatures))
	copy(out, includedFeatures)
	return out
}

const (
	StatusIncluded    = "Included"
	StatusNotSelected = "Not Selected"
	// StatusNotOffered marks an add-on that was selected but has no price in the tier.
	StatusNotOffered  = "Not Offered"
)

// AddOnStatus shows whether an optional module is part of the quote.
type AddOnStatus struct {
	AddOn    pricing.AddOn `json:"addOn"`
	Label    string        `json:"label"`
	Included bool          `json:"included"`
	Status   string        `json:"status"`
}

// addOnStatuses reports each add-on as quoted, so a selection the tier does not
// price is never shown as included.
func addOnStatuses(f pricing.Features, q pricing.Quote) []AddOnStatus {
	out := make([]AddOnStatus, 0, len(pricing.AllAddOns))
	for _, a := range pricing.AllAddOns {
		included := q.Includes(a)
		status := StatusNotSelected
		switch {
		case included:
			status = StatusIncluded
		case f.Has(a):
			status = StatusNotOffered
		}
		out = append(out, AddOnStatus{AddOn: a, Label: a.Label(), Included: included, Status: status})
	}
	return out
}
