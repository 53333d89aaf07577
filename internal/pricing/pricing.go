package pricing

import (
	"fmt"
	"strings"
)

// Tier is the council size band a subscription is priced at.
type Tier string

const (
	TierSmall  Tier = "small"
	TierMedium Tier = "medium"
	TierLarge  Tier = "large"
)

// Tiers lists every priced tier from smallest to largest.
var Tiers = []Tier{TierSmall, TierMedium, TierLarge}

// Valid reports whether t is one of the enumerated tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierSmall, TierMedium, TierLarge:
		return true
	}
	return false
}

// ParseTier maps user text (any case, surrounding spaces ignored) to a Tier.
func ParseTier(raw string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", &UnknownTierError{Tier: raw}
	}
	return t, nil
}

// UnknownTierError is returned when a tier is outside the enumerated set.
type UnknownTierError struct {
	Tier string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("unknown council size tier %q", e.Tier)
}

// AddOn names an optional paid module.
type AddOn string

const (
	CommunityVoting AddOn = "communityVoting"
	GrantMapping    AddOn = "grantMapping"
)

// AllAddOns lists the optional modules in presentation order.
var AllAddOns = []AddOn{CommunityVoting, GrantMapping}

// Label is the display name of the add-on.
func (a AddOn) Label() string {
	switch a {
	case CommunityVoting:
		return "Community Voting"
	case GrantMapping:
		return "Grant Mapping"
	}
	return string(a)
}

// Features is the caller's add-on selection.
type Features struct {
	CommunityVoting bool `json:"communityVoting"`
	GrantMapping    bool `json:"grantMapping"`
}

// Has reports whether the add-on is selected.
func (f Features) Has(a AddOn) bool {
	switch a {
	case CommunityVoting:
		return f.CommunityVoting
	case GrantMapping:
		return f.GrantMapping
	}
	return false
}

// Selected returns the selected add-ons in AllAddOns order.
func (f Features) Selected() []AddOn {
	out := make([]AddOn, 0, len(AllAddOns))
	for _, a := range AllAddOns {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Row is the annual price list for one tier.
type Row struct {
	Tier            Tier              `json:"tier"`
	BasePriceAnnual float64           `json:"basePriceAnnual"`
	AddOns          map[AddOn]float64 `json:"addOns"`
	BundleDiscount  float64           `json:"bundleDiscountFraction"`
}

func (r Row) clone() Row {
	addOns := make(map[AddOn]float64, len(r.AddOns))
	for k, v := range r.AddOns {
		addOns[k] = v
	}
	r.AddOns = addOns
	return r
}

// Quote is the annual subscription cost for a tier and feature selection.
// Values keep full precision; rounding happens when a report is presented.
type Quote struct {
	Tier            Tier
	BasePrice       float64
	AddOnListPrice  float64
	AddOnCost       float64
	BundleApplied   bool
	TotalAnnualCost float64

	// AddOns lists the selected add-ons the row priced, in AllAddOns order.
	AddOns []AddOn
}

// Includes reports whether a was priced into the quote.
func (q Quote) Includes(a AddOn) bool {
	for _, quoted := range q.AddOns {
		if quoted == a {
			return true
		}
	}
	return false
}

// Catalog is an immutable tier price list.
type Catalog struct {
	rows map[Tier]Row
}

// NewCatalog validates rows and builds a Catalog. Every tier must have a positive
// base price, since ROI and payback divide by the annual cost.
func NewCatalog(rows ...Row) (*Catalog, error) {
	c := &Catalog{rows: make(map[Tier]Row, len(rows))}
	for _, row := range rows {
		if !row.Tier.Valid() {
			return nil, &UnknownTierError{Tier: string(row.Tier)}
		}
		if _, dup := c.rows[row.Tier]; dup {
			return nil, fmt.Errorf("tier %s listed more than once", row.Tier)
		}
		if !(row.BasePriceAnnual > 0) {
			return nil, fmt.Errorf("tier %s: base price must be greater than 0", row.Tier)
		}
		for a, price := range row.AddOns {
			if !(price >= 0) {
				return nil, fmt.Errorf("tier %s: add-on %s price must be 0 or more", row.Tier, a)
			}
		}
		if !(row.BundleDiscount >= 0 && row.BundleDiscount < 1) {
			return nil, fmt.Errorf("tier %s: bundle discount must be in [0, 1)", row.Tier)
		}
		c.rows[row.Tier] = row.clone()
	}
	return c, nil
}

// DefaultCatalog returns the published price list.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultRows()...)
	if err != nil {
		panic(fmt.Sprintf("pricing: default catalog: %v", err))
	}
	return c
}

// DefaultRows returns a fresh copy of the published price list.
func DefaultRows() []Row {
	return []Row{
		{
			Tier:            TierSmall,
			BasePriceAnnual: 2400,
			AddOns:          map[AddOn]float64{CommunityVoting: 600, GrantMapping: 600},
			BundleDiscount:  0.20,
		},
		{
			Tier:            TierMedium,
			BasePriceAnnual: 4800,
			AddOns:          map[AddOn]float64{CommunityVoting: 1200, GrantMapping: 1200},
			BundleDiscount:  0.20,
		},
		{
			Tier:            TierLarge,
			BasePriceAnnual: 9600,
			AddOns:          map[AddOn]float64{CommunityVoting: 2400, GrantMapping: 2400},
			BundleDiscount:  0.20,
		},
	}
}

// Row returns a copy of the row for tier.
func (c *Catalog) Row(tier Tier) (Row, error) {
	row, ok := c.rows[tier]
	if !ok {
		return Row{}, &UnknownTierError{Tier: string(tier)}
	}
	return row.clone(), nil
}

// Rows returns copies of every row in Tiers order.
func (c *Catalog) Rows() []Row {
	out := make([]Row, 0, len(c.rows))
	for _, t := range Tiers {
		if row, ok := c.rows[t]; ok {
			out = append(out, row.clone())
		}
	}
	return out
}

// Quote prices a tier with the selected add-ons. When every add-on the row offers
// is selected (at least two), the bundle discount applies to their combined price.
// Selected add-ons the row does not price are left out of Quote.AddOns.
func (c *Catalog) Quote(tier Tier, features Features) (Quote, error) {
	row, ok := c.rows[tier]
	if !ok {
		return Quote{}, &UnknownTierError{Tier: string(tier)}
	}

	listPrice := 0.0
	quoted := make([]AddOn, 0, len(AllAddOns))
	for _, a := range features.Selected() {
		price, offered := row.AddOns[a]
		if !offered {
			continue
		}
		listPrice += price
		quoted = append(quoted, a)
	}
	selected := len(quoted)

	addOnCost := listPrice
	bundled := selected >= 2 && selected == len(row.AddOns)
	if bundled {
		addOnCost = listPrice * (1 - row.BundleDiscount)
	}

	return Quote{
		Tier:            tier,
		BasePrice:       row.BasePriceAnnual,
		AddOnListPrice:  listPrice,
		AddOnCost:       addOnCost,
		BundleApplied:   bundled,
		TotalAnnualCost: row.BasePriceAnnual + addOnCost,
		AddOns:          quoted,
	}, nil
}
