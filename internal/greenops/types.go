// Package greenops estimates carbon emissions of purchased animal products.
//
// Emissions are mass multiplied by a per-category factor expressed in
// kg CO2e per kg of product. Totals can be converted into relatable
// equivalencies (kilometres driven, smartphones charged) using
// EPA-published conversion factors.
package greenops

import (
	"fmt"

	"github.com/greenledger/meatprint/internal/category"
)

// Factors maps each category to its emissions factor in kg CO2e per kg.
type Factors map[category.Category]float64

// Clone returns an independent copy of f.
func (f Factors) Clone() Factors {
	out := make(Factors, len(f))
	for c, v := range f {
		out[c] = v
	}
	return out
}

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyKmDriven converts CO2e to kilometres driven in an average passenger vehicle.
	EquivalencyKmDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyKmDriven:
		return "KmDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalency results for display.
type EquivalencyOutput struct {
	// InputKg is the kg CO2e the equivalencies were computed from.
	InputKg float64 `json:"input_kg"`

	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~566 km or charging ~8,212 smartphones".
	DisplayText string `json:"display_text"`

	// IsEmpty is true when the input was below MinEquivalencyThresholdKg.
	IsEmpty bool `json:"is_empty"`
}
