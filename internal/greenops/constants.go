package greenops

import "github.com/greenledger/meatprint/internal/category"

// EPA Formula Constants (2024 Edition), converted to metric where needed.
// Source: https://www.epa.gov/energy/greenhouse-gas-equivalencies-calculator
//
//	equivalency = kg_CO2e / factor
const (
	// EPAKmDrivenFactor is kg CO2e per km for an average passenger vehicle
	// (0.192 kg per mile).
	EPAKmDrivenFactor = 0.192 / 1.609344

	// EPASmartphoneChargeFactor is kg CO2e per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the minimum kg CO2e for showing equivalencies.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold is where abbreviated "~X.X million" display starts.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold is the threshold for billion-scale display.
	BillionThreshold = 1_000_000_000
)

// DefaultFactors returns the built-in emissions factors in kg CO2e per kg of
// product. Other defaults to zero so that unclassified meat lines are
// counted in mass but not in emissions.
func DefaultFactors() Factors {
	return Factors{
		category.Beef:    27,
		category.Pork:    6,
		category.Poultry: 5,
		category.Fish:    5,
		category.Seafood: 10,
		category.Other:   0,
	}
}
