package greenops

import (
	"fmt"
	"math"
)

// Calculate converts kg CO2e into EPA-based equivalencies expressed as
// kilometres driven and smartphones charged.
//
// Inputs below MinEquivalencyThresholdKg yield an empty output without
// error. Negative inputs return ErrNegativeValue and values whose
// conversion overflows return ErrCalculationOverflow.
func Calculate(kg float64) (EquivalencyOutput, error) {
	if math.IsNaN(kg) || math.IsInf(kg, 0) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if kg < 0 {
		return EquivalencyOutput{IsEmpty: true}, fmt.Errorf("%w: %v", ErrNegativeValue, kg)
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	km := kg / EPAKmDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	if math.IsInf(km, 0) || math.IsInf(phones, 0) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}

	kmFormatted := formatEquivalencyValue(km)
	phonesFormatted := formatEquivalencyValue(phones)

	return EquivalencyOutput{
		InputKg: kg,
		Results: []EquivalencyResult{
			{
				Type:           EquivalencyKmDriven,
				Value:          km,
				FormattedValue: kmFormatted,
				Label:          "km driven",
			},
			{
				Type:           EquivalencySmartphonesCharged,
				Value:          phones,
				FormattedValue: phonesFormatted,
				Label:          "smartphones charged",
			},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s km or charging ~%s smartphones",
			kmFormatted, phonesFormatted),
	}, nil
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
