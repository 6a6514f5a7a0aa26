package greenops

import (
	"fmt"
	"math"

	"github.com/greenledger/meatprint/internal/category"
)

// Estimator converts product mass into kg CO2e. It is immutable after
// NewEstimator and safe for concurrent use.
type Estimator struct {
	factors Factors
}

// NewEstimator validates that every category of the closed set has a finite,
// non-negative factor and returns an Estimator over a private copy of f.
// Lookups can therefore never miss at estimation time.
func NewEstimator(f Factors) (*Estimator, error) {
	if err := ValidateFactors(f); err != nil {
		return nil, err
	}
	return &Estimator{factors: f.Clone()}, nil
}

// ValidateFactors checks f against the closed category set.
func ValidateFactors(f Factors) error {
	for _, c := range category.All() {
		v, ok := f[c]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingFactor, c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidFactor, c, v)
		}
	}
	return nil
}

// Estimate returns massKg × factor(c). Negative masses yield 0.
func (e *Estimator) Estimate(c category.Category, massKg float64) float64 {
	if massKg <= 0 {
		return 0
	}
	return massKg * e.factors[c]
}

// Factor returns the emissions factor of c.
func (e *Estimator) Factor(c category.Category) float64 {
	return e.factors[c]
}

// Factors returns a copy of the factor table.
func (e *Estimator) Factors() Factors {
	return e.factors.Clone()
}
