// Package quantity extracts mass quantities from free-form invoice lines and
// normalizes them to kilograms.
//
// Every "<number><optional space><unit>" mention with a unit of g or kg is
// counted. A line carrying both a pack weight and a unit weight is summed
// as-is; callers relying on exact invoice semantics must account for that.
// Quantities without a unit ("2 steaks") are ignored.
package quantity

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/greenledger/meatprint/internal/logging"
)

// Unit conversion factors to kilograms.
const (
	// GramsToKg converts grams to kilograms.
	GramsToKg = 0.001

	// KgToKg is the identity conversion for kilograms.
	KgToKg = 1.0
)

// massPattern matches a decimal number using "." or "," as fractional
// separator, an optional single space, and a g/kg unit. The space may be
// ASCII whitespace, a no-break space (U+00A0) or a narrow no-break space
// (U+202F), both common in French typesetting and PDF text. Alternation
// order matters: "kg" is tried before "g" at each position.
//
//nolint:gochecknoglobals // Compiled once, immutable.
var massPattern = regexp.MustCompile(`(?i)(\d+[.,]?\d*)[\s\x{00A0}\x{202F}]?(kg|g)`)

// Quantity is a single mass mention found in a line.
type Quantity struct {
	// Raw is the matched text, e.g. "2,5 kg".
	Raw string `json:"raw"`

	// Value is the parsed number in the stated unit.
	Value float64 `json:"value"`

	// Unit is the lower-cased unit ("g" or "kg").
	Unit string `json:"unit"`

	// Kg is Value converted to kilograms.
	Kg float64 `json:"kg"`
}

// unitFactor returns the factor converting unit to kilograms.
func unitFactor(unit string) (float64, bool) {
	switch strings.ToLower(unit) {
	case "g":
		return GramsToKg, true
	case "kg":
		return KgToKg, true
	default:
		return 0, false
	}
}

// ToKg converts value expressed in unit to kilograms. It reports false for
// unknown units and negative values.
func ToKg(value float64, unit string) (float64, bool) {
	if value < 0 {
		return 0, false
	}
	factor, ok := unitFactor(unit)
	if !ok {
		return 0, false
	}
	return value * factor, true
}

// Find returns every well-formed mass mention in line, in order of
// appearance. Tokens that match the pattern but fail to parse are skipped.
func Find(line string) []Quantity {
	return FindContext(context.Background(), line)
}

// FindContext is Find with skipped tokens logged through the logger in ctx.
func FindContext(ctx context.Context, line string) []Quantity {
	matches := massPattern.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}

	out := make([]Quantity, 0, len(matches))
	for _, m := range matches {
		number := strings.Replace(m[1], ",", ".", 1)
		value, err := strconv.ParseFloat(number, 64)
		if err != nil {
			logging.FromContext(ctx).Debug().
				Ctx(ctx).
				Str("component", "quantity").
				Str("token", m[0]).
				Err(err).
				Msg("skipping malformed quantity token")
			continue
		}
		unit := strings.ToLower(m[2])
		kg, ok := ToKg(value, unit)
		if !ok {
			continue
		}
		out = append(out, Quantity{Raw: m[0], Value: value, Unit: unit, Kg: kg})
	}
	return out
}

// ParseKg returns the sum, in kilograms, of all mass mentions in line.
// It returns 0 when the line has no usable quantity and never fails.
func ParseKg(line string) float64 {
	return ParseKgContext(context.Background(), line)
}

// ParseKgContext is ParseKg with skipped tokens logged through ctx.
func ParseKgContext(ctx context.Context, line string) float64 {
	total := 0.0
	for _, q := range FindContext(ctx, line) {
		total += q.Kg
	}
	return total
}
