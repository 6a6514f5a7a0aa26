// Package category defines the closed set of animal-product categories that
// invoice lines are classified into.
//
// The declaration order of the constants is the classification priority:
// when a line matches keywords of several categories, the one declared first
// wins. Other is the fallback and never carries keywords.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// Category is an animal-product classification tag.
type Category int

const (
	// Beef covers beef and veal products.
	Beef Category = iota
	// Pork covers pork and most charcuterie.
	Pork
	// Poultry covers chicken, turkey, duck, goose and similar birds.
	Poultry
	// Fish covers finfish.
	Fish
	// Seafood covers shellfish and crustaceans.
	Seafood
	// Other is assigned to meat-related lines that match no specific category.
	Other
)

// ErrUnknownCategory is returned by Parse for names outside the closed set.
var ErrUnknownCategory = errors.New("unknown category")

//nolint:gochecknoglobals // Closed enumeration, never mutated.
var all = []Category{Beef, Pork, Poultry, Fish, Seafood, Other}

//nolint:gochecknoglobals // Lookup tables for the closed enumeration.
var (
	names = map[Category]string{
		Beef:    "beef",
		Pork:    "pork",
		Poultry: "poultry",
		Fish:    "fish",
		Seafood: "seafood",
		Other:   "other",
	}
	frenchLabels = map[Category]string{
		Beef:    "bœuf",
		Pork:    "porc",
		Poultry: "volaille",
		Fish:    "poisson",
		Seafood: "fruits de mer",
		Other:   "autre",
	}
	aliases = map[string]Category{
		"boeuf": Beef,
		"veau":  Beef,
		"veal":  Beef,
	}
)

// All returns every category in priority order. The returned slice is a copy.
func All() []Category {
	out := make([]Category, len(all))
	copy(out, all)
	return out
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	return c >= Beef && c <= Other
}

// Rank returns the classification priority of c; lower ranks are tried first.
func (c Category) Rank() int {
	return int(c)
}

// String returns the English name of the category.
func (c Category) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Label returns the display label of c for the given locale.
// Supported locales are "en" and "fr"; anything else falls back to English.
func (c Category) Label(locale string) string {
	if strings.EqualFold(locale, "fr") {
		if label, ok := frenchLabels[c]; ok {
			return label
		}
	}
	return c.String()
}

// Parse resolves an English name, a French label or a known alias to a
// Category. Matching is case-insensitive and ignores surrounding spaces.
func Parse(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range all {
		if key == names[c] || key == frenchLabels[c] {
			return c, nil
		}
	}
	if c, ok := aliases[key]; ok {
		return c, nil
	}
	return Other, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText implements encoding.TextMarshaler so categories serialize by
// name, including as JSON and YAML map keys.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
