package cli

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/greenledger/meatprint/internal/engine"
)

// Sort orders.
const (
	sortOrderAsc  = "asc"
	sortOrderDesc = "desc"
)

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// Sort validation errors.
var (
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'emissions:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
)

type documentCompare func(a, b engine.DocumentSummary) int

//nolint:gochecknoglobals // Lookup table of sortable columns.
var documentSortFields = map[string]documentCompare{
	"id": func(a, b engine.DocumentSummary) int { return strings.Compare(a.ID, b.ID) },
	"vendor": func(a, b engine.DocumentSummary) int {
		return strings.Compare(strings.ToLower(a.Vendor), strings.ToLower(b.Vendor))
	},
	"mass":      func(a, b engine.DocumentSummary) int { return cmp.Compare(a.TotalMassKg, b.TotalMassKg) },
	"emissions": func(a, b engine.DocumentSummary) int { return cmp.Compare(a.TotalEmissionsKg, b.TotalEmissionsKg) },
}

// sortFieldNames lists the accepted fields for help and error messages.
func sortFieldNames() []string {
	names := make([]string, 0, len(documentSortFields))
	for name := range documentSortFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseSort parses "field" or "field:order".
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func parseSort(sortStr string) (field, order string, err error) {
	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = sortOrderAsc
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	field = strings.ToLower(field)
	if _, ok := documentSortFields[field]; !ok {
		return "", "", fmt.Errorf("%w: %q (want one of %s)", ErrInvalidSortField, field, strings.Join(sortFieldNames(), ", "))
	}
	if order != sortOrderAsc && order != sortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// sortedView returns a copy of report whose documents are ordered by
// sortStr. Totals are unchanged and report itself is not modified. Equal
// keys keep submission order.
func sortedView(report *engine.BatchReport, sortStr string) (*engine.BatchReport, error) {
	if sortStr == "" {
		return report, nil
	}
	field, order, err := parseSort(sortStr)
	if err != nil {
		return nil, err
	}
	compare := documentSortFields[field]

	view := *report
	view.Documents = slices.Clone(report.Documents)
	slices.SortStableFunc(view.Documents, func(a, b engine.DocumentSummary) int {
		if order == sortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return &view, nil
}
