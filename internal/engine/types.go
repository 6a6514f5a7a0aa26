// Package engine turns the text lines of invoices into per-document and
// per-batch meat mass and emissions totals.
//
// An Analyzer processes one document: every line passing the meat
// predicate is mass-parsed, classified and accumulated. A Pipeline runs
// the Analyzer over many documents concurrently and folds the results into
// a BatchReport in submission order.
package engine

import (
	"github.com/greenledger/meatprint/internal/category"
)

// Document is the input for one invoice: an identifier (usually a file
// path) and its text lines in reading order. Err carries an extraction
// failure; a document with Err set is reported but not analyzed.
type Document struct {
	ID    string
	Lines []string
	Err   error
}

// LineResult is the contribution of one meat line.
type LineResult struct {
	Category category.Category `json:"category"`
	MassKg   float64           `json:"mass_kg"`
}

// DocumentSummary is the analysis result for one document. Values are kept
// at full precision; rounding is a rendering concern.
type DocumentSummary struct {
	ID string `json:"id"`

	// Vendor is the detected vendor, or vendor.Unknown ("").
	Vendor string `json:"vendor,omitempty"`

	ContainsMeat bool `json:"contains_meat"`

	// PrimaryCategory is the category with the largest mass, ties going to
	// the higher priority category. Other when no mass was counted.
	PrimaryCategory category.Category `json:"primary_category"`

	TotalMassKg         float64                       `json:"total_mass_kg"`
	TotalEmissionsKg    float64                       `json:"total_emissions_kg"`
	MassByCategory      map[category.Category]float64 `json:"mass_by_category"`
	EmissionsByCategory map[category.Category]float64 `json:"emissions_by_category"`

	LineCount     int `json:"line_count"`
	MeatLineCount int `json:"meat_line_count"`

	// Error is set when the document could not be read or analyzed.
	Error string `json:"error,omitempty"`
}

func newDocumentSummary(id string) *DocumentSummary {
	return &DocumentSummary{
		ID:                  id,
		PrimaryCategory:     category.Other,
		MassByCategory:      map[category.Category]float64{},
		EmissionsByCategory: map[category.Category]float64{},
	}
}

// add accumulates one counted line.
func (s *DocumentSummary) add(r LineResult, emissions float64) {
	s.TotalMassKg += r.MassKg
	s.TotalEmissionsKg += emissions
	s.MassByCategory[r.Category] += r.MassKg
	s.EmissionsByCategory[r.Category] += emissions
}

// finalize computes derived fields once every line has been consumed.
func (s *DocumentSummary) finalize() {
	s.PrimaryCategory = primaryCategory(s.MassByCategory)
}

// Failed reports whether the document carries an error.
func (s *DocumentSummary) Failed() bool {
	return s.Error != ""
}

func primaryCategory(mass map[category.Category]float64) category.Category {
	best := category.Other
	bestMass := 0.0
	// category.All is in priority order, so strict > keeps the earlier one on ties.
	for _, c := range category.All() {
		if m := mass[c]; m > bestMass {
			best, bestMass = c, m
		}
	}
	return best
}

// BatchReport aggregates the summaries of one run.
type BatchReport struct {
	// Documents are in submission order.
	Documents []DocumentSummary `json:"documents"`

	// TotalsByCategory is the emissions per category across all documents.
	TotalsByCategory map[category.Category]float64 `json:"totals_by_category"`
	MassByCategory   map[category.Category]float64 `json:"mass_by_category"`

	TotalEmissionsKg float64 `json:"total_emissions_kg"`
	TotalMassKg      float64 `json:"total_mass_kg"`

	DocumentsWithMeat int `json:"documents_with_meat"`
	FailedDocuments   int `json:"failed_documents"`
}

// NewBatchReport folds summaries into a report. The slice is copied.
func NewBatchReport(summaries []DocumentSummary) *BatchReport {
	r := &BatchReport{
		Documents:        make([]DocumentSummary, len(summaries)),
		TotalsByCategory: map[category.Category]float64{},
		MassByCategory:   map[category.Category]float64{},
	}
	copy(r.Documents, summaries)

	for i := range r.Documents {
		d := &r.Documents[i]
		for c, e := range d.EmissionsByCategory {
			r.TotalsByCategory[c] += e
		}
		for c, m := range d.MassByCategory {
			r.MassByCategory[c] += m
		}
		r.TotalEmissionsKg += d.TotalEmissionsKg
		r.TotalMassKg += d.TotalMassKg
		if d.ContainsMeat {
			r.DocumentsWithMeat++
		}
		if d.Failed() {
			r.FailedDocuments++
		}
	}
	return r
}

// Categories returns the categories present in the report totals, in
// priority order.
func (r *BatchReport) Categories() []category.Category {
	var out []category.Category
	for _, c := range category.All() {
		if _, ok := r.MassByCategory[c]; ok {
			out = append(out, c)
			continue
		}
		if _, ok := r.TotalsByCategory[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
