package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/classify"
	"github.com/greenledger/meatprint/internal/greenops"
	"github.com/greenledger/meatprint/internal/logging"
	"github.com/greenledger/meatprint/internal/quantity"
	"github.com/greenledger/meatprint/internal/vendor"
)

// ErrNilDependency is returned by NewAnalyzer when a collaborator is missing.
var ErrNilDependency = errors.New("analyzer dependency cannot be nil")

// Analyzer processes single documents. All of its collaborators are
// read-only after construction, so one Analyzer may be shared by any
// number of goroutines.
type Analyzer struct {
	classifier *classify.Classifier
	vendors    *vendor.Identifier
	estimator  *greenops.Estimator
}

// NewAnalyzer wires the classifier, vendor identifier and estimator.
// vendors may be nil, in which case vendor detection is skipped.
func NewAnalyzer(
	classifier *classify.Classifier,
	vendors *vendor.Identifier,
	estimator *greenops.Estimator,
) (*Analyzer, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier", ErrNilDependency)
	}
	if estimator == nil {
		return nil, fmt.Errorf("%w: estimator", ErrNilDependency)
	}
	return &Analyzer{classifier: classifier, vendors: vendors, estimator: estimator}, nil
}

// AnalyzeLine evaluates one line. ok is false when the line fails the meat
// predicate, in which case it is not mass-parsed at all.
func (a *Analyzer) AnalyzeLine(line string) (LineResult, bool) {
	return a.analyzeLine(context.Background(), line)
}

func (a *Analyzer) analyzeLine(ctx context.Context, line string) (LineResult, bool) {
	if !a.classifier.IsMeat(line) {
		return LineResult{}, false
	}
	return LineResult{
		Category: a.classifier.Classify(line),
		MassKg:   quantity.ParseKgContext(ctx, line),
	}, true
}

// AnalyzeDocument produces the summary of one document. It never panics:
// a panic while processing is recovered and reported on the summary's
// Error field.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, doc Document) (summary DocumentSummary) {
	log := logging.FromContext(ctx)

	s := newDocumentSummary(doc.ID)
	s.LineCount = len(doc.Lines)

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Ctx(ctx).
				Str("component", "engine").
				Str("document", doc.ID).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("recovered panic while analyzing document")
			failed := newDocumentSummary(doc.ID)
			failed.LineCount = len(doc.Lines)
			failed.Error = fmt.Sprintf("internal error: %v", r)
			summary = *failed
		}
	}()

	if doc.Err != nil {
		s.Error = doc.Err.Error()
		return *s
	}

	if a.vendors != nil {
		s.Vendor = a.vendors.Identify(doc.Lines)
	}

	for _, line := range doc.Lines {
		res, ok := a.analyzeLine(ctx, line)
		if !ok {
			continue
		}
		s.ContainsMeat = true
		s.MeatLineCount++
		if res.MassKg > 0 {
			s.add(res, a.estimator.Estimate(res.Category, res.MassKg))
		}
	}
	s.finalize()

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("document", doc.ID).
		Str("vendor", vendor.Label(s.Vendor)).
		Int("lines", s.LineCount).
		Int("meat_lines", s.MeatLineCount).
		Float64("mass_kg", s.TotalMassKg).
		Float64("emissions_kg", s.TotalEmissionsKg).
		Msg("document analyzed")

	return *s
}

// LineTrace explains how a single line was treated.
type LineTrace struct {
	Line        string              `json:"line"`
	IsMeat      bool                `json:"is_meat"`
	MeatKeyword string              `json:"meat_keyword,omitempty"`
	Category    category.Category   `json:"category"`
	Keyword     string              `json:"keyword,omitempty"`
	Quantities  []quantity.Quantity `json:"quantities,omitempty"`
	MassKg      float64             `json:"mass_kg"`
	Factor      float64             `json:"factor"`
	EmissionsKg float64             `json:"emissions_kg"`

	// Counted is true when the line contributes to document totals.
	Counted bool `json:"counted"`
}

// Explain traces the decisions taken for line. Classification and
// quantities are reported even for non-meat lines, but such lines are
// never counted.
func (a *Analyzer) Explain(line string) LineTrace {
	m := a.classifier.Match(line)
	t := LineTrace{
		Line:        line,
		MeatKeyword: a.classifier.MeatKeyword(line),
		Category:    m.Category,
		Keyword:     m.Keyword,
		Quantities:  quantity.Find(line),
		Factor:      a.estimator.Factor(m.Category),
	}
	t.IsMeat = t.MeatKeyword != ""
	for _, q := range t.Quantities {
		t.MassKg += q.Kg
	}
	if t.IsMeat && t.MassKg > 0 {
		t.Counted = true
		t.EmissionsKg = a.estimator.Estimate(t.Category, t.MassKg)
	}
	return t
}

// Estimator exposes the factor table for reporting.
func (a *Analyzer) Estimator() *greenops.Estimator {
	return a.estimator
}
