package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/greenops"
	"github.com/greenledger/meatprint/internal/vendor"
)

// OutputFormat selects how a BatchReport is rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = fmt.Errorf("unknown output format (want %s, %s or %s)", OutputTable, OutputJSON, OutputNDJSON)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputTable, OutputJSON, OutputNDJSON:
		return f, nil
	case "":
		return OutputTable, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// RunInfo identifies a run in rendered output. It is kept outside the
// BatchReport so that reports stay comparable across runs.
type RunInfo struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

// RenderOptions tunes rendering.
type RenderOptions struct {
	// Styled enables lipgloss styling in table output.
	Styled bool

	// Locale selects category labels ("en" or "fr").
	Locale string
}

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// Render writes report to w in the given format.
func Render(w io.Writer, format OutputFormat, report *BatchReport, info RunInfo, opts RenderOptions) error {
	switch format {
	case OutputTable, "":
		return RenderTable(w, report, opts)
	case OutputJSON:
		return RenderJSON(w, report, info)
	case OutputNDJSON:
		return RenderNDJSON(w, report, info)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// round2 formats a value the way every table cell does.
func round2(v float64) string {
	return greenops.FormatFloat(v, 2)
}

// RenderTable writes a per-document table followed by per-category totals
// and the grand total.
func RenderTable(w io.Writer, report *BatchReport, opts RenderOptions) error {
	var docs bytes.Buffer
	tw := tabwriter.NewWriter(&docs, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintln(tw, "DOCUMENT\tVENDOR\tMEAT\tPRIMARY\tMASS (KG)\tCO2E (KG)\tERROR"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, d := range report.Documents {
		meat := "no"
		primary := "-"
		if d.ContainsMeat {
			meat = "yes"
		}
		if d.TotalMassKg > 0 {
			primary = d.PrimaryCategory.Label(opts.Locale)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID,
			vendor.Label(d.Vendor),
			meat,
			primary,
			round2(d.TotalMassKg),
			round2(d.TotalEmissionsKg),
			d.Error,
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	var totals bytes.Buffer
	tw = tabwriter.NewWriter(&totals, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintln(tw, "CATEGORY\tMASS (KG)\tCO2E (KG)"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range report.Categories() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n",
			c.Label(opts.Locale),
			round2(report.MassByCategory[c]),
			round2(report.TotalsByCategory[c]),
		); err != nil {
			return fmt.Errorf("writing category row: %w", err)
		}
	}
	if _, err := fmt.Fprintf(tw, "TOTAL\t%s\t%s\n",
		round2(report.TotalMassKg), round2(report.TotalEmissionsKg)); err != nil {
		return fmt.Errorf("writing total: %w", err)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	out := styleHeader(docs.String(), opts.Styled) + "\n" + styleHeader(totals.String(), opts.Styled)
	if eq, err := greenops.Calculate(report.TotalEmissionsKg); err == nil && !eq.IsEmpty {
		out += "\n" + eq.DisplayText + "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

// styleHeader bolds the first line of an aligned table. Styling is applied
// after alignment so escape codes do not skew column widths.
func styleHeader(table string, styled bool) string {
	if !styled {
		return table
	}
	head, rest, _ := strings.Cut(table, "\n")
	return lipgloss.NewStyle().Bold(true).Render(head) + "\n" + rest
}

// roundKg rounds v to two decimals. Machine-readable output uses the same
// precision as the table so that consumers see 0.3 rather than
// 0.30000000000000004.
func roundKg(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundMap(m map[category.Category]float64) map[category.Category]float64 {
	out := make(map[category.Category]float64, len(m))
	for c, v := range m {
		out[c] = roundKg(v)
	}
	return out
}

// rounded returns a copy of d with every mass and emissions value rounded.
func rounded(d DocumentSummary) DocumentSummary {
	d.TotalMassKg = roundKg(d.TotalMassKg)
	d.TotalEmissionsKg = roundKg(d.TotalEmissionsKg)
	d.MassByCategory = roundMap(d.MassByCategory)
	d.EmissionsByCategory = roundMap(d.EmissionsByCategory)
	return d
}

// Totals is the aggregate section of JSON output.
type Totals struct {
	EmissionsByCategory map[category.Category]float64 `json:"emissions_by_category"`
	MassByCategory      map[category.Category]float64 `json:"mass_by_category"`
	TotalEmissionsKg    float64                       `json:"total_emissions_kg"`
	TotalMassKg         float64                       `json:"total_mass_kg"`
	Documents           int                           `json:"documents"`
	DocumentsWithMeat   int                           `json:"documents_with_meat"`
	FailedDocuments     int                           `json:"failed_documents"`

	Equivalencies *greenops.EquivalencyOutput `json:"equivalencies,omitempty"`
}

// JSONOutput is the top-level JSON document.
type JSONOutput struct {
	RunInfo

	Documents []DocumentSummary `json:"documents"`
	Totals    Totals            `json:"totals"`
}

// NDJSONTotals is the last line of NDJSON output.
type NDJSONTotals struct {
	Type  string `json:"type"`
	RunID string `json:"run_id"`
	Totals
}

func totalsOf(report *BatchReport) Totals {
	t := Totals{
		EmissionsByCategory: roundMap(report.TotalsByCategory),
		MassByCategory:      roundMap(report.MassByCategory),
		TotalEmissionsKg:    roundKg(report.TotalEmissionsKg),
		TotalMassKg:         roundKg(report.TotalMassKg),
		Documents:           len(report.Documents),
		DocumentsWithMeat:   report.DocumentsWithMeat,
		FailedDocuments:     report.FailedDocuments,
	}
	if eq, err := greenops.Calculate(report.TotalEmissionsKg); err == nil && !eq.IsEmpty {
		t.Equivalencies = &eq
	}
	return t
}

// RenderJSON writes the report as one indented JSON object.
func RenderJSON(w io.Writer, report *BatchReport, info RunInfo) error {
	docs := make([]DocumentSummary, len(report.Documents))
	for i, d := range report.Documents {
		docs[i] = rounded(d)
	}
	out := JSONOutput{
		RunInfo:   info,
		Documents: docs,
		Totals:    totalsOf(report),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ndjsonDocument tags a document line in NDJSON output.
type ndjsonDocument struct {
	Type  string `json:"type"`
	RunID string `json:"run_id"`
	DocumentSummary
}

// RenderNDJSON writes one line per document followed by a totals line.
func RenderNDJSON(w io.Writer, report *BatchReport, info RunInfo) error {
	enc := json.NewEncoder(w)
	for _, d := range report.Documents {
		if err := enc.Encode(ndjsonDocument{Type: "document", RunID: info.RunID, DocumentSummary: rounded(d)}); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	if err := enc.Encode(NDJSONTotals{Type: "totals", RunID: info.RunID, Totals: totalsOf(report)}); err != nil {
		return fmt.Errorf("writing NDJSON totals: %w", err)
	}
	return nil
}

// RenderTrace writes an explanation of one line.
func RenderTrace(w io.Writer, t LineTrace, locale string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "line:       %q\n", t.Line)
	if t.IsMeat {
		fmt.Fprintf(&b, "meat:       yes (%q)\n", t.MeatKeyword)
	} else {
		b.WriteString("meat:       no\n")
	}
	if t.Keyword != "" {
		fmt.Fprintf(&b, "category:   %s (%q)\n", t.Category.Label(locale), t.Keyword)
	} else {
		fmt.Fprintf(&b, "category:   %s (fallback)\n", t.Category.Label(locale))
	}
	if len(t.Quantities) == 0 {
		b.WriteString("quantities: none\n")
	}
	for _, q := range t.Quantities {
		fmt.Fprintf(&b, "quantity:   %q = %s kg\n", q.Raw, greenops.FormatFloat(q.Kg, 3))
	}
	fmt.Fprintf(&b, "mass:       %s\n", greenops.FormatMass(t.MassKg))
	if t.Counted {
		fmt.Fprintf(&b, "emissions:  %s (factor %s)\n",
			greenops.FormatEmissions(t.EmissionsKg), greenops.FormatFloat(t.Factor, 2))
	} else {
		b.WriteString("emissions:  not counted\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
