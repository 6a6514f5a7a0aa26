package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/category"
	"github.com/greenledger/meatprint/internal/engine"
	"github.com/greenledger/meatprint/internal/metrics"
)

func TestRecorder_WriteTextfile(t *testing.T) {
	r := metrics.NewRecorder()

	r.DocumentAnalyzed(&engine.DocumentSummary{
		ID:            "a.pdf",
		ContainsMeat:  true,
		LineCount:     3,
		MeatLineCount: 2,
		MassByCategory: map[category.Category]float64{
			category.Beef: 2.5,
			category.Pork: 1.3,
		},
		EmissionsByCategory: map[category.Category]float64{
			category.Beef: 67.5,
			category.Pork: 7.8,
		},
	}, 2*time.Millisecond)
	r.DocumentAnalyzed(&engine.DocumentSummary{ID: "b.pdf", Error: "boom"}, time.Millisecond)

	path := filepath.Join(t.TempDir(), "meatprint.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `meatprint_documents_total{status="analyzed"} 1`)
	assert.Contains(t, out, `meatprint_documents_total{status="failed"} 1`)
	assert.Contains(t, out, `meatprint_lines_total{kind="all"} 3`)
	assert.Contains(t, out, `meatprint_lines_total{kind="meat"} 2`)
	assert.Contains(t, out, `meatprint_mass_kg_total{category="beef"} 2.5`)
	assert.Contains(t, out, `meatprint_emissions_kg_total{category="beef"} 67.5`)
	assert.Contains(t, out, `meatprint_emissions_kg_total{category="pork"} 7.8`)
	assert.Contains(t, out, `meatprint_document_duration_seconds_count 2`)
}

func TestRecorder_Gather(t *testing.T) {
	r := metrics.NewRecorder()
	r.DocumentAnalyzed(&engine.DocumentSummary{ID: "x"}, 0)

	families, err := r.Registry().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "meatprint_documents_total")
	assert.Contains(t, names, "meatprint_document_duration_seconds")
}

func TestRecorder_WriteTextfileBadPath(t *testing.T) {
	r := metrics.NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	require.Error(t, err)
}
