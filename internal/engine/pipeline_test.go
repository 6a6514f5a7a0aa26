package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenledger/meatprint/internal/category"
)

func sampleDocuments() []Document {
	return []Document{
		{ID: "a.pdf", Lines: []string{"Intermarché", "Jambon 300g", "Côte de porc 1kg"}},
		{ID: "b.pdf", Lines: []string{"Carrefour Market", "Steak haché 2.5 kg", "Pain complet 1 kg"}},
		{ID: "c.txt", Lines: nil},
		{ID: "d.txt", Lines: []string{"Filet de poulet 500 g", "Crevettes 1 kg", "Saumon 750 g"}},
		{ID: "e.pdf", Err: fmt.Errorf("open e.pdf: permission denied")},
	}
}

type recordingObserver struct {
	mu  sync.Mutex
	ids []string
}

func (o *recordingObserver) DocumentAnalyzed(s *DocumentSummary, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ids = append(o.ids, s.ID)
}

func TestPipelineRun(t *testing.T) {
	obs := &recordingObserver{}
	p := NewPipeline(testAnalyzer(t), WithConcurrency(4), WithObserver(obs))

	docs := sampleDocuments()
	report, err := p.Run(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, report.Documents, len(docs))

	for i, d := range docs {
		assert.Equal(t, d.ID, report.Documents[i].ID, "submission order")
	}
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf", "c.txt", "d.txt", "e.pdf"}, obs.ids)

	assert.Equal(t, "Intermarché", report.Documents[0].Vendor)
	assert.Equal(t, "Carrefour", report.Documents[1].Vendor)
	assert.False(t, report.Documents[2].ContainsMeat)
	assert.Contains(t, report.Documents[4].Error, "permission denied")

	assert.Equal(t, 3, report.DocumentsWithMeat)
	assert.Equal(t, 1, report.FailedDocuments)
	assert.InDelta(t, 1.3+2.5+0.5+1+0.75, report.TotalMassKg, 1e-9)
}

func TestPipelineRun_AggregateIsSumOfDocuments(t *testing.T) {
	report, err := NewPipeline(testAnalyzer(t)).Run(context.Background(), sampleDocuments())
	require.NoError(t, err)

	for _, c := range category.All() {
		sum := 0.0
		for _, d := range report.Documents {
			sum += d.EmissionsByCategory[c]
		}
		assert.InDelta(t, sum, report.TotalsByCategory[c], 1e-9, c.String())
	}

	grand := 0.0
	for _, e := range report.TotalsByCategory {
		grand += e
	}
	assert.InDelta(t, grand, report.TotalEmissionsKg, 1e-9)
	assert.InDelta(t, 1.3*6+2.5*27+0.5*5+1*10+0.75*5, report.TotalEmissionsKg, 1e-9)
}

func TestPipelineRun_Idempotent(t *testing.T) {
	a := testAnalyzer(t)

	first, err := NewPipeline(a, WithConcurrency(1)).Run(context.Background(), sampleDocuments())
	require.NoError(t, err)
	second, err := NewPipeline(a, WithConcurrency(8)).Run(context.Background(), sampleDocuments())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPipelineRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	docs := sampleDocuments()
	report, err := NewPipeline(testAnalyzer(t), WithConcurrency(2)).Run(ctx, docs)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	require.Len(t, report.Documents, len(docs))
	for i, d := range report.Documents {
		assert.Equal(t, docs[i].ID, d.ID)
		assert.True(t, d.Failed())
	}
}

func TestPipelineRun_Empty(t *testing.T) {
	report, err := NewPipeline(testAnalyzer(t)).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Documents)
	assert.Zero(t, report.TotalEmissionsKg)
}

func TestPipelineRun_InvalidConcurrency(t *testing.T) {
	_, err := NewPipeline(testAnalyzer(t), WithConcurrency(-3)).Run(context.Background(), nil)
	require.Error(t, err)
}

func TestNewBatchReport_CopiesInput(t *testing.T) {
	in := []DocumentSummary{*newDocumentSummary("x")}
	r := NewBatchReport(in)
	in[0].ID = "changed"
	assert.Equal(t, "x", r.Documents[0].ID)
}

func TestPrimaryCategory_TieGoesToPriority(t *testing.T) {
	got := primaryCategory(map[category.Category]float64{
		category.Pork: 1,
		category.Beef: 1,
	})
	assert.Equal(t, category.Beef, got)
	assert.Equal(t, category.Other, primaryCategory(nil))
}
