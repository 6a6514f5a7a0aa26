package engine

import (
	"context"
	"time"

	"github.com/greenledger/meatprint/internal/engine/batch"
	"github.com/greenledger/meatprint/internal/logging"
)

// Observer is notified once per analyzed document. Calls may be concurrent.
type Observer interface {
	DocumentAnalyzed(summary *DocumentSummary, elapsed time.Duration)
}

// Pipeline runs an Analyzer over a batch of documents.
type Pipeline struct {
	analyzer    *Analyzer
	concurrency int
	observer    Observer
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency sets the number of documents analyzed at once.
// 0 selects runtime.NumCPU(); 1 processes documents sequentially.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) { p.concurrency = n }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) PipelineOption {
	return func(p *Pipeline) { p.observer = o }
}

// NewPipeline creates a pipeline around a.
func NewPipeline(a *Analyzer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{analyzer: a}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run analyzes docs and returns the batch report. Documents are
// independent: an error in one never affects another. When ctx is
// cancelled, documents not yet analyzed are reported with the context
// error. The report's document order always matches docs.
func (p *Pipeline) Run(ctx context.Context, docs []Document) (*BatchReport, error) {
	log := logging.FromContext(ctx)

	pool, err := batch.NewPool[Document, *DocumentSummary](p.concurrency)
	if err != nil {
		return nil, err
	}
	pool.WithProgressCallback(func(s batch.ProgressSnapshot) {
		log.Debug().
			Ctx(ctx).
			Str("component", "engine").
			Int("processed", s.ProcessedItems).
			Int("total", s.TotalItems).
			Float64("percent", s.PercentComplete).
			Msg("batch progress")
	})

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Int("documents", len(docs)).
		Int("concurrency", pool.Concurrency()).
		Msg("starting batch")

	results, runErr := pool.Map(ctx, docs, func(ctx context.Context, _ int, doc Document) (*DocumentSummary, error) {
		start := time.Now()
		s := p.analyzer.AnalyzeDocument(ctx, doc)
		if p.observer != nil {
			p.observer.DocumentAnalyzed(&s, time.Since(start))
		}
		return &s, nil
	})

	summaries := make([]DocumentSummary, len(docs))
	for i, s := range results {
		if s != nil {
			summaries[i] = *s
			continue
		}
		skipped := newDocumentSummary(docs[i].ID)
		skipped.LineCount = len(docs[i].Lines)
		if runErr != nil {
			skipped.Error = runErr.Error()
		} else {
			skipped.Error = context.Canceled.Error()
		}
		summaries[i] = *skipped
	}

	report := NewBatchReport(summaries)
	if runErr != nil {
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Err(runErr).
			Int("failed", report.FailedDocuments).
			Msg("batch interrupted")
		return report, runErr
	}

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Int("documents", len(docs)).
		Int("with_meat", report.DocumentsWithMeat).
		Float64("emissions_kg", report.TotalEmissionsKg).
		Msg("batch complete")
	return report, nil
}
