package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenledger/meatprint/internal/config"
	"github.com/greenledger/meatprint/internal/engine"
	"github.com/greenledger/meatprint/internal/engine/cache"
	"github.com/greenledger/meatprint/internal/ingest"
	"github.com/greenledger/meatprint/internal/logging"
	"github.com/greenledger/meatprint/internal/metrics"
)

// analyzeParams holds the analyze command flags.
type analyzeParams struct {
	output      string
	rules       string
	concurrency int
	noCache     bool
	metricsFile string
	locale      string
	sort        string
	failOnError bool
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	var params analyzeParams

	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Estimate meat mass and emissions for a batch of invoices",
		Long: `Reads each invoice (PDF or plain text, "-" for stdin), counts the lines that
mention meat, fish or seafood, converts their quantities to kilograms and
estimates kg CO2e per category.

A document that cannot be read is reported with its error and does not stop
the batch.`,
		Example: `  # Analyze every PDF in a directory
  meatprint analyze invoices/*.pdf

  # JSON output with French labels
  meatprint analyze --output json --locale fr facture.pdf

  # Largest emitters first
  meatprint analyze --sort emissions:desc invoices/*.pdf

  # Use custom rules and write Prometheus metrics
  meatprint analyze --rules my-rules.yaml --metrics-file /var/lib/node_exporter/meatprint.prom *.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, params)
		},
	}

	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table, json or ndjson (default from config)")
	cmd.Flags().StringVar(&params.rules, "rules", "", "rules file (default from config, else built-in rules)")
	cmd.Flags().IntVarP(&params.concurrency, "concurrency", "j", 0, "documents processed at once (0 = one per CPU)")
	cmd.Flags().BoolVar(&params.noCache, "no-cache", false, "do not read or write the extracted-text cache")
	cmd.Flags().StringVar(&params.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	cmd.Flags().StringVar(&params.locale, "locale", "", "category labels: en or fr (default from config)")
	cmd.Flags().StringVar(&params.sort, "sort", "",
		fmt.Sprintf("order documents in the output by field[:asc|desc]; fields: %v", sortFieldNames()))
	cmd.Flags().BoolVar(&params.failOnError, "fail-on-error", false,
		fmt.Sprintf("exit with status %d when any document could not be read", ExitDocumentsFailed))

	return cmd
}

func runAnalyze(cmd *cobra.Command, paths []string, params analyzeParams) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	formatName := cfg.Output.DefaultFormat
	if params.output != "" {
		formatName = params.output
	}
	format, err := engine.ParseOutputFormat(formatName)
	if err != nil {
		return err
	}

	pipelineCfg := cfg.Pipeline
	if cmd.Flags().Changed("concurrency") {
		pipelineCfg.Concurrency = params.concurrency
	}
	if err = pipelineCfg.Validate(); err != nil {
		return err
	}
	concurrency := pipelineCfg.EffectiveConcurrency()

	analyzer, rules, err := newAnalyzer(rulesPath(params.rules))
	if err != nil {
		return err
	}
	logger.Debug().Ctx(ctx).Str("rules", rules.Source()).Int("concurrency", concurrency).Msg("rules loaded")

	loader := ingest.NewLoader(
		ingest.WithStdin(cmd.InOrStdin()),
		ingest.WithCache(openCache(ctx, cfg.Cache, params.noCache)),
	)

	var recorder *metrics.Recorder
	metricsFile := cfg.Metrics.Textfile
	if params.metricsFile != "" {
		metricsFile = params.metricsFile
	}
	opts := []engine.PipelineOption{engine.WithConcurrency(concurrency)}
	if metricsFile != "" {
		recorder = metrics.NewRecorder()
		opts = append(opts, engine.WithObserver(recorder))
	}

	docs, err := loader.LoadAll(ctx, paths, concurrency)
	if err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}

	report, runErr := engine.NewPipeline(analyzer, opts...).Run(ctx, docs)
	if report == nil {
		return runErr
	}

	view, err := sortedView(report, params.sort)
	if err != nil {
		return err
	}

	info := engine.RunInfo{
		RunID:       logging.TraceIDFromContext(ctx),
		GeneratedAt: time.Now().UTC(),
	}
	renderOpts := engine.RenderOptions{
		Styled: useStyling(cfg.Output.Color, cmd.OutOrStdout()),
		Locale: resolveLocale(params.locale),
	}
	if err = engine.Render(cmd.OutOrStdout(), format, view, info, renderOpts); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	if recorder != nil {
		if err = recorder.WriteTextfile(metricsFile); err != nil {
			logger.Warn().Ctx(ctx).Err(err).Msg("could not write metrics")
		}
	}

	if runErr != nil {
		return runErr
	}
	if params.failOnError && report.FailedDocuments > 0 {
		return &ExitError{
			Code:   ExitDocumentsFailed,
			Reason: fmt.Sprintf("%d of %d documents could not be read", report.FailedDocuments, len(report.Documents)),
		}
	}
	return nil
}

// openCache returns the extracted-text cache, or nil when it is disabled or
// unusable. Cache problems never fail a run.
func openCache(ctx context.Context, cc config.CacheConfig, disabled bool) *cache.FileStore {
	if disabled || !cc.Enabled {
		return nil
	}
	dir, err := cc.ResolveDirectory()
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Msg("cache disabled: no cache directory")
		return nil
	}
	ttl, err := cc.TTLDuration()
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Msg("cache disabled: invalid TTL")
		return nil
	}
	store, err := cache.NewFileStore(dir, true, ttl)
	if err != nil {
		logger.Warn().Ctx(ctx).Err(err).Str("directory", dir).Msg("cache disabled")
		return nil
	}
	if removed, cleanErr := store.CleanupExpired(); cleanErr == nil && removed > 0 {
		logger.Debug().Ctx(ctx).Int("removed", removed).Msg("expired cache entries removed")
	}
	return store
}
