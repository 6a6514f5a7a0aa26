// Package metrics records batch results as Prometheus metrics and exports
// them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/greenledger/meatprint/internal/engine"
)

const namespace = "meatprint"

// Document statuses.
const (
	StatusAnalyzed = "analyzed"
	StatusFailed   = "failed"
)

// Recorder implements engine.Observer on a private registry. It is safe
// for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	documentsTotal   *prometheus.CounterVec
	linesTotal       *prometheus.CounterVec
	massKgTotal      *prometheus.CounterVec
	emissionsKgTotal *prometheus.CounterVec
	documentDuration prometheus.Histogram
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	documentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed by status.",
		},
		[]string{"status"},
	)
	linesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Invoice lines read, by kind (all or meat).",
		},
		[]string{"kind"},
	)
	massKgTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mass_kg_total",
			Help:      "Meat mass counted, in kilograms, by category.",
		},
		[]string{"category"},
	)
	emissionsKgTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emissions_kg_total",
			Help:      "Estimated emissions, in kg CO2e, by category.",
		},
		[]string{"category"},
	)
	documentDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Time spent analyzing one document.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	registry.MustRegister(documentsTotal, linesTotal, massKgTotal, emissionsKgTotal, documentDuration)

	return &Recorder{
		registry:         registry,
		documentsTotal:   documentsTotal,
		linesTotal:       linesTotal,
		massKgTotal:      massKgTotal,
		emissionsKgTotal: emissionsKgTotal,
		documentDuration: documentDuration,
	}
}

// DocumentAnalyzed records one summary.
func (r *Recorder) DocumentAnalyzed(s *engine.DocumentSummary, elapsed time.Duration) {
	r.documentDuration.Observe(elapsed.Seconds())

	if s.Failed() {
		r.documentsTotal.WithLabelValues(StatusFailed).Inc()
		return
	}
	r.documentsTotal.WithLabelValues(StatusAnalyzed).Inc()
	r.linesTotal.WithLabelValues("all").Add(float64(s.LineCount))
	r.linesTotal.WithLabelValues("meat").Add(float64(s.MeatLineCount))

	for c, kg := range s.MassByCategory {
		r.massKgTotal.WithLabelValues(c.String()).Add(kg)
	}
	for c, kg := range s.EmissionsByCategory {
		r.emissionsKgTotal.WithLabelValues(c.String()).Add(kg)
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes every metric to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
