package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus counters and gauges for a report run. The
// program is a batch job with no scrape endpoint, so metrics are written out
// once per run in text exposition format for a node-exporter textfile
// collector. Each Metrics carries its own registry; nothing touches the
// default one.
type Metrics struct {
	RecordsRead     *prometheus.CounterVec // labels: source={regulatory,internal}
	RecordsExcluded prometheus.Counter
	UnmappedValues  *prometheus.CounterVec // labels: kind={guild,species-guild,runway,month}
	TransformErrors prometheus.Counter

	SummariesWritten prometheus.Counter
	ChartsRendered   prometheus.Counter
	RunDuration      prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all run metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strikereport",
			Name:      "records_read_total",
			Help:      "Raw strike rows extracted, by source.",
		}, []string{"source"}),
		RecordsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strikereport",
			Name:      "records_excluded_total",
			Help:      "Command-center rows dropped by the workflow-status filter.",
		}),
		UnmappedValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strikereport",
			Name:      "unmapped_values_total",
			Help:      "Raw values that fell through a normalization table, by kind.",
		}, []string{"kind"}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strikereport",
			Name:      "transform_errors_total",
			Help:      "Total normalization failures.",
		}),
		SummariesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strikereport",
			Name:      "summaries_written_total",
			Help:      "Summary and rate tables written to the output directory.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strikereport",
			Name:      "charts_rendered_total",
			Help:      "Chart images rendered to the output directory.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strikereport",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of the last complete run.",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RecordsRead,
		m.RecordsExcluded,
		m.UnmappedValues,
		m.TransformErrors,
		m.SummariesWritten,
		m.ChartsRendered,
		m.RunDuration,
	)

	return m
}

// WriteTextfile gathers the registry and writes it in text exposition format.
// The write goes through a temp file and rename so a collector never reads a
// half-written snapshot.
func (m *Metrics) WriteTextfile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := expfmt.NewEncoder(tmp, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			tmp.Close()
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("metrics textfile: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
