package blockdupes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for duplicate detection runs.
// Every Metrics owns its registry, so several finders can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	BlocksReadTotal      prometheus.Counter
	BytesReadTotal       prometheus.Counter
	FilesComparedTotal   prometheus.Counter
	FilesEliminatedTotal prometheus.Counter
	FileErrorsTotal      *prometheus.CounterVec
	GroupsFoundTotal     prometheus.Counter
	SizeClassesTotal     prometheus.Counter
	RoundsPerSizeClass   prometheus.Histogram
}

// NewMetrics creates and registers all metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		BlocksReadTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockdupes_blocks_read_total",
			Help: "Blocks read from candidate files",
		}),
		BytesReadTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockdupes_bytes_read_total",
			Help: "Bytes read from candidate files",
		}),
		FilesComparedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockdupes_files_compared_total",
			Help: "Files handed to the bucket partitioner",
		}),
		FilesEliminatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockdupes_files_eliminated_total",
			Help: "Files proven unique before their last block",
		}),
		FileErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "blockdupes_file_errors_total",
			Help: "Files excluded after an I/O failure",
		}, []string{"op"}),
		GroupsFoundTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockdupes_groups_found_total",
			Help: "Duplicate groups emitted",
		}),
		SizeClassesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "blockdupes_size_classes_total",
			Help: "Size classes with at least two members",
		}),
		RoundsPerSizeClass: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "blockdupes_rounds",
			Help:    "Comparison rounds needed per size class",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// Registry exposes the registry for callers that serve or gather it
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteToTextfile writes the current metrics in the node_exporter textfile format
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// recordSizeClass folds one size class's stats into the metrics
func (m *Metrics) recordSizeClass(stats Stats) {
	if m == nil {
		return
	}
	m.SizeClassesTotal.Inc()
	m.FilesComparedTotal.Add(float64(stats.FilesCompared))
	m.BlocksReadTotal.Add(float64(stats.BlocksRead))
	m.BytesReadTotal.Add(float64(stats.BytesRead))
	m.FilesEliminatedTotal.Add(float64(stats.FilesEliminated))
	m.GroupsFoundTotal.Add(float64(stats.GroupsFound))
	m.RoundsPerSizeClass.Observe(float64(stats.Rounds))
}

// recordFileError counts one excluded file
func (m *Metrics) recordFileError(op string) {
	if m == nil {
		return
	}
	m.FileErrorsTotal.WithLabelValues(op).Inc()
}
