// Package obs holds the observability capabilities (metrics, logging) injected
// into the analysis pipeline. Nothing here is consulted implicitly — every
// stage that wants a Logger or *Metrics receives one as an argument.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters and gauges the pipeline reports to. A nil
// *Metrics is valid everywhere it is accepted and simply records nothing.
type Metrics struct {
	ParsingDuration  *prometheus.HistogramVec
	FilesScanned     prometheus.Counter
	ParseFailures    prometheus.Counter
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge
	AnalysisDuration *prometheus.HistogramVec
}

// NewMetrics registers a fresh metric set against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// registry; pass nil in cmd/deptree to register against the global default.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	if reg == nil {
		factory = promauto.With(prometheus.DefaultRegisterer)
	}
	return &Metrics{
		ParsingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deptree_parsing_seconds",
			Help:    "Time spent parsing a single source file for imports.",
			Buckets: prometheus.DefBuckets,
		}, []string{"language"}),
		FilesScanned: factory.NewCounter(prometheus.CounterOpts{
			Name: "deptree_files_scanned_total",
			Help: "Total number of source files visited by the module enumerator.",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "deptree_parse_failures_total",
			Help: "Total number of files skipped after a ParseFailure or IoFailure.",
		}),
		GraphNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "deptree_graph_nodes",
			Help: "Number of nodes in the last built dependency graph.",
		}),
		GraphEdges: factory.NewGauge(prometheus.GaugeOpts{
			Name: "deptree_graph_edges",
			Help: "Number of edges in the last built dependency graph.",
		}),
		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "deptree_analysis_seconds",
			Help:    "Time spent in a named analysis stage.",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
	}
}

func (m *Metrics) fileScanned() {
	if m == nil {
		return
	}
	m.FilesScanned.Inc()
}

func (m *Metrics) parseFailure() {
	if m == nil {
		return
	}
	m.ParseFailures.Inc()
}

func (m *Metrics) graphSize(nodes, edges int) {
	if m == nil {
		return
	}
	m.GraphNodes.Set(float64(nodes))
	m.GraphEdges.Set(float64(edges))
}

// FileScanned records that the enumerator visited one more source file.
func (m *Metrics) FileScanned() { m.fileScanned() }

// RecordParseFailure records a recovered ParseFailure/IoFailure.
func (m *Metrics) RecordParseFailure() { m.parseFailure() }

// GraphSize records the size of the freshly built graph.
func (m *Metrics) GraphSize(nodes, edges int) { m.graphSize(nodes, edges) }
