// Package metrics exposes pipeline run statistics in the Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/node"
)

// Collector holds all Prometheus metrics for the application. It implements
// executor.Observer so a runner can report to it directly.
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	Runs         *prometheus.CounterVec
	RunDuration  prometheus.Histogram
	Nodes        *prometheus.CounterVec
	NodeDuration *prometheus.HistogramVec
}

var _ executor.Observer = (*Collector)(nil)

// NewCollector creates a new metrics collector with the given namespace. Each
// collector owns its registry, so several may coexist in one process.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	nodes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_processed_total",
			Help:      "Total number of nodes processed by kind and final status",
		},
		[]string{"kind", "status"},
	)

	nodeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "node_duration_seconds",
			Help:      "Node processing duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	registry.MustRegister(runs, runDuration, nodes, nodeDuration)

	return &Collector{
		registry:     registry,
		Runs:         runs,
		RunDuration:  runDuration,
		Nodes:        nodes,
		NodeDuration: nodeDuration,
	}
}

// NodeFinished records one node leaving the running state. Skipped nodes
// never ran and are counted without a duration.
func (c *Collector) NodeFinished(kind node.Kind, status node.Status, elapsed time.Duration) {
	c.Nodes.WithLabelValues(string(kind), status.String()).Inc()
	if status != node.StatusSkipped {
		c.NodeDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	}
}

// RunFinished records one completed run.
func (c *Collector) RunFinished(outcome executor.Outcome, elapsed time.Duration) {
	c.Runs.WithLabelValues(string(outcome)).Inc()
	c.RunDuration.Observe(elapsed.Seconds())
}

// Handler serves the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
