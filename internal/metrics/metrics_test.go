package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/node"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector("flowgrid")

	c.NodeFinished(node.KindTransform, node.StatusCompleted, 10*time.Millisecond)
	c.NodeFinished(node.KindTransform, node.StatusFailed, 5*time.Millisecond)
	c.NodeFinished(node.KindSink, node.StatusSkipped, 0)
	c.RunFinished(executor.OutcomeFailure, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Nodes.WithLabelValues("transform", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Nodes.WithLabelValues("transform", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Nodes.WithLabelValues("sink", "skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Runs.WithLabelValues("failure")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Runs.WithLabelValues("success")))
}

func TestCollector_IndependentInstances(t *testing.T) {
	a := NewCollector("flowgrid")
	b := NewCollector("flowgrid")

	a.RunFinished(executor.OutcomeSuccess, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Runs.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Runs.WithLabelValues("success")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("flowgrid")
	c.RunFinished(executor.OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `flowgrid_pipeline_runs_total{outcome="success"} 1`)
}
