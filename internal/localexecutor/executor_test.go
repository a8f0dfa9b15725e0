package localexecutor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgrid/internal/executor"
	"github.com/vk/flowgrid/internal/inmemorytopology"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/scheduler"
	"github.com/vk/flowgrid/modules/core"
	"github.com/vk/flowgrid/modules/hclexpr"
	"github.com/vk/flowgrid/modules/javascript"
)

type fixture struct {
	store *inmemorytopology.Store
	exec  *Executor
	obs   *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := registry.New(
		&core.Module{},
		&javascript.Module{Timeout: 100 * time.Millisecond},
		&hclexpr.Module{Timeout: time.Second},
	)
	store := inmemorytopology.New(reg)
	obs := &recordingObserver{}
	return &fixture{store: store, exec: New(reg, store, WithObserver(obs)), obs: obs}
}

func (f *fixture) source(t *testing.T, id string, v any) {
	t.Helper()
	_, err := f.store.AddNode(context.Background(), node.Node{ID: id, Kind: node.KindSource, Payload: node.Value{Data: v}})
	require.NoError(t, err)
}

func (f *fixture) transform(t *testing.T, id, lang, code string) {
	t.Helper()
	_, err := f.store.AddNode(context.Background(), node.Node{ID: id, Kind: node.KindTransform, Payload: node.Code{Source: code, Language: lang}})
	require.NoError(t, err)
}

func (f *fixture) sink(t *testing.T, id string) {
	t.Helper()
	_, err := f.store.AddNode(context.Background(), node.Node{ID: id, Kind: node.KindSink, Payload: node.Value{}})
	require.NoError(t, err)
}

func (f *fixture) edge(t *testing.T, from, to string) {
	t.Helper()
	_, err := f.store.AddEdge(context.Background(), node.Edge{From: from, To: to})
	require.NoError(t, err)
}

func (f *fixture) run(t *testing.T, ctx context.Context) *executor.Result {
	t.Helper()
	res, err := f.exec.Run(ctx, f.store.Snapshot(ctx))
	require.NoError(t, err)
	return res
}

func (f *fixture) sinkValue(t *testing.T, id string) any {
	t.Helper()
	n, ok := f.store.GetNode(context.Background(), id)
	require.True(t, ok)
	return n.Payload.(node.Value).Data
}

// chain builds input -> double -> output.
func (f *fixture) chain(t *testing.T, code string) {
	f.source(t, "input", map[string]any{"x": 2})
	f.transform(t, "double", "", code)
	f.sink(t, "output")
	f.edge(t, "input", "double")
	f.edge(t, "double", "output")
}

func TestRun_SingleChain(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "return {y: input.x * 2};")

	res := f.run(t, context.Background())

	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"y": 4.0}, res.Value)
	assert.Equal(t, map[string]any{"y": 4.0}, f.sinkValue(t, "output"))

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"outcome":"success","value":{"y":4}}`, string(raw))

	require.Len(t, res.Trace, 3)
	for _, st := range res.Trace {
		assert.Equal(t, node.StatusCompleted, st.Status, "node %s", st.ID)
	}
}

func TestRun_ThrowingTransformLeavesSinkUnchanged(t *testing.T) {
	f := newFixture(t)
	f.chain(t, `throw new Error("bad input");`)

	res := f.run(t, context.Background())

	require.False(t, res.OK())
	assert.Equal(t, &executor.Failure{Stage: "double", Message: "bad input"}, res.Failure)
	assert.Nil(t, f.sinkValue(t, "output"))

	statuses := map[string]node.Status{}
	for _, st := range res.Trace {
		statuses[st.ID] = st.Status
	}
	assert.Equal(t, map[string]node.Status{
		"input":  node.StatusCompleted,
		"double": node.StatusFailed,
		"output": node.StatusSkipped,
	}, statuses)
	assert.Equal(t, map[string]any{"x": 2.0}, res.Trace[0].Output, "earlier results stay in the trace")
}

func TestRun_Timeout(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "while (true) {}")

	res := f.run(t, context.Background())

	require.False(t, res.OK())
	assert.Equal(t, "double", res.Failure.Stage)
	assert.Contains(t, res.Failure.Message, "timeout")
}

func TestRun_ParseError(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "return {y: ")

	res := f.run(t, context.Background())

	require.False(t, res.OK())
	assert.Equal(t, "double", res.Failure.Stage)
	assert.Contains(t, res.Failure.Message, "parse error")
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "return {y: input.x * 2};")
	snap := f.store.Snapshot(context.Background())

	first, err := f.exec.Run(context.Background(), snap)
	require.NoError(t, err)
	second, err := f.exec.Run(context.Background(), snap)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.JSONEq(t, string(a), string(b))
}

func TestRun_IndependentChainsKeyedBySink(t *testing.T) {
	f := newFixture(t)
	f.source(t, "a", 1)
	f.source(t, "b", 10)
	f.transform(t, "inc", "", "return input + 1;")
	f.transform(t, "tenfold", "hcl", "input * 10")
	f.sink(t, "outA")
	f.sink(t, "outB")
	f.edge(t, "a", "inc")
	f.edge(t, "inc", "outA")
	f.edge(t, "b", "tenfold")
	f.edge(t, "tenfold", "outB")

	res := f.run(t, context.Background())

	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"outA": 2.0, "outB": 100.0}, res.Value)
}

func TestRun_AggregatesSeveralPredecessors(t *testing.T) {
	f := newFixture(t)
	f.source(t, "left", 3)
	f.source(t, "right", 4)
	f.transform(t, "sum", "", "return input.left + input.right;")
	f.sink(t, "out")
	f.edge(t, "left", "sum")
	f.edge(t, "right", "sum")
	f.edge(t, "sum", "out")

	res := f.run(t, context.Background())

	require.True(t, res.OK())
	assert.Equal(t, 7.0, res.Value)
}

func TestRun_TransformWithoutInputsGetsNull(t *testing.T) {
	f := newFixture(t)
	f.transform(t, "check", "", "return input === null;")

	res := f.run(t, context.Background())

	require.True(t, res.OK())
	assert.Equal(t, true, res.Value, "with no sinks the last node's value is returned")
}

func TestRun_EmptyGraph(t *testing.T) {
	f := newFixture(t)

	res := f.run(t, context.Background())

	require.True(t, res.OK())
	assert.Nil(t, res.Value)
	assert.Empty(t, res.Trace)
}

func TestRun_UnconnectedSinkIsNotReported(t *testing.T) {
	f := newFixture(t)
	f.source(t, "in", "hello")
	f.sink(t, "out")
	f.sink(t, "lonely")
	f.edge(t, "in", "out")

	res := f.run(t, context.Background())

	require.True(t, res.OK())
	assert.Equal(t, "hello", res.Value)
	assert.Nil(t, f.sinkValue(t, "lonely"))
}

func TestRun_EarlierSinkWritesAreKept(t *testing.T) {
	f := newFixture(t)
	f.source(t, "src1", 1)
	f.sink(t, "sink1")
	f.source(t, "src2", 2)
	f.transform(t, "bad", "", `throw new Error("nope");`)
	f.sink(t, "sink2")
	f.edge(t, "src1", "sink1")
	f.edge(t, "src2", "bad")
	f.edge(t, "bad", "sink2")

	res := f.run(t, context.Background())

	require.False(t, res.OK())
	assert.Equal(t, "bad", res.Failure.Stage)
	assert.Equal(t, 1.0, f.sinkValue(t, "sink1"))
	assert.Nil(t, f.sinkValue(t, "sink2"))
}

func TestRun_Cycle(t *testing.T) {
	f := newFixture(t)
	f.source(t, "in", 1)
	f.transform(t, "a", "", "return input;")
	f.transform(t, "b", "", "return input;")
	f.sink(t, "out")
	f.edge(t, "in", "a")
	f.edge(t, "a", "b")
	f.edge(t, "b", "a")
	f.edge(t, "b", "out")

	res, err := f.exec.Run(context.Background(), f.store.Snapshot(context.Background()))

	require.ErrorIs(t, err, scheduler.ErrCycleDetected)
	var cycleErr *scheduler.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"a", "b", "out"}, cycleErr.Nodes)

	require.NotNil(t, res)
	assert.False(t, res.OK())
	assert.Equal(t, "a", res.Failure.Stage)
	assert.Nil(t, f.sinkValue(t, "out"), "nothing runs when the graph has a cycle")
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "return input;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.run(t, ctx)

	require.False(t, res.OK())
	assert.Equal(t, &executor.Failure{Stage: "input", Message: MsgCancelled}, res.Failure)
	assert.Nil(t, f.sinkValue(t, "output"))
}

func TestRun_ReportsToObserver(t *testing.T) {
	f := newFixture(t)
	f.chain(t, "return input;")

	f.run(t, context.Background())

	f.obs.mu.Lock()
	defer f.obs.mu.Unlock()
	assert.Equal(t, []executor.Outcome{executor.OutcomeSuccess}, f.obs.runs)
	assert.Equal(t, 3, f.obs.nodes[node.StatusCompleted])
}

type recordingObserver struct {
	mu    sync.Mutex
	runs  []executor.Outcome
	nodes map[node.Status]int
}

func (o *recordingObserver) NodeFinished(_ node.Kind, status node.Status, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.nodes == nil {
		o.nodes = make(map[node.Status]int)
	}
	o.nodes[status]++
}

func (o *recordingObserver) RunFinished(outcome executor.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, outcome)
}
