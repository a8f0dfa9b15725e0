package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/flowgrid/internal/inmemorytopology"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/topologystore"
	"github.com/vk/flowgrid/modules/core"
	"github.com/vk/flowgrid/modules/javascript"
)

const jsonPipeline = `{
  "nodes": [
    {"id": "input", "kind": "source", "payload": {"x": 2}},
    {"id": "double", "kind": "transform", "payload": "return {y: input.x * 2};", "language": "js"},
    {"id": "output", "kind": "sink"}
  ],
  "edges": [
    {"id": "e1", "from": "input", "to": "double"},
    {"id": "e2", "from": "double", "to": "output"}
  ]
}`

const yamlPipeline = `
nodes:
  - id: input
    kind: source
    payload:
      x: 2
  - id: double
    kind: transform
    payload: "return {y: input.x * 2};"
    language: js
  - id: output
    kind: sink
edges:
  - {id: e1, from: input, to: double}
  - {id: e2, from: double, to: output}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func expectedPipeline(x any) *Pipeline {
	return &Pipeline{
		Nodes: []*NodeSpec{
			{ID: "input", Kind: node.KindSource, Value: map[string]any{"x": x}},
			{ID: "double", Kind: node.KindTransform, Code: "return {y: input.x * 2};", Language: "js"},
			{ID: "output", Kind: node.KindSink},
		},
		Edges: []*EdgeSpec{
			{ID: "e1", From: "input", To: "double"},
			{ID: "e2", From: "double", To: "output"},
		},
	}
}

func TestDocumentLoader(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		content  string
		expected *Pipeline
	}{
		{name: "json", file: "pipeline.json", content: jsonPipeline, expected: expectedPipeline(2.0)},
		{name: "yaml", file: "pipeline.yaml", content: yamlPipeline, expected: expectedPipeline(2)},
		{name: "yml", file: "pipeline.yml", content: yamlPipeline, expected: expectedPipeline(2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewDocumentLoader().Load(context.Background(), writeFile(t, tc.file, tc.content))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, p)
		})
	}
}

func TestDocumentLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "malformed json", file: "p.json", content: `{"nodes": [`, wantErr: "failed to decode"},
		{name: "unknown json field", file: "p.json", content: `{"nodez": []}`, wantErr: "unknown field"},
		{name: "unknown yaml field", file: "p.yaml", content: "nodez: []\n", wantErr: "failed to decode"},
		{
			name:    "transform payload is not code",
			file:    "p.json",
			content: `{"nodes": [{"id": "t", "kind": "transform", "payload": {"a": 1}}]}`,
			wantErr: "transform payload must be a string of code",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDocumentLoader().Load(context.Background(), writeFile(t, tc.file, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	_, err := NewDocumentLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

type stubLoader struct{ name string }

func (s stubLoader) Load(context.Context, string) (*Pipeline, error) {
	return &Pipeline{Nodes: []*NodeSpec{{ID: s.name}}}, nil
}

func TestLoaders_DispatchByExtension(t *testing.T) {
	loaders := Loaders{".json": stubLoader{"json"}, ".hcl": stubLoader{"hcl"}}

	p, err := loaders.Load(context.Background(), "a/b/pipeline.JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", p.Nodes[0].ID)

	_, err = loaders.Load(context.Background(), "pipeline.toml")
	assert.EqualError(t, err, "unsupported pipeline file 'pipeline.toml': expected one of .hcl, .json")

	loaders[""] = stubLoader{"dir"}
	p, err = loaders.Load(context.Background(), "pipelines")
	require.NoError(t, err)
	assert.Equal(t, "dir", p.Nodes[0].ID)

	dottedDir := filepath.Join(t.TempDir(), "pipelines.d")
	require.NoError(t, os.Mkdir(dottedDir, 0o755))
	p, err = loaders.Load(context.Background(), dottedDir)
	require.NoError(t, err)
	assert.Equal(t, "dir", p.Nodes[0].ID)
}

func TestLoaders_UnknownExtensionIsNotADirectory(t *testing.T) {
	loaders := Loaders{"": stubLoader{"dir"}, ".hcl": stubLoader{"hcl"}}

	for _, name := range []string{"p.toml", "notes.txt"} {
		path := writeFile(t, name, "")
		_, err := loaders.Load(context.Background(), path)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "unsupported pipeline file")
		assert.Contains(t, err.Error(), "expected one of .hcl")
	}
}

func newRegistry() *registry.Registry {
	return registry.New(&core.Module{}, &javascript.Module{})
}

func TestApply(t *testing.T) {
	reg := newRegistry()
	store := inmemorytopology.New(reg)
	ctx := context.Background()

	require.NoError(t, Apply(ctx, store, reg, expectedPipeline(2)))

	snap := store.Snapshot(ctx)
	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, []string{"input", "double", "output"}, []string{snap.Nodes[0].ID, snap.Nodes[1].ID, snap.Nodes[2].ID})
	assert.Equal(t, node.Code{Source: "return {y: input.x * 2};", Language: "js"}, snap.Nodes[1].Payload)
	assert.Len(t, snap.Edges, 2)
}

func TestApply_RejectsLikeTheStore(t *testing.T) {
	reg := newRegistry()
	ctx := context.Background()

	p := expectedPipeline(2)
	p.Edges = append(p.Edges, &EdgeSpec{From: "double", To: "input"})
	err := Apply(ctx, inmemorytopology.New(reg), reg, p)
	require.ErrorIs(t, err, topologystore.ErrValidation)
	assert.Contains(t, err.Error(), "source nodes do not accept inbound edges")

	p = expectedPipeline(2)
	p.Nodes[0].Code = "return 1;"
	err = Apply(ctx, inmemorytopology.New(reg), reg, p)
	require.ErrorIs(t, err, topologystore.ErrValidation)
	assert.Contains(t, err.Error(), "source nodes take a value, not code")
}
