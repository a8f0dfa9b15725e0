package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
	"gopkg.in/yaml.v3"
)

// document is the JSON and YAML wire form of a pipeline:
//
//	{"nodes": [{"id", "kind", "payload", "language"}], "edges": [{"id", "from", "to"}]}
//
// For code-shaped kinds payload is the source text.
type document struct {
	Nodes []documentNode `json:"nodes" yaml:"nodes"`
	Edges []documentEdge `json:"edges" yaml:"edges"`
}

type documentNode struct {
	ID       string `json:"id" yaml:"id"`
	Kind     string `json:"kind" yaml:"kind"`
	Payload  any    `json:"payload" yaml:"payload"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

type documentEdge struct {
	ID   string `json:"id" yaml:"id"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// DocumentLoader loads pipelines written as JSON or YAML documents.
type DocumentLoader struct{}

// NewDocumentLoader creates a loader for .json, .yaml and .yml files.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// Load reads and decodes the document at path. The format follows the
// file extension; anything that is not .json is read as YAML.
func (l *DocumentLoader) Load(ctx context.Context, path string) (*Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file %s: %w", path, err)
	}

	var doc document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode pipeline file %s: %w", path, err)
	}

	p, err := doc.pipeline()
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline file %s: %w", path, err)
	}
	logger.Debug("Pipeline document loaded.", "path", path, "nodes", len(p.Nodes), "edges", len(p.Edges))
	return p, nil
}

func (d *document) pipeline() (*Pipeline, error) {
	p := &Pipeline{}
	for i, dn := range d.Nodes {
		spec := &NodeSpec{ID: dn.ID, Kind: node.Kind(dn.Kind), Language: dn.Language}
		if spec.Kind == node.KindTransform {
			code, ok := dn.Payload.(string)
			if !ok {
				return nil, fmt.Errorf("nodes[%d] (%s): transform payload must be a string of code", i, dn.ID)
			}
			spec.Code = code
		} else {
			spec.Value = dn.Payload
		}
		p.Nodes = append(p.Nodes, spec)
	}
	for _, de := range d.Edges {
		p.Edges = append(p.Edges, &EdgeSpec{ID: de.ID, From: de.From, To: de.To})
	}
	return p, nil
}
