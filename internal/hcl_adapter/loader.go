package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowgrid/internal/config"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/fsutil"
	"github.com/vk/flowgrid/internal/node"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a single .hcl file, or every .hcl file below a directory in
// lexical path order, and merges their blocks into one pipeline.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	files, err := l.findHCLFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	p := &config.Pipeline{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if diags := l.decodeFile(ctx, hclFile.Body, p); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
	}

	logger.Debug("HCL loading complete.", "nodes", len(p.Nodes), "edges", len(p.Edges))
	return p, nil
}

// decodeFile appends the blocks of one file to p in source order.
func (l *Loader) decodeFile(ctx context.Context, body hcl.Body, p *config.Pipeline) hcl.Diagnostics {
	content, diags := body.Content(fileSchema)
	if diags.HasErrors() {
		return diags
	}

	// Declaration order is insertion order.
	blocks := content.Blocks
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].DefRange.Start.Byte < blocks[j].DefRange.Start.Byte
	})

	for _, block := range blocks {
		id := block.Labels[0]
		switch block.Type {
		case "source", "sink":
			var b valueBody
			if d := gohcl.DecodeBody(block.Body, nil, &b); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			v, d := literalValue(ctx, b.Value, block.Type+"."+id+".value")
			if d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			p.Nodes = append(p.Nodes, &config.NodeSpec{ID: id, Kind: node.Kind(block.Type), Value: v})

		case "transform":
			var b transformBody
			if d := gohcl.DecodeBody(block.Body, nil, &b); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			p.Nodes = append(p.Nodes, &config.NodeSpec{ID: id, Kind: node.KindTransform, Code: b.Code, Language: b.Language})

		case "edge":
			var b edgeBody
			if d := gohcl.DecodeBody(block.Body, nil, &b); d.HasErrors() {
				diags = append(diags, d...)
				continue
			}
			p.Edges = append(p.Edges, &config.EdgeSpec{ID: id, From: b.From, To: b.To})
		}
	}
	return diags
}

// findHCLFiles returns path itself when it is a file, or every .hcl file
// below it when it is a directory.
func (l *Loader) findHCLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %s", path)
	}
	return files, nil
}
