package app

import (
	"context"
	"fmt"

	"github.com/vk/flowgrid/internal/config"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/hcl_adapter"
)

// defaultLoaders maps every supported pipeline file extension to its loader.
// Directories fall through to the HCL loader.
func defaultLoaders() config.Loaders {
	hclLoader := hcl_adapter.NewLoader()
	docLoader := config.NewDocumentLoader()
	return config.Loaders{
		"":      hclLoader,
		".hcl":  hclLoader,
		".json": docLoader,
		".yaml": docLoader,
		".yml":  docLoader,
	}
}

// loadPipeline reads the configured pipeline file.
func (a *App) loadPipeline(ctx context.Context) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading pipeline...", "path", a.config.PipelinePath)

	p, err := a.loader.Load(ctx, a.config.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}

	logger.Info("Pipeline loaded successfully.", "nodes", len(p.Nodes), "edges", len(p.Edges))
	return p, nil
}
