package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
)

// CheckPayload reports whether p is an acceptable payload for a node of kind k.
// Code payloads must name a registered language, or none at all.
func (r *Registry) CheckPayload(k node.Kind, p node.Payload) error {
	spec, ok := r.Kind(k)
	if !ok {
		return fmt.Errorf("unknown node kind '%s'", k)
	}
	if p == nil {
		return fmt.Errorf("kind '%s' requires a %s payload, got none", k, spec.Shape)
	}
	if p.Shape() != spec.Shape {
		return fmt.Errorf("kind '%s' requires a %s payload, got %s", k, spec.Shape, p.Shape())
	}
	if code, ok := p.(node.Code); ok && code.Language != "" {
		if _, err := r.Evaluator(code.Language); err != nil {
			return err
		}
	}
	return nil
}

// CheckEdge reports whether an edge may connect a node of kind from to a node
// of kind to.
func (r *Registry) CheckEdge(from, to node.Kind) error {
	fromSpec, ok := r.Kind(from)
	if !ok {
		return fmt.Errorf("unknown node kind '%s'", from)
	}
	toSpec, ok := r.Kind(to)
	if !ok {
		return fmt.Errorf("unknown node kind '%s'", to)
	}
	if !fromSpec.ProducesOutput {
		return fmt.Errorf("%s nodes have no downstream consumers", from)
	}
	if !toSpec.AcceptsInput {
		return fmt.Errorf("%s nodes do not accept inbound edges", to)
	}
	return nil
}

// ValidateRegistry checks that the registry can run a pipeline: at least one
// kind is registered, every evaluating kind has a default evaluator to fall
// back on, and the default language resolves.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	kinds := r.Kinds()
	if len(kinds) == 0 {
		errs = append(errs, "no node kinds registered")
	}

	for _, k := range kinds {
		spec, _ := r.Kind(k)
		if spec.Evaluates && spec.Shape != node.ShapeCode {
			errs = append(errs, fmt.Sprintf("kind '%s': evaluating kinds must carry a code payload", k))
		}
		if spec.Evaluates {
			if _, err := r.Evaluator(""); err != nil {
				errs = append(errs, fmt.Sprintf("kind '%s': %v", k, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validation passed.", "kinds", kinds, "languages", r.Languages(), "default_language", r.DefaultLanguage())
	return nil
}
