package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/vk/flowgrid/internal/evaluator"
	"github.com/vk/flowgrid/internal/node"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// KindSpec describes how nodes of one kind take part in a pipeline.
type KindSpec struct {
	Kind node.Kind
	// Shape is the payload shape nodes of this kind must carry.
	Shape node.Shape
	// AcceptsInput is false for kinds that may not be the target of an edge.
	AcceptsInput bool
	// ProducesOutput is false for kinds that may not be the source of an edge.
	ProducesOutput bool
	// Evaluates marks kinds whose code is run by an evaluator.
	Evaluates bool
	// WritesBack marks kinds whose received value is written to the node's
	// payload and reported as a run result.
	WritesBack bool
}

// Registry holds all the registered kinds and evaluators for a single
// application instance.
type Registry struct {
	mu              sync.RWMutex
	kinds           map[node.Kind]KindSpec
	evaluators      map[string]evaluator.Evaluator
	defaultLanguage string
}

// New creates a Registry and registers the given modules in order.
func New(modules ...Module) *Registry {
	r := &Registry{
		kinds:      make(map[node.Kind]KindSpec),
		evaluators: make(map[string]evaluator.Evaluator),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterKind adds a node kind. Registering the same kind twice is a
// programmer error and panics.
func (r *Registry) RegisterKind(spec KindSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[spec.Kind]; exists {
		panic(fmt.Sprintf("node kind '%s' already registered", spec.Kind))
	}
	slog.Debug("Registering node kind.", "kind", spec.Kind, "shape", spec.Shape.String())
	r.kinds[spec.Kind] = spec
}

// RegisterEvaluator adds the evaluator for a transform language. The first
// language registered becomes the default until SetDefaultLanguage is called.
func (r *Registry) RegisterEvaluator(language string, ev evaluator.Evaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.evaluators[language]; exists {
		panic(fmt.Sprintf("evaluator for language '%s' already registered", language))
	}
	slog.Debug("Registering transform evaluator.", "language", language)
	r.evaluators[language] = ev
	if r.defaultLanguage == "" {
		r.defaultLanguage = language
	}
}

// SetDefaultLanguage selects the language used by transforms that do not name one.
func (r *Registry) SetDefaultLanguage(language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultLanguage = language
}

// DefaultLanguage returns the language used by transforms that do not name one.
func (r *Registry) DefaultLanguage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultLanguage
}

// Kind returns the spec for k.
func (r *Registry) Kind(k node.Kind) (KindSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.kinds[k]
	return spec, ok
}

// Kinds returns every registered kind, sorted by name.
func (r *Registry) Kinds() []node.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]node.Kind, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Languages returns every registered transform language, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.evaluators))
	for l := range r.evaluators {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// Evaluator returns the evaluator for language, falling back to the default
// language when language is empty.
func (r *Registry) Evaluator(language string) (evaluator.Evaluator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if language == "" {
		language = r.defaultLanguage
	}
	ev, ok := r.evaluators[language]
	if !ok {
		return nil, fmt.Errorf("no evaluator registered for language '%s'", language)
	}
	return ev, nil
}
