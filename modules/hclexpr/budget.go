package hclexpr

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// MaxIterations bounds the estimated work of one evaluation. The estimate is
// n^(d+1), where n counts every value in the input and d is the deepest
// nesting of for expressions.
const MaxIterations = 1 << 22

// forDepth returns how deeply for expressions nest in expr. A for expression
// inside another one's collection does not nest; one inside its key, value
// or condition does.
func forDepth(expr hclsyntax.Expression) int {
	w := &forDepthWalker{}
	hclsyntax.Walk(expr, w)
	return w.max
}

type forDepthWalker struct {
	depth, max int
}

// The key, value and condition of a for expression are the only children
// wrapped in a ChildScope.
func (w *forDepthWalker) Enter(n hclsyntax.Node) hcl.Diagnostics {
	if _, ok := n.(hclsyntax.ChildScope); ok {
		w.depth++
		w.max = max(w.max, w.depth)
	}
	return nil
}

func (w *forDepthWalker) Exit(n hclsyntax.Node) hcl.Diagnostics {
	if _, ok := n.(hclsyntax.ChildScope); ok {
		w.depth--
	}
	return nil
}

// countValues counts v and every value nested in it.
func countValues(v any) int {
	n := 1
	switch t := v.(type) {
	case map[string]any:
		for _, e := range t {
			n += countValues(e)
		}
	case []any:
		for _, e := range t {
			n += countValues(e)
		}
	}
	return n
}

// checkBudget rejects an evaluation whose estimated work exceeds
// MaxIterations.
func checkBudget(expr hclsyntax.Expression, input any) error {
	n := countValues(input)
	depth := forDepth(expr)

	cost := 1
	for i := 0; i <= depth; i++ {
		cost *= n
		if cost > MaxIterations {
			return fmt.Errorf("transform exceeds the iteration budget: %d input values nested %d for expressions deep", n, depth)
		}
	}
	return nil
}
