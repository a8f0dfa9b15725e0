package scheduler

import (
	"container/heap"
	"context"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/topologystore"
)

// Order returns every node id of snap in an order where each node comes after
// all of its predecessors. Ties are broken by insertion order.
func Order(ctx context.Context, snap *topologystore.Snapshot) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	inDegree := make([]int, len(snap.Nodes))
	for _, e := range snap.Edges {
		if i := snap.Position(e.To); i >= 0 {
			inDegree[i]++
		}
	}

	ready := &positionQueue{}
	for i, d := range inDegree {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]string, 0, len(snap.Nodes))
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		id := snap.Nodes[i].ID
		order = append(order, id)
		for _, succ := range snap.Successors(id) {
			j := snap.Position(succ)
			if j < 0 {
				continue
			}
			inDegree[j]--
			if inDegree[j] == 0 {
				heap.Push(ready, j)
			}
		}
	}

	if len(order) < len(snap.Nodes) {
		var stuck []string
		for i, d := range inDegree {
			if d > 0 {
				stuck = append(stuck, snap.Nodes[i].ID)
			}
		}
		logger.Debug("Graph has a cycle.", "nodes", stuck)
		return nil, &CycleError{Nodes: stuck}
	}

	logger.Debug("Execution order resolved.", "order", order)
	return order, nil
}

// Component is one weakly connected part of a graph.
type Component struct {
	// Nodes, Sources and Sinks are in insertion order.
	Nodes   []string
	Sources []string
	Sinks   []string
}

// Components partitions snap into weakly connected components, ordered by the
// insertion position of their first node.
func Components(snap *topologystore.Snapshot) []Component {
	parent := make([]int, len(snap.Nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, e := range snap.Edges {
		a, b := snap.Position(e.From), snap.Position(e.To)
		if a < 0 || b < 0 {
			continue
		}
		ra, rb := find(a), find(b)
		// The smaller root wins so a component is keyed by its first node.
		if ra < rb {
			parent[rb] = ra
		} else if rb < ra {
			parent[ra] = rb
		}
	}

	index := make(map[int]int)
	var comps []Component
	for i, n := range snap.Nodes {
		root := find(i)
		ci, ok := index[root]
		if !ok {
			ci = len(comps)
			index[root] = ci
			comps = append(comps, Component{})
		}
		c := &comps[ci]
		c.Nodes = append(c.Nodes, n.ID)
		switch n.Kind {
		case node.KindSource:
			c.Sources = append(c.Sources, n.ID)
		case node.KindSink:
			c.Sinks = append(c.Sinks, n.ID)
		}
	}
	return comps
}

// positionQueue is a min-heap of insertion positions.
type positionQueue []int

func (q positionQueue) Len() int           { return len(q) }
func (q positionQueue) Less(i, j int) bool { return q[i] < q[j] }
func (q positionQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *positionQueue) Push(x any)        { *q = append(*q, x.(int)) }
func (q *positionQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}
