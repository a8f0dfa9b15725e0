package topologystore

import (
	"sync"

	"github.com/vk/flowgrid/internal/node"
)

// Snapshot is an immutable view of a graph at one point in time. Nodes and
// Edges are in insertion order and must not be modified by callers.
type Snapshot struct {
	Nodes []node.Node
	Edges []node.Edge

	once     sync.Once
	position map[string]int
	preds    map[string][]string
	succs    map[string][]string
}

// NewSnapshot builds a snapshot over the given nodes and edges. The slices are
// taken over, not copied.
func NewSnapshot(nodes []node.Node, edges []node.Edge) *Snapshot {
	return &Snapshot{Nodes: nodes, Edges: edges}
}

func (s *Snapshot) index() {
	s.once.Do(func() {
		s.position = make(map[string]int, len(s.Nodes))
		for i, n := range s.Nodes {
			s.position[n.ID] = i
		}
		s.preds = make(map[string][]string)
		s.succs = make(map[string][]string)
		for _, e := range s.Edges {
			s.preds[e.To] = append(s.preds[e.To], e.From)
			s.succs[e.From] = append(s.succs[e.From], e.To)
		}
	})
}

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (node.Node, bool) {
	s.index()
	i, ok := s.position[id]
	if !ok {
		return node.Node{}, false
	}
	return s.Nodes[i], true
}

// Position returns the insertion index of a node, or -1 if it is absent.
func (s *Snapshot) Position(id string) int {
	s.index()
	if i, ok := s.position[id]; ok {
		return i
	}
	return -1
}

// Predecessors returns the ids of the nodes with an edge into id, in edge
// insertion order.
func (s *Snapshot) Predecessors(id string) []string {
	s.index()
	return s.preds[id]
}

// Successors returns the ids of the nodes id has an edge to, in edge
// insertion order.
func (s *Snapshot) Successors(id string) []string {
	s.index()
	return s.succs[id]
}

// NodesOfKind returns the ids of every node of kind k, in insertion order.
func (s *Snapshot) NodesOfKind(k node.Kind) []string {
	var ids []string
	for _, n := range s.Nodes {
		if n.Kind == k {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
