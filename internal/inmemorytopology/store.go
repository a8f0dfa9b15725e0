package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/nodeid"
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/internal/topologystore"
)

type pair struct{ from, to string }

// Store implements the topologystore.Store interface using maps for lookups,
// slices for insertion order and a mutex for thread-safe concurrent access.
type Store struct {
	mu        sync.RWMutex
	reg       *registry.Registry
	nodes     map[string]node.Node
	nodeOrder []string
	edges     map[string]node.Edge
	edgeOrder []string
	pairs     map[pair]string // Key: ordered endpoints, Value: edge ID
}

var _ topologystore.Store = (*Store)(nil)

// New creates a new, empty in-memory topology store that validates kinds and
// payloads against reg.
func New(reg *registry.Registry) *Store {
	return &Store{
		reg:   reg,
		nodes: make(map[string]node.Node),
		edges: make(map[string]node.Edge),
		pairs: make(map[pair]string),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, n node.Node) (string, error) {
	n.ID = nodeid.OrNew(n.ID)
	if err := nodeid.Validate(n.ID); err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("node id: %v", err), Err: err}
	}
	if err := n.Validate(); err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s': %v", n.ID, err), Err: err}
	}
	if err := s.reg.CheckPayload(n.Kind, n.Payload); err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s': %v", n.ID, err), Err: err}
	}
	payload, err := normalize(n.Payload)
	if err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s': %v", n.ID, err), Err: err}
	}
	n.Payload = payload

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("duplicate node id '%s'", n.ID)}
	}
	s.nodes[n.ID] = n
	s.nodeOrder = append(s.nodeOrder, n.ID)

	ctxlog.FromContext(ctx).Debug("Node added.", "id", n.ID, "kind", n.Kind)
	return n.ID, nil
}

// AddEdge creates a data dependency from e.From to e.To.
func (s *Store) AddEdge(ctx context.Context, e node.Edge) (string, error) {
	e.ID = nodeid.OrNew(e.ID)
	if err := nodeid.Validate(e.ID); err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("edge id: %v", err), Err: err}
	}
	if err := e.Validate(); err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("edge '%s': %v", e.ID, err), Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.nodes[e.From]
	if !ok {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("edge '%s': source node '%s' does not exist", e.ID, e.From)}
	}
	to, ok := s.nodes[e.To]
	if !ok {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("edge '%s': target node '%s' does not exist", e.ID, e.To)}
	}

	if prev, ok := s.edges[e.ID]; ok {
		if prev.From == e.From && prev.To == e.To {
			return e.ID, nil
		}
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("duplicate edge id '%s'", e.ID)}
	}
	key := pair{from: e.From, to: e.To}
	if existing, ok := s.pairs[key]; ok {
		ctxlog.FromContext(ctx).Debug("Edge already present, ignoring.", "id", existing, "from", e.From, "to", e.To)
		return existing, nil
	}
	if err := s.reg.CheckEdge(from.Kind, to.Kind); err != nil {
		return "", &topologystore.ValidationError{Msg: fmt.Sprintf("edge '%s': %v", e.ID, err), Err: err}
	}

	s.edges[e.ID] = e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	s.pairs[key] = e.ID

	ctxlog.FromContext(ctx).Debug("Edge added.", "id", e.ID, "from", e.From, "to", e.To)
	return e.ID, nil
}

// UpdateNodePayload replaces the payload of an existing node.
func (s *Store) UpdateNodePayload(ctx context.Context, id string, p node.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[id]
	if !ok {
		return &topologystore.NotFoundError{Element: "node", ID: id}
	}
	spec, ok := s.reg.Kind(n.Kind)
	if !ok {
		return &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s' has unknown kind '%s'", id, n.Kind)}
	}
	if p == nil {
		return &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s': payload is required", id)}
	}
	if p.Shape() != spec.Shape {
		return &topologystore.TypeMismatchError{ID: id, Kind: n.Kind, Want: spec.Shape, Got: p.Shape()}
	}
	if err := s.reg.CheckPayload(n.Kind, p); err != nil {
		return &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s': %v", id, err), Err: err}
	}
	payload, err := normalize(p)
	if err != nil {
		return &topologystore.ValidationError{Msg: fmt.Sprintf("node '%s': %v", id, err), Err: err}
	}

	n.Payload = payload
	s.nodes[id] = n
	ctxlog.FromContext(ctx).Debug("Node payload updated.", "id", id)
	return nil
}

// RemoveNode deletes a node and every edge incident to it.
func (s *Store) RemoveNode(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return &topologystore.NotFoundError{Element: "node", ID: id}
	}
	delete(s.nodes, id)
	s.nodeOrder = slices.DeleteFunc(s.nodeOrder, func(nid string) bool { return nid == id })

	removed := 0
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(eid string) bool {
		e := s.edges[eid]
		if e.From != id && e.To != id {
			return false
		}
		delete(s.edges, eid)
		delete(s.pairs, pair{from: e.From, to: e.To})
		removed++
		return true
	})

	ctxlog.FromContext(ctx).Debug("Node removed.", "id", id, "edges_removed", removed)
	return nil
}

// RemoveEdge deletes a single edge.
func (s *Store) RemoveEdge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.edges[id]
	if !ok {
		return &topologystore.NotFoundError{Element: "edge", ID: id}
	}
	delete(s.edges, id)
	delete(s.pairs, pair{from: e.From, to: e.To})
	s.edgeOrder = slices.DeleteFunc(s.edgeOrder, func(eid string) bool { return eid == id })

	ctxlog.FromContext(ctx).Debug("Edge removed.", "id", id)
	return nil
}

// GetNode retrieves a copy of a single node by its id.
func (s *Store) GetNode(ctx context.Context, id string) (node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return node.Node{}, false
	}
	return n.Clone(), true
}

// Snapshot returns a deep copy of the graph taken under the read lock.
func (s *Store) Snapshot(ctx context.Context) *topologystore.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]node.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	edges := make([]node.Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		edges = append(edges, s.edges[id])
	}
	return topologystore.NewSnapshot(nodes, edges)
}

// normalize stores values in their canonical JSON form so snapshots and run
// outputs compare equal regardless of how the caller built them.
func normalize(p node.Payload) (node.Payload, error) {
	v, ok := p.(node.Value)
	if !ok {
		return p, nil
	}
	return node.NewValue(v.Data)
}
