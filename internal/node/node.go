// Package node defines the vertices and edges of a pipeline graph together
// with the payloads they carry.
package node

// Kind is the tag that decides how a node participates in a pipeline run.
// The set of known kinds lives in the registry; the constants below are the
// ones every build ships with.
type Kind string

const (
	// KindSource holds an initial JSON value and feeds it downstream.
	KindSource Kind = "source"
	// KindSink receives a computed value and has no downstream consumers.
	KindSink Kind = "sink"
	// KindTransform holds code that maps its upstream value to a new one.
	KindTransform Kind = "transform"
)

// Node is a single vertex of a pipeline graph.
type Node struct {
	// ID is unique within a graph. The store fills it in when left empty.
	ID string `validate:"required,max=128"`
	// Kind selects the node's role, see the Kind constants.
	Kind Kind `validate:"required"`
	// Payload is a Value for source and sink nodes and Code for transforms.
	Payload Payload `validate:"required"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	if n.Payload != nil {
		n.Payload = n.Payload.clone()
	}
	return n
}

// Edge is a directed data dependency: To consumes the value produced by From.
type Edge struct {
	ID   string `validate:"required,max=128"`
	From string `validate:"required"`
	To   string `validate:"required,nefield=From"`
}
