// Package graph provides the view of a pipeline that a single run works
// against, combining the immutable structure of the run's snapshot with the
// run's mutable node state.
//
// # Architecture: The Facade Pattern
//
// The Graph is a thin facade over two parts:
//
//	┌─────────────────────────────────────┐
//	│           Graph Facade              │
//	│  (one API for the runner to query   │
//	│   structure and record progress)    │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Snapshot  │  │ Node State │
//	  │ (Structure)│  │  (Status)  │
//	  └────────────┘  └────────────┘
//
// **Snapshot** (topologystore.Snapshot) is frozen when the run starts, so
// edits made to the graph store during the run are invisible to it.
//
// **Node State** (nodestore.Store) is created per run and holds each node's
// status, output and error. It becomes the run's trace.
//
// # Thread-Safety
//
// All Graph methods are thread-safe; the snapshot is read-only and the node
// store is safe for concurrent use.
package graph
