// Package scheduler decides the order in which the nodes of a pipeline run.
//
// # How It Works
//
// Order runs Kahn's algorithm over a topologystore.Snapshot. Whenever more
// than one node is ready, the one inserted into the graph first runs first,
// so the same snapshot always yields the same order. A graph with a cycle has
// no order; the nodes that could never become ready are reported in a
// CycleError.
//
// Components splits a snapshot into weakly connected subgraphs and lists the
// sources and sinks of each, which tells the editor which source feeds which
// sink.
package scheduler
