// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. Nodes and edges keep their insertion
// order, which the sequencer relies on to break ties deterministically.
package inmemorytopology
