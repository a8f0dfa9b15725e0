// Package inmemorystore provides a thread-safe, in-memory implementation
// of the nodestore.Store interface. One store holds the state of one run.
package inmemorystore
