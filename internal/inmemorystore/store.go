package inmemorystore

import (
	"context"
	"sync"

	"github.com/vk/flowgrid/internal/node"
	"github.com/vk/flowgrid/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// Each kind of state lives in its own sync.Map keyed by node id. Keys are
// written once or twice per run and read many times, the access pattern
// sync.Map is built for.
type Store struct {
	states  sync.Map // Key: node ID, Value: node.Status
	outputs sync.Map // Key: node ID, Value: any
	errors  sync.Map // Key: node ID, Value: error
}

var _ nodestore.Store = (*Store)(nil)

// New creates a new, empty in-memory run state store.
func New() *Store {
	return &Store{}
}

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id string, status node.Status) error {
	s.states.Store(id, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(ctx context.Context, id string) (node.Status, error) {
	status, ok := s.states.Load(id)
	if !ok {
		return node.StatusPending, nil
	}
	return status.(node.Status), nil
}

// SetOutput records the output of a node.
func (s *Store) SetOutput(ctx context.Context, id string, output any) error {
	s.outputs.Store(id, output)
	return nil
}

// GetOutput retrieves the recorded output of a node.
func (s *Store) GetOutput(ctx context.Context, id string) (any, bool, error) {
	output, ok := s.outputs.Load(id)
	return output, ok, nil
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	s.errors.Store(id, nodeErr)
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id string) (error, error) {
	err, ok := s.errors.Load(id)
	if !ok {
		return nil, nil
	}
	return err.(error), nil
}
