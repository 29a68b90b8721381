package snapshot

import (
	"context"
	"sync"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// MemoryStore keeps encoded snapshots in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	trees map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trees: make(map[string][]byte)}
}

// Save stores tree under id.
func (s *MemoryStore) Save(_ context.Context, id string, tree *vdom.VNode) error {
	if err := validID(id); err != nil {
		return err
	}
	b, err := encode(id, tree)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.trees[id] = b
	s.mu.Unlock()
	return nil
}

// Load returns a fresh copy of the tree stored under id.
func (s *MemoryStore) Load(_ context.Context, id string) (*vdom.VNode, error) {
	s.mu.RLock()
	b, ok := s.trees[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	return vdom.DecodeJSON(b)
}

// Delete removes the tree stored under id. Deleting a missing id is not
// an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.trees, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trees)
}
