// Package memory provides an in-process snapshot store. It round-trips the
// user set through JSON like the real backends, so loaded records are fresh
// copies rather than shared pointers.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// SnapshotStore keeps the serialized snapshot in memory. Used for tests and
// for running the portal without external dependencies.
type SnapshotStore struct {
	mu   sync.Mutex
	data []byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Load(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil, nil
	}
	var users []*domain.User
	if err := json.Unmarshal(s.data, &users); err != nil {
		return nil, nil
	}
	return users, nil
}

func (s *SnapshotStore) Save(_ context.Context, users []*domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("snapshot marshal: %w", err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}
