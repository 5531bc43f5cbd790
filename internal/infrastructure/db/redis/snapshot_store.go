package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// snapshotKey is the single fixed key holding the serialized user array.
const snapshotKey = "portal:users"

// SnapshotStore persists the whole user directory as one JSON document in
// Redis.
type SnapshotStore struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewSnapshotStore(client *redis.Client, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{client: client, logger: logger}
}

// Load returns the persisted user set. A missing key yields an empty set; a
// corrupt payload degrades to an empty set with a warning instead of failing
// startup.
func (s *SnapshotStore) Load(ctx context.Context) ([]*domain.User, error) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot get: %w", err)
	}

	var users []*domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt user snapshot, starting empty")
		return nil, nil
	}
	return users, nil
}

// Save replaces the snapshot with the given user set. No TTL: the snapshot
// lives until overwritten.
func (s *SnapshotStore) Save(ctx context.Context, users []*domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("snapshot marshal: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("snapshot set: %w", err)
	}
	return nil
}
