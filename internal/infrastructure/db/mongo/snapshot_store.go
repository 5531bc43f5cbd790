package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/superinternet/portal-api/internal/core/domain"
)

const (
	snapshotCollection = "snapshots"
	snapshotDocID      = "users"
)

// snapshotDoc is the single upserted document holding the serialized user
// array, the Mongo rendition of the one-key snapshot layout.
type snapshotDoc struct {
	ID        string `bson:"_id"`
	Users     []byte `bson:"users"`
	UpdatedAt int64  `bson:"updated_at"`
}

// SnapshotStore persists the whole user directory as one document.
type SnapshotStore struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewSnapshotStore(db *mongo.Database, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{coll: db.Collection(snapshotCollection), logger: logger}
}

// Load returns the persisted user set. A missing document yields an empty
// set; a corrupt payload degrades to an empty set with a warning.
func (s *SnapshotStore) Load(ctx context.Context) ([]*domain.User, error) {
	var doc snapshotDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": snapshotDocID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot find: %w", err)
	}

	var users []*domain.User
	if err := json.Unmarshal(doc.Users, &users); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt user snapshot, starting empty")
		return nil, nil
	}
	return users, nil
}

// Save upserts the snapshot document with the given user set.
func (s *SnapshotStore) Save(ctx context.Context, users []*domain.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("snapshot marshal: %w", err)
	}

	doc := snapshotDoc{
		ID:        snapshotDocID,
		Users:     data,
		UpdatedAt: time.Now().Unix(),
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": snapshotDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("snapshot upsert: %w", err)
	}
	return nil
}
