// Package mongo backs the user snapshot with a single upserted document in
// the portal's snapshot collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/superinternet/portal-api/internal/infrastructure/config"
)

// connectTimeout bounds the initial dial and ping; a snapshot backend that
// cannot answer at startup fails the process fast instead of hanging it.
const connectTimeout = 10 * time.Second

// Connect dials the configured MongoDB, verifies it with a ping and returns
// the client together with the snapshot database. The caller owns the
// client's lifecycle and disconnects it on shutdown.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
