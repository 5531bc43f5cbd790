package ports

import (
	"context"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// SnapshotStore persists the full user directory as a single snapshot under
// one fixed key. There is no partial or field-level persistence: every save
// writes the entire collection.
type SnapshotStore interface {
	// Load returns the persisted user set. A missing snapshot yields an
	// empty slice, not an error.
	Load(ctx context.Context) ([]*domain.User, error)
	// Save replaces the persisted snapshot with users.
	Save(ctx context.Context, users []*domain.User) error
}
