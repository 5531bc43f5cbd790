package ports

import (
	"context"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// RegisterInput carries a client registration request. Field validation is
// the caller's responsibility (advisory gates, enforced at the API boundary).
type RegisterInput struct {
	Email    string
	Password string
	Phone    string
	FullName string
}

// DirectoryService owns the user collection: registration, login, staff
// management, credential recovery and raw lookup/update/delete. Lookups
// return detached copies; every write is a single locked read-modify-persist
// step, so callers mutate through Mutate or UpdateUser, never through a
// looked-up record directly.
type DirectoryService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout()
	Current() *domain.User

	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	// Mutate applies fn to the stored record under the directory lock and
	// persists the result. A failed fn or a failed save leaves the record
	// untouched. Returns a copy of the updated record.
	Mutate(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error

	CreateSupport(ctx context.Context, email, password, displayName string) (*domain.User, error)
	ListClients(ctx context.Context) ([]*domain.User, error)
	ListStaff(ctx context.Context) ([]*domain.User, error)

	IssueRecoveryCode(ctx context.Context, email string) (string, error)
	VerifyRecoveryCode(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}
