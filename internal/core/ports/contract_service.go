package ports

import (
	"context"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// CreateContractInput carries a client's service subscription request.
type CreateContractInput struct {
	ClientID    string
	ServiceType domain.ServiceType
	Address     string
}

// UpdateContractDetailsInput is the support-side full edit of the contract's
// denormalized fields. Empty fields are left unchanged.
type UpdateContractDetailsInput struct {
	ClientID    string
	FullName    string
	Phone       string
	Email       string
	Address     string
	EquipmentID string
}

// ContractService manages the contract lifecycle and the admin-gated
// connection approval and equipment state.
type ContractService interface {
	Create(ctx context.Context, in CreateContractInput) (*domain.Contract, error)
	UpdateAddress(ctx context.Context, clientID, address string) (*domain.Contract, error)
	UpdateDetails(ctx context.Context, in UpdateContractDetailsInput) (*domain.Contract, error)
	Delete(ctx context.Context, clientID string) error

	ApproveConnection(ctx context.Context, clientID string) error
	SetEquipmentStatus(ctx context.Context, clientID string, status domain.EquipmentStatus) error
}
