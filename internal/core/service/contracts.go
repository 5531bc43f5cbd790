package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

// Contracts manages the contract lifecycle on client records held by the
// directory. Every write goes through one locked directory mutation.
type Contracts struct {
	directory ports.DirectoryService
	logger    zerolog.Logger
}

func NewContracts(directory ports.DirectoryService, logger zerolog.Logger) *Contracts {
	return &Contracts{directory: directory, logger: logger}
}

// clientProfile is the shared precondition of every contract mutation: the
// record must be a client. Callers run it inside the mutation closure.
func clientProfile(u *domain.User) (*domain.ClientProfile, error) {
	if !u.IsClient() {
		return nil, domain.ErrNotAClient
	}
	return u.Client, nil
}

// Create subscribes a client to a service. The contract copies the client's
// submitted contact info at creation time; the copy is independently editable
// afterwards.
func (s *Contracts) Create(ctx context.Context, in ports.CreateContractInput) (*domain.Contract, error) {
	if !domain.ValidServiceType(in.ServiceType) {
		return nil, domain.ErrInvalidServiceType
	}

	updated, err := s.directory.Mutate(ctx, in.ClientID, func(u *domain.User) error {
		p, err := clientProfile(u)
		if err != nil {
			return err
		}
		if p.Contract != nil {
			return domain.ErrContractExists
		}

		p.Contract = &domain.Contract{
			ID:          generateContractID(),
			ClientID:    u.ID,
			FullName:    p.FullName,
			Phone:       p.Phone,
			Email:       u.Email,
			Address:     in.Address,
			ServiceType: in.ServiceType,
			EquipmentID: generateEquipmentID(),
			Status:      domain.ContractPending,
			CreatedAt:   time.Now().UTC(),
		}
		p.EquipmentStatus = domain.EquipmentPending
		return nil
	})
	if err != nil {
		return nil, err
	}

	contract := updated.Client.Contract
	s.logger.Info().
		Str("contract_id", contract.ID).
		Str("client_id", updated.ID).
		Str("service_type", string(in.ServiceType)).
		Msg("contract created")

	return contract, nil
}

// UpdateAddress changes the connection address on an existing contract.
func (s *Contracts) UpdateAddress(ctx context.Context, clientID, address string) (*domain.Contract, error) {
	updated, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		p, err := clientProfile(u)
		if err != nil {
			return err
		}
		if p.Contract == nil {
			return domain.ErrNoContract
		}
		p.Contract.Address = address
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated.Client.Contract, nil
}

// UpdateDetails edits the contract's denormalized fields. Empty input fields
// are left unchanged.
func (s *Contracts) UpdateDetails(ctx context.Context, in ports.UpdateContractDetailsInput) (*domain.Contract, error) {
	updated, err := s.directory.Mutate(ctx, in.ClientID, func(u *domain.User) error {
		p, err := clientProfile(u)
		if err != nil {
			return err
		}
		contract := p.Contract
		if contract == nil {
			return domain.ErrNoContract
		}

		if in.FullName != "" {
			contract.FullName = in.FullName
		}
		if in.Phone != "" {
			contract.Phone = in.Phone
		}
		if in.Email != "" {
			contract.Email = in.Email
		}
		if in.Address != "" {
			contract.Address = in.Address
		}
		if in.EquipmentID != "" {
			contract.EquipmentID = in.EquipmentID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	contract := updated.Client.Contract
	s.logger.Info().Str("contract_id", contract.ID).Msg("contract details updated")
	return contract, nil
}

// Delete removes the contract and resets the client's connection state. The
// client account itself survives.
func (s *Contracts) Delete(ctx context.Context, clientID string) error {
	_, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		p, err := clientProfile(u)
		if err != nil {
			return err
		}
		if p.Contract == nil {
			return domain.ErrNoContract
		}

		p.Contract = nil
		p.ConnectionApproved = false
		p.Balance = 0
		p.EquipmentStatus = ""
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("client_id", clientID).Msg("contract deleted")
	return nil
}

// ApproveConnection grants the admin approval gating billing and activation.
// The contract goes active and the equipment online.
func (s *Contracts) ApproveConnection(ctx context.Context, clientID string) error {
	_, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		p, err := clientProfile(u)
		if err != nil {
			return err
		}
		if p.Contract == nil {
			return domain.ErrNoContract
		}

		p.ConnectionApproved = true
		p.EquipmentStatus = domain.EquipmentOnline
		p.RecomputeContractStatus()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("client_id", clientID).Msg("connection approved")
	return nil
}

// SetEquipmentStatus switches a client's equipment online or offline.
// Requires an approved connection.
func (s *Contracts) SetEquipmentStatus(ctx context.Context, clientID string, status domain.EquipmentStatus) error {
	if status != domain.EquipmentOnline && status != domain.EquipmentOffline {
		return fmt.Errorf("equipment status %q: %w", status, domain.ErrForbidden)
	}

	_, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		p, err := clientProfile(u)
		if err != nil {
			return err
		}
		if p.Contract == nil {
			return domain.ErrNoContract
		}
		if !p.ConnectionApproved {
			return domain.ErrConnectionNotApproved
		}

		p.EquipmentStatus = status
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("client_id", clientID).Str("status", string(status)).Msg("equipment status changed")
	return nil
}

// generateContractID returns a unique contract number in the format CNT-XXXXXXXX.
func generateContractID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("CNT-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("CNT-%08X", b)
}

// generateEquipmentID returns an equipment tag in the format EQ-XXXX.
func generateEquipmentID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return fmt.Sprintf("EQ-%04d", time.Now().UnixNano()%10000)
	}
	return fmt.Sprintf("EQ-%04d", n.Int64())
}
