package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/superinternet/portal-api/internal/core/domain"
	"github.com/superinternet/portal-api/internal/core/ports"
)

const billingPeriodDays = 30

// errChargeNotDue signals that a sweep mutation found the client ineligible
// once inside the lock; the record is left untouched.
var errChargeNotDue = errors.New("charge not due")

// Billing holds no state of its own; it operates on client records via the
// directory, one locked mutation per write.
type Billing struct {
	directory ports.DirectoryService
	logger    zerolog.Logger
}

func NewBilling(directory ports.DirectoryService, logger zerolog.Logger) *Billing {
	return &Billing{directory: directory, logger: logger}
}

// MakePayment adds amount to the client's balance and optionally marks the
// account recurring. The contract goes active only when the balance is
// non-negative, a contract exists and the connection is approved; otherwise
// the status is left unchanged.
func (s *Billing) MakePayment(ctx context.Context, clientID string, amount float64, markRecurring bool) (*domain.User, error) {
	user, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		if !u.IsClient() {
			return domain.ErrNotAClient
		}

		p := u.Client
		p.Balance += amount
		if markRecurring {
			p.IsRecurring = true
		}
		if p.Balance >= 0 && p.Contract != nil && p.ConnectionApproved {
			p.Contract.Status = domain.ContractActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("client_id", clientID).
		Float64("amount", amount).
		Float64("balance", user.Client.Balance).
		Bool("recurring", user.Client.IsRecurring).
		Msg("payment applied")

	return user, nil
}

// ToggleRecurring flips the recurring flag and returns the new value.
func (s *Billing) ToggleRecurring(ctx context.Context, clientID string) (bool, error) {
	user, err := s.directory.Mutate(ctx, clientID, func(u *domain.User) error {
		if !u.IsClient() {
			return domain.ErrNotAClient
		}
		u.Client.IsRecurring = !u.Client.IsRecurring
		return nil
	})
	if err != nil {
		return false, err
	}
	return user.Client.IsRecurring, nil
}

// RunBillingCycle sweeps every contracted, approved client and applies the
// monthly charge when 30 or more days have elapsed since the last payment.
// The charge is unconditional: the recurring flag and the balance only decide
// what gets logged, not whether the client is debited. Eligibility is
// re-checked inside each mutation, so a payment racing the sweep cannot be
// lost.
func (s *Billing) RunBillingCycle(ctx context.Context) (ports.BillingCycleSummary, error) {
	summary := ports.BillingCycleSummary{ChargedByType: make(map[domain.ServiceType]int)}

	clients, err := s.directory.ListClients(ctx)
	if err != nil {
		return summary, fmt.Errorf("list clients: %w", err)
	}

	now := time.Now().UTC()
	for _, listed := range clients {
		if listed.Client == nil || listed.Client.Contract == nil || !listed.Client.ConnectionApproved {
			continue
		}

		var (
			amount        float64
			serviceType   domain.ServiceType
			recurring     bool
			balanceBefore float64
		)
		updated, err := s.directory.Mutate(ctx, listed.ID, func(u *domain.User) error {
			p := u.Client
			if p == nil || p.Contract == nil || !p.ConnectionApproved {
				return errChargeNotDue
			}
			if now.Sub(p.LastPaymentDate).Hours()/24 < billingPeriodDays {
				return errChargeNotDue
			}

			serviceType = p.Contract.ServiceType
			amount = domain.MonthlyRate(serviceType)
			recurring = p.IsRecurring
			balanceBefore = p.Balance

			p.Balance -= amount
			p.LastPaymentDate = now
			if p.Balance < 0 {
				p.Contract.Status = domain.ContractDebt
			} else {
				p.Contract.Status = domain.ContractActive
			}
			return nil
		})
		if errors.Is(err, errChargeNotDue) {
			if listed.Client.Balance < 0 {
				summary.InDebt++
			}
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("persist charge for %s: %w", listed.ID, err)
		}

		switch {
		case recurring && balanceBefore >= amount:
			s.logger.Info().Str("email", updated.Email).Float64("amount", amount).Msg("recurring payment charged")
		case recurring:
			s.logger.Info().Str("email", updated.Email).Float64("amount", amount).Msg("recurring payment attempted with insufficient funds")
		default:
			s.logger.Debug().Str("email", updated.Email).Float64("amount", amount).Msg("monthly charge applied")
		}

		summary.Charged++
		summary.ChargedByType[serviceType]++
		if updated.Client.Balance < 0 {
			summary.InDebt++
		}
	}

	s.logger.Info().Int("charged", summary.Charged).Int("in_debt", summary.InDebt).Msg("billing cycle complete")
	return summary, nil
}
