package ports

import (
	"context"

	"github.com/superinternet/portal-api/internal/core/domain"
)

// BillingCycleSummary reports the outcome of one sweep.
type BillingCycleSummary struct {
	// Charged is the number of clients a monthly charge was applied to.
	Charged int
	// ChargedByType breaks Charged down per service type.
	ChargedByType map[domain.ServiceType]int
	// InDebt is the number of contracted, approved clients with a negative
	// balance after the sweep.
	InDebt int
}

// BillingService applies payments and runs the periodic monthly-cycle sweep
// over all contracted clients.
type BillingService interface {
	// MakePayment adds amount to the client's balance. Amount sign is not
	// validated; negative amounts are accepted as-is.
	MakePayment(ctx context.Context, clientID string, amount float64, markRecurring bool) (*domain.User, error)
	// ToggleRecurring flips the recurring flag and returns the new value.
	ToggleRecurring(ctx context.Context, clientID string) (bool, error)
	// RunBillingCycle charges every approved, contracted client whose last
	// payment is 30 or more days old.
	RunBillingCycle(ctx context.Context) (BillingCycleSummary, error)
}
