// Package billing runs the periodic monthly-charge sweep for as long as the
// process is alive. Nothing is persisted about the schedule itself: charges
// pending while the process is down are applied on the next live tick.
package billing

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/superinternet/portal-api/internal/api/metrics"
	"github.com/superinternet/portal-api/internal/core/ports"
)

const defaultInterval = 24 * time.Hour

// Sweeper invokes the billing cycle on a fixed-delay ticker. All ticks run on
// one goroutine, so sweeps never overlap each other.
type Sweeper struct {
	service  ports.BillingService
	interval time.Duration
	logger   zerolog.Logger
}

// NewSweeper creates a Sweeper. If interval <= 0, the daily default is used.
func NewSweeper(service ports.BillingService, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{service: service, interval: interval, logger: logger}
}

// Start runs sweeps until ctx is cancelled. An immediate first sweep catches
// charges that accrued while the process was down.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("billing sweeper started")
	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("billing sweeper stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single sweep and records its metrics.
func (s *Sweeper) RunOnce(ctx context.Context) {
	summary, err := s.service.RunBillingCycle(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("billing cycle failed")
		return
	}

	metrics.BillingCyclesTotal.Inc()
	for serviceType, n := range summary.ChargedByType {
		metrics.BillingChargesTotal.WithLabelValues(string(serviceType)).Add(float64(n))
	}
	metrics.ClientsInDebt.Set(float64(summary.InDebt))
}
