package sweeper

import (
	"context"
	"time"

	"github.com/tair/inventory-reservation/internal/inventory/usecase/command"
	"github.com/tair/inventory-reservation/pkg/logger"
)

// Sweeper reclaims expired reservations on a fixed interval. It is tied
// to the process lifecycle through its context: cancelling the context
// stops the loop, and Wait blocks until the in-flight sweep finishes.
type Sweeper struct {
	handler  *command.SweepExpiredHandler
	interval time.Duration
	done     chan struct{}
}

// New creates a new sweeper
func New(handler *command.SweepExpiredHandler, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		handler:  handler,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. The first sweep runs immediately so a
// restart reclaims stale holds without waiting a full interval.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		logger.Logger.Info().
			Dur("interval", s.interval).
			Msg("Expiration sweeper started")

		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Logger.Info().Msg("Expiration sweeper stopped")
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until the loop has exited
func (s *Sweeper) Wait() {
	<-s.done
}

func (s *Sweeper) sweep(ctx context.Context) {
	cleaned, err := s.handler.Handle(ctx, time.Now().UTC())
	if err != nil {
		logger.Error(ctx).Err(err).Msg("Expiration sweep failed")
		return
	}
	if cleaned > 0 {
		logger.Debug(ctx).Int("cleaned", cleaned).Msg("Sweep cycle complete")
	}
}
