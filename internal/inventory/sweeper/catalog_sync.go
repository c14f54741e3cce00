package sweeper

import (
	"context"
	"time"

	"github.com/tair/inventory-reservation/internal/inventory/usecase/command"
	"github.com/tair/inventory-reservation/pkg/logger"
)

// CatalogSyncLoop runs initialization and catalog sync at startup and on
// a coarser interval than the expiration sweeper.
type CatalogSyncLoop struct {
	initialize *command.InitializeRecordsHandler
	sync       *command.SyncCatalogHandler
	interval   time.Duration
	done       chan struct{}
}

// NewCatalogSyncLoop creates a new catalog sync loop
func NewCatalogSyncLoop(initialize *command.InitializeRecordsHandler, sync *command.SyncCatalogHandler, interval time.Duration) *CatalogSyncLoop {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CatalogSyncLoop{
		initialize: initialize,
		sync:       sync,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

// Start launches the sync loop
func (l *CatalogSyncLoop) Start(ctx context.Context) {
	go func() {
		defer close(l.done)

		logger.Logger.Info().
			Dur("interval", l.interval).
			Msg("Catalog sync loop started")

		l.run(ctx)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Logger.Info().Msg("Catalog sync loop stopped")
				return
			case <-ticker.C:
				l.run(ctx)
			}
		}
	}()
}

// Wait blocks until the loop has exited
func (l *CatalogSyncLoop) Wait() {
	<-l.done
}

func (l *CatalogSyncLoop) run(ctx context.Context) {
	if _, err := l.initialize.Handle(ctx); err != nil {
		logger.Error(ctx).Err(err).Msg("Inventory initialization failed")
	}
	if _, err := l.sync.Handle(ctx); err != nil {
		logger.Error(ctx).Err(err).Msg("Catalog sync failed")
	}
}
