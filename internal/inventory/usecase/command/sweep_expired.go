package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
	"github.com/tair/inventory-reservation/pkg/metrics"
)

// SweepExpiredHandler reclaims reservations whose TTL elapsed. One record
// failing is logged and skipped; the sweep keeps going. A second sweep
// with no newly expired reservations reclaims zero.
type SweepExpiredHandler struct {
	store  *Store
	events domain.EventPublisher
}

// NewSweepExpiredHandler creates a new sweep handler
func NewSweepExpiredHandler(store *Store, events domain.EventPublisher) *SweepExpiredHandler {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &SweepExpiredHandler{store: store, events: events}
}

// Handle sweeps every record holding an expired active reservation and
// returns the count reclaimed.
func (h *SweepExpiredHandler) Handle(ctx context.Context, now time.Time) (int, error) {
	started := time.Now()
	defer func() {
		metrics.SweeperDuration.Observe(time.Since(started).Seconds())
	}()

	productIDs, err := h.store.Repo().FindProductIDsWithExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, productID := range productIDs {
		reclaimed, err := h.sweepRecord(ctx, productID, now)
		if err != nil {
			logger.Error(ctx).
				Err(err).
				Str("product_id", productID).
				Msg("Failed to sweep expired reservations for record")
			continue
		}
		cleaned += reclaimed
	}

	if cleaned > 0 {
		metrics.SweeperReclaimed.Add(float64(cleaned))
		logger.Info(ctx).
			Int("cleaned", cleaned).
			Int("records", len(productIDs)).
			Msg("Expired reservations reclaimed")
	}
	return cleaned, nil
}

func (h *SweepExpiredHandler) sweepRecord(ctx context.Context, productID string, now time.Time) (int, error) {
	reclaimed := 0
	var changes []domain.StockChange

	_, err := h.store.Mutate(ctx, productID, func(record *domain.InventoryRecord) error {
		reclaimed = 0
		changes = changes[:0]

		for i := range record.Reservations {
			reservation := &record.Reservations[i]
			if reservation.Status != domain.ReservationActive || !reservation.ExpiresAt.Before(now) {
				continue
			}

			previous := record.AvailableStock
			reservation.Status = domain.ReservationExpired
			record.ReservedStock -= reservation.Quantity
			record.Recompute()

			record.AppendMovement(domain.Movement{
				ID:            uuid.New().String(),
				Type:          domain.MovementReleased,
				Quantity:      reservation.Quantity,
				Reason:        ReasonExpired,
				OrderID:       reservation.OrderID,
				CustomerID:    reservation.CustomerID,
				PreviousStock: previous,
				NewStock:      record.AvailableStock,
				Timestamp:     now,
			})

			changes = append(changes, domain.StockChange{
				Kind:           domain.ChangeReleased,
				ProductID:      record.ProductID,
				SellerID:       record.SellerID,
				OrderID:        reservation.OrderID,
				CustomerID:     reservation.CustomerID,
				Quantity:       reservation.Quantity,
				AvailableStock: record.AvailableStock,
			})
			reclaimed++
		}

		if reclaimed == 0 {
			// Another writer already reclaimed or confirmed everything
			// between the scan and taking the lock.
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, change := range changes {
		metrics.ReservationsReleased.WithLabelValues("expired").Inc()
		if err := h.events.PublishStockChange(ctx, change); err != nil {
			logger.Warn(ctx).Err(err).Str("product_id", change.ProductID).Msg("Failed to publish stock event")
		}
	}
	return reclaimed, nil
}
