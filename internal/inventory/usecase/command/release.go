package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
	"github.com/tair/inventory-reservation/pkg/metrics"
)

// ReasonExpired marks a release caused by TTL expiry. The sweeper and
// anything else reclaiming stale holds must use it so the reservation
// lands in the expired state rather than cancelled.
const ReasonExpired = "Reservation expired"

// ReasonRollback marks the compensating release after a partial bulk
// reservation failure.
const ReasonRollback = "Partial reservation failure - rollback"

// ReleaseCommand represents the command to give a hold back
type ReleaseCommand struct {
	ProductID string
	OrderID   string
	Reason    string
}

// ReleaseResult reports the counters after the release
type ReleaseResult struct {
	ProductID      string                   `json:"product_id"`
	OrderID        string                   `json:"order_id"`
	Quantity       int                      `json:"quantity"`
	Status         domain.ReservationStatus `json:"status"`
	AvailableStock int                      `json:"available_stock"`
}

// ReleaseHandler handles the release command
type ReleaseHandler struct {
	store  *Store
	events domain.EventPublisher
}

// NewReleaseHandler creates a new release handler
func NewReleaseHandler(store *Store, events domain.EventPublisher) *ReleaseHandler {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &ReleaseHandler{store: store, events: events}
}

// Handle executes the release command. A second release of the same
// reservation fails with ErrReservationNotFound and never decrements the
// counters twice; compensation callers treat that as benign.
func (h *ReleaseHandler) Handle(ctx context.Context, cmd ReleaseCommand) (*ReleaseResult, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if cmd.Reason == "" {
		cmd.Reason = "Reservation cancelled"
	}

	var result ReleaseResult
	var customerID string

	record, err := h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		reservation := record.ActiveReservation(cmd.OrderID)
		if reservation == nil {
			return fmt.Errorf("%w: order %s, product %s",
				domain.ErrReservationNotFound, cmd.OrderID, cmd.ProductID)
		}

		now := time.Now().UTC()
		previous := record.AvailableStock

		if reasonIndicatesExpiry(cmd.Reason) {
			reservation.Status = domain.ReservationExpired
		} else {
			reservation.Status = domain.ReservationCancelled
		}
		record.ReservedStock -= reservation.Quantity
		record.Recompute()

		record.AppendMovement(domain.Movement{
			ID:            uuid.New().String(),
			Type:          domain.MovementReleased,
			Quantity:      reservation.Quantity,
			Reason:        cmd.Reason,
			OrderID:       cmd.OrderID,
			CustomerID:    reservation.CustomerID,
			PreviousStock: previous,
			NewStock:      record.AvailableStock,
			Timestamp:     now,
		})

		customerID = reservation.CustomerID
		result = ReleaseResult{
			ProductID:      cmd.ProductID,
			OrderID:        cmd.OrderID,
			Quantity:       reservation.Quantity,
			Status:         reservation.Status,
			AvailableStock: record.AvailableStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReservationsReleased.WithLabelValues(releaseCause(cmd.Reason)).Inc()
	if err := h.events.PublishStockChange(ctx, domain.StockChange{
		Kind:           domain.ChangeReleased,
		ProductID:      record.ProductID,
		SellerID:       record.SellerID,
		OrderID:        cmd.OrderID,
		CustomerID:     customerID,
		Quantity:       result.Quantity,
		AvailableStock: record.AvailableStock,
	}); err != nil {
		logger.Warn(ctx).Err(err).Str("product_id", cmd.ProductID).Msg("Failed to publish stock event")
	}
	return &result, nil
}

func reasonIndicatesExpiry(reason string) bool {
	return strings.Contains(strings.ToLower(reason), "expir")
}

func releaseCause(reason string) string {
	switch {
	case reasonIndicatesExpiry(reason):
		return "expired"
	case reason == ReasonRollback:
		return "rollback"
	default:
		return "cancelled"
	}
}
