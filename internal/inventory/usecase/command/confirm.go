package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
	"github.com/tair/inventory-reservation/pkg/metrics"
)

// ConfirmCommand represents the command to turn a hold into a sale
type ConfirmCommand struct {
	ProductID string
	OrderID   string
}

// ConfirmResult reports the counters after confirmation
type ConfirmResult struct {
	ProductID      string `json:"product_id"`
	OrderID        string `json:"order_id"`
	Quantity       int    `json:"quantity"`
	SoldStock      int    `json:"sold_stock"`
	AvailableStock int    `json:"available_stock"`
}

// ConfirmHandler handles the confirm command
type ConfirmHandler struct {
	store  *Store
	events domain.EventPublisher
}

// NewConfirmHandler creates a new confirm handler
func NewConfirmHandler(store *Store, events domain.EventPublisher) *ConfirmHandler {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &ConfirmHandler{store: store, events: events}
}

// Handle executes the confirm command. The matching reservation must be
// active; the quantity moves from reserved into sold within the record.
func (h *ConfirmHandler) Handle(ctx context.Context, cmd ConfirmCommand) (*ConfirmResult, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}

	var result ConfirmResult
	var customerID string

	record, err := h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		reservation := record.ActiveReservation(cmd.OrderID)
		if reservation == nil {
			return fmt.Errorf("%w: order %s, product %s",
				domain.ErrReservationNotFound, cmd.OrderID, cmd.ProductID)
		}

		now := time.Now().UTC()
		previousSold := record.SoldStock

		reservation.Status = domain.ReservationConfirmed
		record.ReservedStock -= reservation.Quantity
		record.SoldStock += reservation.Quantity
		record.Recompute()

		record.AppendMovement(domain.Movement{
			ID:            uuid.New().String(),
			Type:          domain.MovementSold,
			Quantity:      reservation.Quantity,
			Reason:        "Reservation confirmed",
			OrderID:       cmd.OrderID,
			CustomerID:    reservation.CustomerID,
			PreviousStock: previousSold,
			NewStock:      record.SoldStock,
			Timestamp:     now,
		})

		customerID = reservation.CustomerID
		result = ConfirmResult{
			ProductID:      cmd.ProductID,
			OrderID:        cmd.OrderID,
			Quantity:       reservation.Quantity,
			SoldStock:      record.SoldStock,
			AvailableStock: record.AvailableStock,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ReservationsConfirmed.Inc()
	if err := h.events.PublishStockChange(ctx, domain.StockChange{
		Kind:           domain.ChangeSold,
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
