package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
	"github.com/tair/inventory-reservation/pkg/metrics"
)

// DefaultReservationTTL applies when a caller does not specify one
const DefaultReservationTTL = 15 * time.Minute

// ReserveCommand represents the command to place a stock hold
type ReserveCommand struct {
	ProductID  string
	OrderID    string
	CustomerID string
	Quantity   int
	TTL        time.Duration
}

// ReserveResult carries what the caller needs to show after a hold
type ReserveResult struct {
	ProductID      string    `json:"product_id"`
	OrderID        string    `json:"order_id"`
	Quantity       int       `json:"quantity"`
	AvailableStock int       `json:"available_stock"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ReserveHandler handles the reserve command
type ReserveHandler struct {
	store   *Store
	catalog domain.CatalogGateway
	events  domain.EventPublisher
}

// NewReserveHandler creates a new reserve handler. catalog may be nil
// when lazy provisioning is not wanted.
func NewReserveHandler(store *Store, catalog domain.CatalogGateway, events domain.EventPublisher) *ReserveHandler {
	if events == nil {
		events = domain.NopPublisher{}
	}
	return &ReserveHandler{store: store, catalog: catalog, events: events}
}

// Handle executes the reserve command
func (h *ReserveHandler) Handle(ctx context.Context, cmd ReserveCommand) (*ReserveResult, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if cmd.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if cmd.TTL <= 0 {
		cmd.TTL = DefaultReservationTTL
	}

	result, change, err := h.reserve(ctx, cmd)
	if errors.Is(err, domain.ErrProductNotFound) && h.catalog != nil {
		// Records are created lazily on the first reservation attempt,
		// seeded from the catalog.
		if provErr := h.provision(ctx, cmd.ProductID); provErr != nil {
			return nil, err
		}
		result, change, err = h.reserve(ctx, cmd)
	}
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientStock):
			metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeInsufficient).Inc()
		case errors.Is(err, domain.ErrDuplicateReservation):
			metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		default:
			metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeReserved).Inc()
	h.publish(ctx, change)
	return result, nil
}

func (h *ReserveHandler) reserve(ctx context.Context, cmd ReserveCommand) (*ReserveResult, []domain.StockChange, error) {
	var result ReserveResult
	var changes []domain.StockChange

	record, err := h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		if !record.IsActive {
			return domain.ErrProductNotFound
		}
		if record.ActiveReservation(cmd.OrderID) != nil {
			return fmt.Errorf("%w: order %s, product %s",
				domain.ErrDuplicateReservation, cmd.OrderID, cmd.ProductID)
		}
		if cmd.Quantity > record.AvailableStock {
			return fmt.Errorf("%w: requested %d, available %d",
				domain.ErrInsufficientStock, cmd.Quantity, record.AvailableStock)
		}

		now := time.Now().UTC()
		previous := record.AvailableStock

		record.Reservations = append(record.Reservations, domain.Reservation{
			OrderID:    cmd.OrderID,
			CustomerID: cmd.CustomerID,
			Quantity:   cmd.Quantity,
			Status:     domain.ReservationActive,
			ReservedAt: now,
			ExpiresAt:  now.Add(cmd.TTL),
		})
		record.ReservedStock += cmd.Quantity
		record.Recompute()

		record.AppendMovement(domain.Movement{
			ID:            uuid.New().String(),
			Type:          domain.MovementReserved,
			Quantity:      -cmd.Quantity,
			Reason:        "Order reservation",
			OrderID:       cmd.OrderID,
			CustomerID:    cmd.CustomerID,
			PreviousStock: previous,
			NewStock:      record.AvailableStock,
			Timestamp:     now,
		})

		result = ReserveResult{
			ProductID:      cmd.ProductID,
			OrderID:        cmd.OrderID,
			Quantity:       cmd.Quantity,
			AvailableStock: record.AvailableStock,
			ExpiresAt:      now.Add(cmd.TTL),
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	changes = append(changes, domain.StockChange{
		Kind:           domain.ChangeReserved,
		ProductID:      record.ProductID,
		SellerID:       record.SellerID,
		OrderID:        cmd.OrderID,
		CustomerID:     cmd.CustomerID,
		Quantity:       cmd.Quantity,
		AvailableStock: record.AvailableStock,
	})
	if record.IsLowStock {
		changes = append(changes, domain.StockChange{
			Kind:           domain.ChangeLowStock,
			ProductID:      record.ProductID,
			SellerID:       record.SellerID,
			AvailableStock: record.AvailableStock,
		})
	}
	return &result, changes, nil
}

func (h *ReserveHandler) provision(ctx context.Context, productID string) error {
	product, err := h.catalog.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog lookup failed: %w", err)
	}

	if _, err := h.store.Provision(ctx, product); err != nil {
		return err
	}

	logger.Info(ctx).
		Str("product_id", productID).
		Int("seed_stock", product.Stock).
		Msg("Inventory record provisioned from catalog")
	return nil
}

func (h *ReserveHandler) publish(ctx context.Context, changes []domain.StockChange) {
	for _, change := range changes {
		if err := h.events.PublishStockChange(ctx, change); err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("kind", change.Kind).
				Str("product_id", change.ProductID).
				Msg("Failed to publish stock event")
		}
	}
}
