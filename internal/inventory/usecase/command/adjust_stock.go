package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// AdjustStockCommand sets the total stock to an absolute value
// (administrative correction).
type AdjustStockCommand struct {
	ProductID string
	NewTotal  int
	Reason    string
	Notes     string
}

// AdjustStockHandler handles the adjust stock command
type AdjustStockHandler struct {
	store *Store
}

// NewAdjustStockHandler creates a new adjust stock handler
func NewAdjustStockHandler(store *Store) *AdjustStockHandler {
	return &AdjustStockHandler{store: store}
}

// Handle executes the adjust stock command
func (h *AdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.InventoryRecord, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.NewTotal < 0 {
		return nil, fmt.Errorf("%w: total stock cannot be negative", domain.ErrInvalidAdjustment)
	}
	if cmd.Reason == "" {
		cmd.Reason = "Manual adjustment"
	}

	return h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		previous := record.TotalStock
		record.TotalStock = cmd.NewTotal
		record.Recompute()

		record.AppendMovement(domain.Movement{
			ID:            uuid.New().String(),
			Type:          domain.MovementAdjusted,
			Quantity:      cmd.NewTotal - previous,
			Reason:        cmd.Reason,
			Notes:         cmd.Notes,
			PreviousStock: previous,
			NewStock:      cmd.NewTotal,
			Timestamp:     time.Now().UTC(),
		})
		return nil
	})
}

// AddStockCommand increments total stock (restock).
type AddStockCommand struct {
	ProductID string
	Quantity  int
	Reason    string
	Notes     string
}

// AddStockHandler handles the add stock command
type AddStockHandler struct {
	store *Store
}

// NewAddStockHandler creates a new add stock handler
func NewAddStockHandler(store *Store) *AddStockHandler {
	return &AddStockHandler{store: store}
}

// Handle executes the add stock command
func (h *AddStockHandler) Handle(ctx context.Context, cmd AddStockCommand) (*domain.InventoryRecord, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidAdjustment)
	}
	if cmd.Reason == "" {
		cmd.Reason = "Restock"
	}

	return h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		previous := record.TotalStock
		record.TotalStock += cmd.Quantity
		record.Recompute()

		record.AppendMovement(domain.Movement{
			ID:            uuid.New().String(),
			Type:          domain.MovementIn,
			Quantity:      cmd.Quantity,
			Reason:        cmd.Reason,
			Notes:         cmd.Notes,
			PreviousStock: previous,
			NewStock:      record.TotalStock,
			Timestamp:     time.Now().UTC(),
		})
		return nil
	})
}
