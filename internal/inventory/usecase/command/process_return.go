package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// ProcessReturnCommand moves sold quantity back into total stock when a
// customer returns items.
type ProcessReturnCommand struct {
	ProductID string
	OrderID   string
	Quantity  int
	Reason    string
}

// ProcessReturnHandler handles the process return command
type ProcessReturnHandler struct {
	store *Store
}

// NewProcessReturnHandler creates a new process return handler
func NewProcessReturnHandler(store *Store) *ProcessReturnHandler {
	return &ProcessReturnHandler{store: store}
}

// Handle executes the process return command
func (h *ProcessReturnHandler) Handle(ctx context.Context, cmd ProcessReturnCommand) (*domain.InventoryRecord, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if cmd.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidAdjustment)
	}
	if cmd.Reason == "" {
		cmd.Reason = "Customer return"
	}

	return h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		if cmd.Quantity > record.SoldStock {
			return fmt.Errorf("%w: return of %d exceeds sold stock %d",
				domain.ErrInvalidAdjustment, cmd.Quantity, record.SoldStock)
		}

		previous := record.TotalStock
		record.SoldStock -= cmd.Quantity
		record.TotalStock += cmd.Quantity
		record.Recompute()

		record.AppendMovement(domain.Movement{
			ID:            uuid.New().String(),
			Type:          domain.MovementReturned,
			Quantity:      cmd.Quantity,
			Reason:        cmd.Reason,
			OrderID:       cmd.OrderID,
			PreviousStock: previous,
			NewStock:      record.TotalStock,
			Timestamp:     time.Now().UTC(),
		})
		return nil
	})
}
