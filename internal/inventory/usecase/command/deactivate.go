package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// DeactivateCommand takes a record out of service. Records are never hard
// deleted; history stays queryable.
type DeactivateCommand struct {
	ProductID string
}

// DeactivateHandler handles the deactivate command
type DeactivateHandler struct {
	store *Store
}

// NewDeactivateHandler creates a new deactivate handler
func NewDeactivateHandler(store *Store) *DeactivateHandler {
	return &DeactivateHandler{store: store}
}

// Handle executes the deactivate command
func (h *DeactivateHandler) Handle(ctx context.Context, cmd DeactivateCommand) (*domain.InventoryRecord, error) {
	if cmd.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}

	return h.store.Mutate(ctx, cmd.ProductID, func(record *domain.InventoryRecord) error {
		if !record.IsActive {
			return errNoChange
		}
		record.IsActive = false
		return nil
	})
}
