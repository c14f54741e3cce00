package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/pkg/logger"
)

// ReleaseBatchCommand releases every active hold an order still has.
// The engine discovers the affected products itself, so cancellation
// callers only need the order key.
type ReleaseBatchCommand struct {
	OrderID string
	Reason  string
}

// ReleaseBatchHandler applies release per item, best effort, aggregating
// per-item outcomes without compensation.
type ReleaseBatchHandler struct {
	store   *Store
	release *ReleaseHandler
}

// NewReleaseBatchHandler creates a new batch release handler
func NewReleaseBatchHandler(store *Store, release *ReleaseHandler) *ReleaseBatchHandler {
	return &ReleaseBatchHandler{store: store, release: release}
}

// Handle executes the batch release
func (h *ReleaseBatchHandler) Handle(ctx context.Context, cmd ReleaseBatchCommand) (*BatchResult, error) {
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if cmd.Reason == "" {
		cmd.Reason = "Order cancelled"
	}

	productIDs, err := h.store.Repo().FindProductIDsWithOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations for order: %w", err)
	}

	result := &BatchResult{OrderID: cmd.OrderID}

	for _, productID := range productIDs {
		released, err := h.release.Handle(ctx, ReleaseCommand{
			ProductID: productID,
			OrderID:   cmd.OrderID,
			Reason:    cmd.Reason,
		})
		if err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("order_id", cmd.OrderID).
				Str("product_id", productID).
				Msg("Batch release item failed")
			result.Failed = append(result.Failed, BatchItemResult{
				ProductID: productID,
				Error:     err.Error(),
			})
			continue
		}

		result.Successful = append(result.Successful, BatchItemResult{
			ProductID:      productID,
			Quantity:       released.Quantity,
			AvailableStock: released.AvailableStock,
		})
	}

	result.Success = len(result.Failed) == 0
	return result, nil
}
