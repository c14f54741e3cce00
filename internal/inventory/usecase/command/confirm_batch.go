package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/pkg/logger"
)

// ConfirmBatchCommand confirms every item of one order into sales
type ConfirmBatchCommand struct {
	OrderID string
	Items   []BatchItem
}

// ConfirmBatchHandler applies confirm per item, best effort. Confirmed
// sales are final, so per-item failures are reported back for manual
// reconciliation instead of rolled back.
type ConfirmBatchHandler struct {
	confirm *ConfirmHandler
}

// NewConfirmBatchHandler creates a new batch confirm handler
func NewConfirmBatchHandler(confirm *ConfirmHandler) *ConfirmBatchHandler {
	return &ConfirmBatchHandler{confirm: confirm}
}

// Handle executes the batch confirmation
func (h *ConfirmBatchHandler) Handle(ctx context.Context, cmd ConfirmBatchCommand) (*BatchResult, error) {
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	result := &BatchResult{OrderID: cmd.OrderID}

	for _, item := range cmd.Items {
		confirmed, err := h.confirm.Handle(ctx, ConfirmCommand{
			ProductID: item.ProductID,
			OrderID:   cmd.OrderID,
		})
		if err != nil {
			logger.Warn(ctx).
				Err(err).
				Str("order_id", cmd.OrderID).
				Str("product_id", item.ProductID).
				Msg("Batch confirm item failed")
			result.Failed = append(result.Failed, BatchItemResult{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Error:     err.Error(),
			})
			continue
		}

		result.Successful = append(result.Successful, BatchItemResult{
			ProductID:      item.ProductID,
			Quantity:       confirmed.Quantity,
			AvailableStock: confirmed.AvailableStock,
		})
	}

	result.Success = len(result.Failed) == 0
	return result, nil
}
