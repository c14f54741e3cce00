package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
	"github.com/tair/inventory-reservation/pkg/metrics"
)

// BatchItem is one line of a multi-item order
type BatchItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// BatchItemResult reports the outcome for one item of a batch
type BatchItemResult struct {
	ProductID      string    `json:"product_id"`
	Quantity       int       `json:"quantity"`
	AvailableStock int       `json:"available_stock,omitempty"`
	ExpiresAt      time.Time `json:"expires_at,omitzero"`
	Error          string    `json:"error,omitempty"`
}

// BatchResult aggregates per-item outcomes. Success is true only when
// every item went through cleanly.
type BatchResult struct {
	OrderID    string            `json:"order_id"`
	Success    bool              `json:"success"`
	Successful []BatchItemResult `json:"successful"`
	Failed     []BatchItemResult `json:"failed"`
}

// ReserveBatchCommand places holds for every item of one order
type ReserveBatchCommand struct {
	OrderID    string
	CustomerID string
	Items      []BatchItem
	TTL        time.Duration
}

// ReserveBatchHandler coordinates multi-item holds. Items are reserved
// sequentially; the first failure triggers a compensating release of
// every item that already succeeded, so a failed batch is a no-op once
// compensation completes. Cross-item atomicity is explicitly not
// guaranteed in the window before compensation lands.
type ReserveBatchHandler struct {
	reserve *ReserveHandler
	release *ReleaseHandler
}

// NewReserveBatchHandler creates a new batch reservation handler
func NewReserveBatchHandler(reserve *ReserveHandler, release *ReleaseHandler) *ReserveBatchHandler {
	return &ReserveBatchHandler{reserve: reserve, release: release}
}

// Handle executes the batch reservation
func (h *ReserveBatchHandler) Handle(ctx context.Context, cmd ReserveBatchCommand) (*BatchResult, error) {
	if cmd.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	result := &BatchResult{OrderID: cmd.OrderID}

	for _, item := range cmd.Items {
		reserved, err := h.reserve.Handle(ctx, ReserveCommand{
			ProductID:  item.ProductID,
			OrderID:    cmd.OrderID,
			CustomerID: cmd.CustomerID,
			Quantity:   item.Quantity,
			TTL:        cmd.TTL,
		})
		if err != nil {
			result.Failed = append(result.Failed, BatchItemResult{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Error:     err.Error(),
			})
			h.compensate(ctx, cmd.OrderID, result.Successful)
			result.Success = false
			return result, nil
		}

		result.Successful = append(result.Successful, BatchItemResult{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			AvailableStock: reserved.AvailableStock,
			ExpiresAt:      reserved.ExpiresAt,
		})
	}

	result.Success = true
	return result, nil
}

// compensate rolls back the holds that succeeded before the failure.
// ErrReservationNotFound means someone (sweeper, retry) already released
// that hold and is benign here.
func (h *ReserveBatchHandler) compensate(ctx context.Context, orderID string, succeeded []BatchItemResult) {
	if len(succeeded) == 0 {
		return
	}

	metrics.BatchCompensations.Inc()
	logger.Warn(ctx).
		Str("order_id", orderID).
		Int("items", len(succeeded)).
		Msg("Partial batch reservation failure, rolling back")

	for _, item := range succeeded {
		_, err := h.release.Handle(ctx, ReleaseCommand{
			ProductID: item.ProductID,
			OrderID:   orderID,
			Reason:    ReasonRollback,
		})
		if err != nil && !errors.Is(err, domain.ErrReservationNotFound) {
			logger.Error(ctx).
				Err(err).
				Str("order_id", orderID).
				Str("product_id", item.ProductID).
				Msg("Compensating release failed")
		}
	}
}
