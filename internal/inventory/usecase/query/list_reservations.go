package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// ListReservationsQuery represents the reservation listing query
type ListReservationsQuery struct {
	ProductID string
	Status    domain.ReservationStatus // empty means all statuses
}

// ListReservationsHandler handles the reservation listing query
type ListReservationsHandler struct {
	repo domain.InventoryRepository
}

// NewListReservationsHandler creates a new reservation listing handler
func NewListReservationsHandler(repo domain.InventoryRepository) *ListReservationsHandler {
	return &ListReservationsHandler{repo: repo}
}

// Handle executes the reservation listing query
func (h *ListReservationsHandler) Handle(ctx context.Context, q ListReservationsQuery) ([]domain.Reservation, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}

	record, err := h.repo.FindByProductID(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}

	if q.Status == "" {
		return record.Reservations, nil
	}

	var filtered []domain.Reservation
	for _, res := range record.Reservations {
		if res.Status == q.Status {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}
