package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// ListMovementsQuery represents the paginated movement history query
type ListMovementsQuery struct {
	ProductID string
	Type      domain.MovementType // empty means all types
	Page      int                 // 1-based
	Limit     int
}

// MovementPage is one page of the audit trail, newest first
type MovementPage struct {
	Movements []domain.Movement `json:"movements"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}

// ListMovementsHandler handles the movement history query
type ListMovementsHandler struct {
	repo domain.InventoryRepository
}

// NewListMovementsHandler creates a new movement history handler
func NewListMovementsHandler(repo domain.InventoryRepository) *ListMovementsHandler {
	return &ListMovementsHandler{repo: repo}
}

// Handle executes the movement history query
func (h *ListMovementsHandler) Handle(ctx context.Context, q ListMovementsQuery) (*MovementPage, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	record, err := h.repo.FindByProductID(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}

	// Movements are appended in time order; walk backwards for newest
	// first.
	var filtered []domain.Movement
	for i := len(record.Movements) - 1; i >= 0; i-- {
		m := record.Movements[i]
		if q.Type != "" && m.Type != q.Type {
			continue
		}
		filtered = append(filtered, m)
	}

	page := &MovementPage{
		Total: len(filtered),
		Page:  q.Page,
		Limit: q.Limit,
	}

	start := (q.Page - 1) * q.Limit
	if start < len(filtered) {
		end := start + q.Limit
		if end > len(filtered) {
			end = len(filtered)
		}
		page.Movements = filtered[start:end]
	}
	return page, nil
}
