package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// SellerOverviewQuery represents the seller aggregation query
type SellerOverviewQuery struct {
	SellerID string
	Filter   domain.SellerFilter
	Page     int // 1-based
	Limit    int
}

// SellerOverview combines the seller's aggregate counters with one page
// of per-product summaries
type SellerOverview struct {
	SellerID string              `json:"seller_id"`
	Stats    domain.SellerStats  `json:"stats"`
	Items    []StockSummary      `json:"items"`
	Page     int                 `json:"page"`
	Limit    int                 `json:"limit"`
}

// SellerOverviewHandler handles the seller overview query
type SellerOverviewHandler struct {
	repo domain.InventoryRepository
}

// NewSellerOverviewHandler creates a new seller overview handler
func NewSellerOverviewHandler(repo domain.InventoryRepository) *SellerOverviewHandler {
	return &SellerOverviewHandler{repo: repo}
}

// Handle executes the seller overview query. The stats aggregate all of
// the seller's records regardless of pagination.
func (h *SellerOverviewHandler) Handle(ctx context.Context, q SellerOverviewQuery) (*SellerOverview, error) {
	if q.SellerID == "" {
		return nil, fmt.Errorf("seller_id is required")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}

	stats, err := h.repo.SellerStats(ctx, q.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate seller stats: %w", err)
	}

	records, err := h.repo.FindBySeller(ctx, q.SellerID, q.Filter, q.Limit, (q.Page-1)*q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller records: %w", err)
	}

	overview := &SellerOverview{
		SellerID: q.SellerID,
		Stats:    *stats,
		Page:     q.Page,
		Limit:    q.Limit,
	}
	for i := range records {
		overview.Items = append(overview.Items, *summarize(&records[i]))
	}
	return overview, nil
}
