package query

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// GetStockSummaryQuery represents the query for one product's counters
type GetStockSummaryQuery struct {
	ProductID string
}

// StockSummary is the per-product view served to sellers and checkout
type StockSummary struct {
	ProductID          string    `json:"product_id"`
	SellerID           string    `json:"seller_id"`
	TotalStock         int       `json:"total_stock"`
	ReservedStock      int       `json:"reserved_stock"`
	SoldStock          int       `json:"sold_stock"`
	AvailableStock     int       `json:"available_stock"`
	LowStockThreshold  int       `json:"low_stock_threshold"`
	IsOutOfStock       bool      `json:"is_out_of_stock"`
	IsLowStock         bool      `json:"is_low_stock"`
	IsActive           bool      `json:"is_active"`
	ActiveReservations int       `json:"active_reservations"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// GetStockSummaryHandler handles the stock summary query
type GetStockSummaryHandler struct {
	repo domain.InventoryRepository
}

// NewGetStockSummaryHandler creates a new stock summary handler
func NewGetStockSummaryHandler(repo domain.InventoryRepository) *GetStockSummaryHandler {
	return &GetStockSummaryHandler{repo: repo}
}

// Handle executes the stock summary query
func (h *GetStockSummaryHandler) Handle(ctx context.Context, q GetStockSummaryQuery) (*StockSummary, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("product_id is required")
	}

	record, err := h.repo.FindByProductID(ctx, q.ProductID)
	if err != nil {
		return nil, err
	}
	return summarize(record), nil
}

func summarize(record *domain.InventoryRecord) *StockSummary {
	active := 0
	for _, res := range record.Reservations {
		if res.Status == domain.ReservationActive {
			active++
		}
	}
	return &StockSummary{
		ProductID:          record.ProductID,
		SellerID:           record.SellerID,
		TotalStock:         record.TotalStock,
		ReservedStock:      record.ReservedStock,
		SoldStock:          record.SoldStock,
		AvailableStock:     record.AvailableStock,
		LowStockThreshold:  record.LowStockThreshold,
		IsOutOfStock:       record.IsOutOfStock,
		IsLowStock:         record.IsLowStock,
		IsActive:           record.IsActive,
		ActiveReservations: active,
		UpdatedAt:          record.UpdatedAt,
	}
}
