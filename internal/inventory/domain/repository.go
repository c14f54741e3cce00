package domain

import (
	"context"
	"time"
)

// SellerFilter narrows a seller listing
type SellerFilter struct {
	LowStockOnly   bool
	OutOfStockOnly bool
}

// SellerStats aggregates counts across one seller's records
type SellerStats struct {
	TotalProducts   int `json:"total_products"`
	TotalStock      int `json:"total_stock"`
	TotalReserved   int `json:"total_reserved"`
	TotalSold       int `json:"total_sold"`
	LowStockCount   int `json:"low_stock_count"`
	OutOfStockCount int `json:"out_of_stock_count"`
}

// InventoryRepository defines the contract for inventory record access.
// Update performs an optimistic version check and returns
// ErrVersionConflict when the stored version moved underneath the caller.
type InventoryRepository interface {
	Create(ctx context.Context, record *InventoryRecord) error
	FindByProductID(ctx context.Context, productID string) (*InventoryRecord, error)
	FindBySeller(ctx context.Context, sellerID string, filter SellerFilter, limit, offset int) ([]InventoryRecord, error)
	FindAll(ctx context.Context, limit, offset int) ([]InventoryRecord, error)
	Update(ctx context.Context, record *InventoryRecord) error

	// FindProductIDsWithExpired returns the products holding at least one
	// active reservation that expired before now. Narrows the sweep so it
	// never loads records with nothing to reclaim.
	FindProductIDsWithExpired(ctx context.Context, now time.Time) ([]string, error)

	// FindProductIDsWithOrder returns the products holding an active
	// reservation for the given order.
	FindProductIDsWithOrder(ctx context.Context, orderID string) ([]string, error)

	// SellerStats aggregates counters across a seller's records.
	SellerStats(ctx context.Context, sellerID string) (*SellerStats, error)
}

// CatalogProduct is the read-only seed the catalog supplies at
// provisioning time. The engine never treats it as authoritative
// afterwards.
type CatalogProduct struct {
	ProductID     string `json:"product_id"`
	SellerID      string `json:"seller_id"`
	Stock         int    `json:"stock"`
	LowStockAlert int    `json:"low_stock_alert"`
	IsActive      bool   `json:"is_active"`
}

// CatalogGateway is the contract to the external product catalog.
type CatalogGateway interface {
	GetProduct(ctx context.Context, productID string) (*CatalogProduct, error)
	ListActiveProducts(ctx context.Context) ([]CatalogProduct, error)

	// UpdateDisplayedStock pushes the ledger's available stock back to the
	// catalog as the authoritative sellable quantity.
	UpdateDisplayedStock(ctx context.Context, productID string, stock int) error
}

// StockChange describes one reservation lifecycle transition for event
// publication.
type StockChange struct {
	Kind           string
	ProductID      string
	SellerID       string
	OrderID        string
	CustomerID     string
	Quantity       int
	AvailableStock int
}

// Stock change kinds
const (
	ChangeReserved = "reserved"
	ChangeReleased = "released"
	ChangeSold     = "sold"
	ChangeLowStock = "low_stock"
)

// EventPublisher emits stock change events. Implementations must not
// block the mutation path on broker failures.
type EventPublisher interface {
	PublishStockChange(ctx context.Context, change StockChange) error
}

// NopPublisher discards all events. Used when no broker is configured.
type NopPublisher struct{}

// PublishStockChange implements EventPublisher
func (NopPublisher) PublishStockChange(ctx context.Context, change StockChange) error {
	return nil
}
