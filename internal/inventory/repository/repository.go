package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// GormInventoryRepository persists inventory records in Postgres.
// Reservations and movements live in JSONB columns on the record, so one
// row is the whole unit of consistency. Writes go through an optimistic
// version check.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new repository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// AutoMigrate creates or updates the inventory_records table
func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryRecord{})
}

// Create inserts a new record
func (r *GormInventoryRepository) Create(ctx context.Context, record *domain.InventoryRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByProductID loads one record by its product key
func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	var record domain.InventoryRecord
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindBySeller lists a seller's records with optional stock-state filters
func (r *GormInventoryRepository) FindBySeller(ctx context.Context, sellerID string, filter domain.SellerFilter, limit, offset int) ([]domain.InventoryRecord, error) {
	q := r.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if filter.LowStockOnly {
		q = q.Where("is_low_stock = ?", true)
	}
	if filter.OutOfStockOnly {
		q = q.Where("is_out_of_stock = ?", true)
	}

	var records []domain.InventoryRecord
	err := q.Order("product_id").Limit(limit).Offset(offset).Find(&records).Error
	return records, err
}

// FindAll lists records ordered by product key
func (r *GormInventoryRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryRecord, error) {
	var records []domain.InventoryRecord
	err := r.db.WithContext(ctx).Order("product_id").Limit(limit).Offset(offset).Find(&records).Error
	return records, err
}

// Update writes the record back, guarded by its version. RowsAffected == 0
// means another writer got there first and the caller must reload.
func (r *GormInventoryRepository) Update(ctx context.Context, record *domain.InventoryRecord) error {
	current := record.Version
	res := r.db.WithContext(ctx).Model(&domain.InventoryRecord{}).
		Where("product_id = ? AND version = ?", record.ProductID, current).
		Updates(map[string]interface{}{
			"seller_id":           record.SellerID,
			"total_stock":         record.TotalStock,
			"reserved_stock":      record.ReservedStock,
			"sold_stock":          record.SoldStock,
			"available_stock":     record.AvailableStock,
			"low_stock_threshold": record.LowStockThreshold,
			"is_out_of_stock":     record.IsOutOfStock,
			"is_low_stock":        record.IsLowStock,
			"is_active":           record.IsActive,
			"reservations":        record.Reservations,
			"movements":           record.Movements,
			"version":             current + 1,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrVersionConflict
	}
	record.Version = current + 1
	return nil
}

// FindProductIDsWithExpired narrows the sweep to records actually holding
// an expired active reservation, instead of scanning every record.
func (r *GormInventoryRepository) FindProductIDsWithExpired(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT product_id FROM inventory_records
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(reservations) AS res
			WHERE res->>'status' = 'active'
			  AND (res->>'expires_at')::timestamptz < ?
		)`, now).Scan(&ids).Error
	return ids, err
}

// FindProductIDsWithOrder returns products with an active reservation for
// the order.
func (r *GormInventoryRepository) FindProductIDsWithOrder(ctx context.Context, orderID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT product_id FROM inventory_records
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(reservations) AS res
			WHERE res->>'status' = 'active'
			  AND res->>'order_id' = ?
		)`, orderID).Scan(&ids).Error
	return ids, err
}

// SellerStats aggregates counters across a seller's records
func (r *GormInventoryRepository) SellerStats(ctx context.Context, sellerID string) (*domain.SellerStats, error) {
	var stats domain.SellerStats
	err := r.db.WithContext(ctx).Model(&domain.InventoryRecord{}).
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(total_stock), 0) AS total_stock,
			COALESCE(SUM(reserved_stock), 0) AS total_reserved,
			COALESCE(SUM(sold_stock), 0) AS total_sold,
			COALESCE(SUM(CASE WHEN is_low_stock THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(CASE WHEN is_out_of_stock THEN 1 ELSE 0 END), 0) AS out_of_stock_count`).
		Where("seller_id = ?", sellerID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
