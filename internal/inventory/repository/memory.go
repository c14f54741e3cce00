package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// MemoryInventoryRepository keeps inventory records in process memory.
// Used for single-node deployments and tests. It enforces the same
// optimistic version contract as the Postgres repository.
type MemoryInventoryRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.InventoryRecord
}

// NewMemoryInventoryRepository creates a new in-memory repository
func NewMemoryInventoryRepository() *MemoryInventoryRepository {
	return &MemoryInventoryRepository{
		records: make(map[string]*domain.InventoryRecord),
	}
}

// Create inserts a new record
func (r *MemoryInventoryRepository) Create(ctx context.Context, record *domain.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ProductID]; exists {
		return domain.ErrVersionConflict
	}

	stored := record.Clone()
	stored.ID = uint(len(r.records) + 1)
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.records[record.ProductID] = stored
	record.ID = stored.ID
	return nil
}

// FindByProductID loads one record by its product key
func (r *MemoryInventoryRepository) FindByProductID(ctx context.Context, productID string) (*domain.InventoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return record.Clone(), nil
}

// FindBySeller lists a seller's records with optional stock-state filters
func (r *MemoryInventoryRepository) FindBySeller(ctx context.Context, sellerID string, filter domain.SellerFilter, limit, offset int) ([]domain.InventoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.InventoryRecord
	for _, record := range r.sortedLocked() {
		if record.SellerID != sellerID {
			continue
		}
		if filter.LowStockOnly && !record.IsLowStock {
			continue
		}
		if filter.OutOfStockOnly && !record.IsOutOfStock {
			continue
		}
		matched = append(matched, *record.Clone())
	}
	return paginate(matched, limit, offset), nil
}

// FindAll lists records ordered by product key
func (r *MemoryInventoryRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []domain.InventoryRecord
	for _, record := range r.sortedLocked() {
		all = append(all, *record.Clone())
	}
	return paginate(all, limit, offset), nil
}

// Update writes the record back, guarded by its version
func (r *MemoryInventoryRepository) Update(ctx context.Context, record *domain.InventoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[record.ProductID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if stored.Version != record.Version {
		return domain.ErrVersionConflict
	}

	next := record.Clone()
	next.ID = stored.ID
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	next.Version = stored.Version + 1
	r.records[record.ProductID] = next
	record.Version = next.Version
	return nil
}

// FindProductIDsWithExpired returns products holding an expired active
// reservation
func (r *MemoryInventoryRepository) FindProductIDsWithExpired(ctx context.Context, now time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, record := range r.sortedLocked() {
		if len(record.ExpiredReservations(now)) > 0 {
			ids = append(ids, record.ProductID)
		}
	}
	return ids, nil
}

// FindProductIDsWithOrder returns products with an active reservation for
// the order
func (r *MemoryInventoryRepository) FindProductIDsWithOrder(ctx context.Context, orderID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for _, record := range r.sortedLocked() {
		if record.ActiveReservation(orderID) != nil {
			ids = append(ids, record.ProductID)
		}
	}
	return ids, nil
}

// SellerStats aggregates counters across a seller's records
func (r *MemoryInventoryRepository) SellerStats(ctx context.Context, sellerID string) (*domain.SellerStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &domain.SellerStats{}
	for _, record := range r.records {
		if record.SellerID != sellerID {
			continue
		}
		stats.TotalProducts++
		stats.TotalStock += record.TotalStock
		stats.TotalReserved += record.ReservedStock
		stats.TotalSold += record.SoldStock
		if record.IsLowStock {
			stats.LowStockCount++
		}
		if record.IsOutOfStock {
			stats.OutOfStockCount++
		}
	}
	return stats, nil
}

func (r *MemoryInventoryRepository) sortedLocked() []*domain.InventoryRecord {
	out := make([]*domain.InventoryRecord, 0, len(r.records))
	for _, record := range r.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func paginate(records []domain.InventoryRecord, limit, offset int) []domain.InventoryRecord {
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
