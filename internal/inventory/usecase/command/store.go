package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/keymutex"
)

// maxRetries bounds reloads after an optimistic version conflict. With
// the per-key mutex in front, conflicts only come from other instances
// sharing the database.
const maxRetries = 3

// errNoChange tells Mutate the closure found nothing to do; the record is
// returned unchanged and no write is issued.
var errNoChange = errors.New("no change")

// Store is the single mutation path for inventory records. Every mutating
// handler goes through Mutate, which serializes work per product key,
// recomputes the derived fields before persisting, and retries on
// optimistic conflicts.
type Store struct {
	repo  domain.InventoryRepository
	locks *keymutex.KeyMutex
}

// NewStore creates a new store
func NewStore(repo domain.InventoryRepository, locks *keymutex.KeyMutex) *Store {
	return &Store{repo: repo, locks: locks}
}

// Repo exposes the underlying repository for read paths
func (s *Store) Repo() domain.InventoryRepository {
	return s.repo
}

// Mutate loads the record for productID, applies fn, recomputes derived
// fields, and persists. fn runs under the product's lock and must confine
// itself to this one record.
func (s *Store) Mutate(ctx context.Context, productID string, fn func(record *domain.InventoryRecord) error) (*domain.InventoryRecord, error) {
	s.locks.Lock(productID)
	defer s.locks.Unlock(productID)

	for attempt := 0; ; attempt++ {
		record, err := s.repo.FindByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}

		if err := fn(record); err != nil {
			if errors.Is(err, errNoChange) {
				return record, nil
			}
			return nil, err
		}

		record.Recompute()

		err = s.repo.Update(ctx, record)
		if err == nil {
			return record, nil
		}
		if errors.Is(err, domain.ErrVersionConflict) && attempt < maxRetries {
			continue
		}
		return nil, fmt.Errorf("failed to persist inventory record: %w", err)
	}
}

// Provision creates a record seeded from the catalog product. The seed is
// read-only input; the ledger is authoritative from this point on.
func (s *Store) Provision(ctx context.Context, product *domain.CatalogProduct) (*domain.InventoryRecord, error) {
	record := &domain.InventoryRecord{
		ProductID:         product.ProductID,
		SellerID:          product.SellerID,
		TotalStock:        product.Stock,
		LowStockThreshold: product.LowStockAlert,
		IsActive:          product.IsActive,
		Reservations:      domain.ReservationList{},
		Movements:         domain.MovementList{},
	}
	record.Recompute()

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to provision inventory record: %w", err)
	}
	return record, nil
}
