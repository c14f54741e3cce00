package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
)

const syncPageSize = 200

// SyncCatalogHandler pushes the ledger's available stock back to the
// catalog wherever the two diverge. The ledger is authoritative for
// sellable quantity; the catalog only displays it.
type SyncCatalogHandler struct {
	store   *Store
	catalog domain.CatalogGateway
}

// NewSyncCatalogHandler creates a new catalog sync handler
func NewSyncCatalogHandler(store *Store, catalog domain.CatalogGateway) *SyncCatalogHandler {
	return &SyncCatalogHandler{store: store, catalog: catalog}
}

// Handle walks every record and returns the count pushed
func (h *SyncCatalogHandler) Handle(ctx context.Context) (int, error) {
	if h.catalog == nil {
		return 0, fmt.Errorf("catalog gateway is not configured")
	}

	synced := 0
	for offset := 0; ; offset += syncPageSize {
		records, err := h.store.Repo().FindAll(ctx, syncPageSize, offset)
		if err != nil {
			return synced, fmt.Errorf("failed to list inventory records: %w", err)
		}
		if len(records) == 0 {
			break
		}

		for _, record := range records {
			product, err := h.catalog.GetProduct(ctx, record.ProductID)
			if err != nil {
				logger.Warn(ctx).
					Err(err).
					Str("product_id", record.ProductID).
					Msg("Catalog lookup failed during sync")
				continue
			}
			if product.Stock == record.AvailableStock {
				continue
			}

			if err := h.catalog.UpdateDisplayedStock(ctx, record.ProductID, record.AvailableStock); err != nil {
				logger.Error(ctx).
					Err(err).
					Str("product_id", record.ProductID).
					Msg("Failed to push stock to catalog")
				continue
			}
			synced++
		}

		if len(records) < syncPageSize {
			break
		}
	}

	logger.Info(ctx).Int("synced", synced).Msg("Catalog sync complete")
	return synced, nil
}
