package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/pkg/logger"
)

// InitializeRecordsHandler creates an inventory record for every active
// catalog product that does not have one yet, seeded from catalog stock.
type InitializeRecordsHandler struct {
	store   *Store
	catalog domain.CatalogGateway
}

// NewInitializeRecordsHandler creates a new initialize handler
func NewInitializeRecordsHandler(store *Store, catalog domain.CatalogGateway) *InitializeRecordsHandler {
	return &InitializeRecordsHandler{store: store, catalog: catalog}
}

// Handle provisions missing records and returns the count created
func (h *InitializeRecordsHandler) Handle(ctx context.Context) (int, error) {
	if h.catalog == nil {
		return 0, fmt.Errorf("catalog gateway is not configured")
	}

	products, err := h.catalog.ListActiveProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list catalog products: %w", err)
	}

	created := 0
	for i := range products {
		product := products[i]
		_, err := h.store.Repo().FindByProductID(ctx, product.ProductID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			return created, err
		}

		if _, err := h.store.Provision(ctx, &product); err != nil {
			logger.Error(ctx).
				Err(err).
				Str("product_id", product.ProductID).
				Msg("Failed to provision inventory record")
			continue
		}
		created++
	}

	logger.Info(ctx).
		Int("created", created).
		Int("catalog_products", len(products)).
		Msg("Inventory initialization complete")
	return created, nil
}
