//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

// InitializeApp initializes the application with a gorm-backed repository
func InitializeApp(db *gorm.DB, catalog domain.CatalogGateway, events domain.EventPublisher) (*App, error) {
	wire.Build(
		ProvideGormRepository,
		AppSet,
	)
	return nil, nil
}

// InitializeAppWithRepository initializes the application with an explicit
// repository implementation
func InitializeAppWithRepository(repo domain.InventoryRepository, catalog domain.CatalogGateway, events domain.EventPublisher) (*App, error) {
	wire.Build(AppSet)
	return nil, nil
}
