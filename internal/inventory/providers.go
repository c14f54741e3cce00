package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/inventory-reservation/internal/inventory/delivery/http"
	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/internal/inventory/repository"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/command"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/query"
	"github.com/tair/inventory-reservation/pkg/keymutex"
)

// App bundles the HTTP handler with the use cases the background loops need
type App struct {
	Handler      *http.InventoryHandler
	Sweep        *command.SweepExpiredHandler
	Initialize   *command.InitializeRecordsHandler
	Sync         *command.SyncCatalogHandler
	ConfirmBatch *command.ConfirmBatchHandler
	ReleaseBatch *command.ReleaseBatchHandler
}

// ProvideGormRepository provides the gorm-backed inventory repository wrapped
// with tracing
func ProvideGormRepository(db *gorm.DB) domain.InventoryRepository {
	return repository.NewTracingRepository(repository.NewGormInventoryRepository(db))
}

// Wire sets
var UsecaseSet = wire.NewSet(
	keymutex.New,
	command.NewStore,
	command.NewReserveHandler,
	command.NewConfirmHandler,
	command.NewReleaseHandler,
	command.NewAdjustStockHandler,
	command.NewAddStockHandler,
	command.NewProcessReturnHandler,
	command.NewDeactivateHandler,
	command.NewReserveBatchHandler,
	command.NewConfirmBatchHandler,
	command.NewReleaseBatchHandler,
	command.NewSweepExpiredHandler,
	command.NewInitializeRecordsHandler,
	command.NewSyncCatalogHandler,
	query.NewGetStockSummaryHandler,
	query.NewListMovementsHandler,
	query.NewListReservationsHandler,
	query.NewSellerOverviewHandler,
)

var AppSet = wire.NewSet(
	UsecaseSet,
	http.NewInventoryHandler,
	wire.Struct(new(App), "*"),
)
