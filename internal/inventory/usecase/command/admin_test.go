package command

import (
	"context"
	"sync"
	"testing"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

func TestInitializeRecords_CreatesMissingOnly(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-existing", 10, 0)

	catalog := newMockCatalog(
		domain.CatalogProduct{ProductID: "prod-existing", SellerID: "seller-1", Stock: 99, IsActive: true},
		domain.CatalogProduct{ProductID: "prod-new", SellerID: "seller-1", Stock: 7, IsActive: true},
		domain.CatalogProduct{ProductID: "prod-inactive", SellerID: "seller-1", Stock: 5, IsActive: false},
	)

	handler := NewInitializeRecordsHandler(store, catalog)
	created, err := handler.Handle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}

	// Existing records keep their ledger counters, not the catalog's
	existing := mustFind(t, store, "prod-existing")
	if existing.TotalStock != 10 {
		t.Errorf("existing record total = %d, want 10 (not reseeded)", existing.TotalStock)
	}

	fresh := mustFind(t, store, "prod-new")
	if fresh.TotalStock != 7 {
		t.Errorf("new record total = %d, want 7", fresh.TotalStock)
	}
}

func TestInitializeRecords_NoCatalog(t *testing.T) {
	store, _ := newTestStore()
	handler := NewInitializeRecordsHandler(store, nil)
	if _, err := handler.Handle(context.Background()); err == nil {
		t.Error("expected error when no catalog is configured")
	}
}

func TestSyncCatalog_PushesDivergedOnly(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-diverged", 10, 0)
	seedProduct(t, store, "prod-aligned", 5, 0)
	ctx := context.Background()

	// Reserve 3 of prod-diverged, so its available drops to 7
	reserve := NewReserveHandler(store, nil, nil)
	if _, err := reserve.Handle(ctx, ReserveCommand{ProductID: "prod-diverged", OrderID: "order-1", Quantity: 3}); err != nil {
		t.Fatal(err)
	}

	catalog := newMockCatalog(
		domain.CatalogProduct{ProductID: "prod-diverged", Stock: 10, IsActive: true},
		domain.CatalogProduct{ProductID: "prod-aligned", Stock: 5, IsActive: true},
	)

	handler := NewSyncCatalogHandler(store, catalog)
	synced, err := handler.Handle(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if synced != 1 {
		t.Errorf("synced = %d, want 1", synced)
	}
	if got := catalog.pushed["prod-diverged"]; got != 7 {
		t.Errorf("pushed stock = %d, want 7", got)
	}
	if _, pushed := catalog.pushed["prod-aligned"]; pushed {
		t.Error("aligned product should not be pushed")
	}
}

// Concurrent reserving through the store must never oversell.
func TestStore_ConcurrentReserves(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 50, 0)

	handler := NewReserveHandler(store, nil, nil)

	const workers = 100
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), ReserveCommand{
				ProductID: "prod-1",
				OrderID:   orderID(n),
				Quantity:  1,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if succeeded != 50 {
		t.Errorf("succeeded = %d, want exactly 50", succeeded)
	}

	record := mustFind(t, store, "prod-1")
	if record.ReservedStock != 50 || record.AvailableStock != 0 {
		t.Errorf("reserved=%d available=%d, want 50/0", record.ReservedStock, record.AvailableStock)
	}
	if got := record.ActiveReservedQuantity(); got != record.ReservedStock {
		t.Errorf("active reserved quantity %d does not match counter %d", got, record.ReservedStock)
	}
}

func orderID(n int) string {
	return "order-" + string(rune('A'+n/26)) + string(rune('A'+n%26))
}
