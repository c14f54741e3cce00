package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

func TestReserve_Success(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 10, 0)

	handler := NewReserveHandler(store, nil, nil)
	result, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID:  "prod-1",
		OrderID:    "order-1",
		CustomerID: "cust-1",
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if result.AvailableStock != 7 {
		t.Errorf("AvailableStock = %d, want 7", result.AvailableStock)
	}
	if result.ExpiresAt.IsZero() {
		t.Error("ExpiresAt should be set")
	}

	record := mustFind(t, store, "prod-1")
	if record.TotalStock != 10 {
		t.Errorf("TotalStock = %d, want 10 (reserve must not change total)", record.TotalStock)
	}
	if record.ReservedStock != 3 {
		t.Errorf("ReservedStock = %d, want 3", record.ReservedStock)
	}
	if record.AvailableStock != 7 {
		t.Errorf("AvailableStock = %d, want 7", record.AvailableStock)
	}
	if got := record.ActiveReservedQuantity(); got != record.ReservedStock {
		t.Errorf("active reserved quantity %d does not match ReservedStock %d", got, record.ReservedStock)
	}
	if len(record.Movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(record.Movements))
	}
	m := record.Movements[0]
	if m.Type != domain.MovementReserved {
		t.Errorf("movement type = %s, want reserved", m.Type)
	}
	if m.Quantity != -3 {
		t.Errorf("movement quantity = %d, want -3 (reserve reduces availability)", m.Quantity)
	}
	if m.PreviousStock != 10 || m.NewStock != 7 {
		t.Errorf("movement stock window = %d -> %d, want 10 -> 7", m.PreviousStock, m.NewStock)
	}
}

func TestReserve_DefaultTTL(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 10, 0)

	handler := NewReserveHandler(store, nil, nil)
	before := time.Now().UTC()
	result, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "prod-1",
		OrderID:   "order-1",
		Quantity:  1,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := before.Add(DefaultReservationTTL)
	if result.ExpiresAt.Before(want.Add(-time.Minute)) || result.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", result.ExpiresAt, want)
	}
}

func TestReserve_InsufficientStock(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 5, 0)

	handler := NewReserveHandler(store, nil, nil)
	_, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "prod-1",
		OrderID:   "order-1",
		Quantity:  6,
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// A failed attempt leaves nothing behind
	record := mustFind(t, store, "prod-1")
	if record.ReservedStock != 0 || len(record.Reservations) != 0 || len(record.Movements) != 0 {
		t.Errorf("failed reserve must not mutate the record: %+v", record)
	}
}

func TestReserve_ExactRemainingStock(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 5, 0)

	handler := NewReserveHandler(store, nil, nil)
	result, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "prod-1",
		OrderID:   "order-1",
		Quantity:  5,
	})
	if err != nil {
		t.Fatalf("reserving the full remaining stock must succeed: %v", err)
	}
	if result.AvailableStock != 0 {
		t.Errorf("AvailableStock = %d, want 0", result.AvailableStock)
	}

	record := mustFind(t, store, "prod-1")
	if !record.IsOutOfStock {
		t.Error("record should be flagged out of stock")
	}
}

func TestReserve_DuplicateOrder(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 10, 0)

	handler := NewReserveHandler(store, nil, nil)
	ctx := context.Background()

	if _, err := handler.Handle(ctx, ReserveCommand{ProductID: "prod-1", OrderID: "order-1", Quantity: 2}); err != nil {
		t.Fatal(err)
	}

	_, err := handler.Handle(ctx, ReserveCommand{ProductID: "prod-1", OrderID: "order-1", Quantity: 2})
	if !errors.Is(err, domain.ErrDuplicateReservation) {
		t.Fatalf("expected ErrDuplicateReservation, got %v", err)
	}

	record := mustFind(t, store, "prod-1")
	if record.ReservedStock != 2 {
		t.Errorf("ReservedStock = %d, want 2 (duplicate must not double-reserve)", record.ReservedStock)
	}
}

func TestReserve_UnknownProductWithoutCatalog(t *testing.T) {
	store, _ := newTestStore()

	handler := NewReserveHandler(store, nil, nil)
	_, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "ghost",
		OrderID:   "order-1",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReserve_LazyProvisionFromCatalog(t *testing.T) {
	store, _ := newTestStore()
	catalog := newMockCatalog(domain.CatalogProduct{
		ProductID:     "prod-new",
		SellerID:      "seller-9",
		Stock:         20,
		LowStockAlert: 5,
		IsActive:      true,
	})

	handler := NewReserveHandler(store, catalog, nil)
	result, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "prod-new",
		OrderID:   "order-1",
		Quantity:  4,
	})
	if err != nil {
		t.Fatalf("expected lazy provisioning to kick in, got %v", err)
	}
	if result.AvailableStock != 16 {
		t.Errorf("AvailableStock = %d, want 16", result.AvailableStock)
	}

	record := mustFind(t, store, "prod-new")
	if record.SellerID != "seller-9" || record.TotalStock != 20 || record.LowStockThreshold != 5 {
		t.Errorf("record not seeded from catalog: %+v", record)
	}
}

func TestReserve_UnknownProductNotInCatalog(t *testing.T) {
	store, _ := newTestStore()
	catalog := newMockCatalog()

	handler := NewReserveHandler(store, catalog, nil)
	_, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "ghost",
		OrderID:   "order-1",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestReserve_InactiveProduct(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 10, 0)

	deactivate := NewDeactivateHandler(store)
	if _, err := deactivate.Handle(context.Background(), DeactivateCommand{ProductID: "prod-1"}); err != nil {
		t.Fatal(err)
	}

	handler := NewReserveHandler(store, nil, nil)
	_, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "prod-1",
		OrderID:   "order-1",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for deactivated product, got %v", err)
	}
}

func TestReserve_PublishesEvents(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-1", 10, 8)

	events := &mockPublisher{}
	handler := NewReserveHandler(store, nil, events)
	_, err := handler.Handle(context.Background(), ReserveCommand{
		ProductID: "prod-1",
		OrderID:   "order-1",
		Quantity:  4,
	})
	if err != nil {
		t.Fatal(err)
	}

	// 6 remaining with threshold 8: reserved plus low stock alert
	kinds := events.kinds()
	if len(kinds) != 2 || kinds[0] != domain.ChangeReserved || kinds[1] != domain.ChangeLowStock {
		t.Errorf("published kinds = %v, want [reserved low_stock]", kinds)
	}
}

func TestReserve_Validation(t *testing.T) {
	store, _ := newTestStore()
	handler := NewReserveHandler(store, nil, nil)
	ctx := context.Background()

	if _, err := handler.Handle(ctx, ReserveCommand{OrderID: "o", Quantity: 1}); err == nil {
		t.Error("expected error for missing product_id")
	}
	if _, err := handler.Handle(ctx, ReserveCommand{ProductID: "p", Quantity: 1}); err == nil {
		t.Error("expected error for missing order_id")
	}
	if _, err := handler.Handle(ctx, ReserveCommand{ProductID: "p", OrderID: "o", Quantity: 0}); err == nil {
		t.Error("expected error for zero quantity")
	}
}
