package command

import (
	"context"
	"testing"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

func newBatchHandlers(store *Store) (*ReserveBatchHandler, *ConfirmBatchHandler, *ReleaseBatchHandler) {
	reserve := NewReserveHandler(store, nil, nil)
	confirm := NewConfirmHandler(store, nil)
	release := NewReleaseHandler(store, nil)
	return NewReserveBatchHandler(reserve, release),
		NewConfirmBatchHandler(confirm),
		NewReleaseBatchHandler(store, release)
}

func TestReserveBatch_AllSucceed(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 10, 0)
	seedProduct(t, store, "prod-b", 5, 0)

	batch, _, _ := newBatchHandlers(store)
	result, err := batch.Handle(context.Background(), ReserveBatchCommand{
		OrderID:    "order-1",
		CustomerID: "cust-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(result.Successful) != 2 || len(result.Failed) != 0 {
		t.Errorf("successful=%d failed=%d, want 2/0", len(result.Successful), len(result.Failed))
	}

	if record := mustFind(t, store, "prod-a"); record.ReservedStock != 2 {
		t.Errorf("prod-a ReservedStock = %d, want 2", record.ReservedStock)
	}
	if record := mustFind(t, store, "prod-b"); record.ReservedStock != 3 {
		t.Errorf("prod-b ReservedStock = %d, want 3", record.ReservedStock)
	}
}

func TestReserveBatch_PartialFailureRollsBack(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 10, 0)
	seedProduct(t, store, "prod-b", 1, 0)

	batch, _, _ := newBatchHandlers(store)
	result, err := batch.Handle(context.Background(), ReserveBatchCommand{
		OrderID: "order-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 5}, // more than available
		},
	})
	if err != nil {
		t.Fatalf("batch returned an error instead of a failed result: %v", err)
	}
	if result.Success {
		t.Fatal("expected failed batch")
	}
	if len(result.Failed) != 1 || result.Failed[0].ProductID != "prod-b" {
		t.Errorf("failed items = %+v, want prod-b", result.Failed)
	}

	// Compensation returned prod-a to its starting state
	record := mustFind(t, store, "prod-a")
	if record.ReservedStock != 0 || record.AvailableStock != 10 {
		t.Errorf("prod-a after rollback: reserved %d available %d, want 0/10",
			record.ReservedStock, record.AvailableStock)
	}
	if record.Reservations[0].Status != domain.ReservationCancelled {
		t.Errorf("rolled back reservation status = %s, want cancelled", record.Reservations[0].Status)
	}

	// The audit trail keeps both the hold and its compensation
	last := record.Movements[len(record.Movements)-1]
	if last.Type != domain.MovementReleased || last.Reason != ReasonRollback {
		t.Errorf("last movement = %+v, want rollback release", last)
	}
}

func TestReserveBatch_FirstItemFails(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 0, 0)
	seedProduct(t, store, "prod-b", 10, 0)

	batch, _, _ := newBatchHandlers(store)
	result, err := batch.Handle(context.Background(), ReserveBatchCommand{
		OrderID: "order-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 1},
			{ProductID: "prod-b", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Fatal("expected failed batch")
	}

	// Later items were never attempted
	record := mustFind(t, store, "prod-b")
	if len(record.Reservations) != 0 {
		t.Errorf("prod-b should be untouched, got %+v", record.Reservations)
	}
}

func TestConfirmBatch(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 10, 0)
	seedProduct(t, store, "prod-b", 10, 0)
	ctx := context.Background()

	batch, confirmBatch, _ := newBatchHandlers(store)
	if _, err := batch.Handle(ctx, ReserveBatchCommand{
		OrderID: "order-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 3},
		},
	}); err != nil {
		t.Fatal(err)
	}

	result, err := confirmBatch.Handle(ctx, ConfirmBatchCommand{
		OrderID: "order-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 3},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	if record := mustFind(t, store, "prod-a"); record.SoldStock != 2 {
		t.Errorf("prod-a SoldStock = %d, want 2", record.SoldStock)
	}
	if record := mustFind(t, store, "prod-b"); record.SoldStock != 3 {
		t.Errorf("prod-b SoldStock = %d, want 3", record.SoldStock)
	}
}

func TestConfirmBatch_ReportsMissingHolds(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 10, 0)
	seedProduct(t, store, "prod-b", 10, 0)
	ctx := context.Background()

	reserve := NewReserveHandler(store, nil, nil)
	if _, err := reserve.Handle(ctx, ReserveCommand{ProductID: "prod-a", OrderID: "order-1", Quantity: 2}); err != nil {
		t.Fatal(err)
	}

	_, confirmBatch, _ := newBatchHandlers(store)
	result, err := confirmBatch.Handle(ctx, ConfirmBatchCommand{
		OrderID: "order-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 2},
			{ProductID: "prod-b", Quantity: 3}, // never reserved
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Fatal("expected partial failure")
	}
	if len(result.Successful) != 1 || len(result.Failed) != 1 {
		t.Errorf("successful=%d failed=%d, want 1/1", len(result.Successful), len(result.Failed))
	}

	// Confirmed sales stay confirmed; no rollback on confirm
	if record := mustFind(t, store, "prod-a"); record.SoldStock != 2 {
		t.Errorf("prod-a SoldStock = %d, want 2", record.SoldStock)
	}
}

func TestReleaseBatch_DiscoversProducts(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 10, 0)
	seedProduct(t, store, "prod-b", 10, 0)
	seedProduct(t, store, "prod-c", 10, 0)
	ctx := context.Background()

	batch, _, releaseBatch := newBatchHandlers(store)
	if _, err := batch.Handle(ctx, ReserveBatchCommand{
		OrderID: "order-1",
		Items: []BatchItem{
			{ProductID: "prod-a", Quantity: 1},
			{ProductID: "prod-b", Quantity: 2},
		},
	}); err != nil {
		t.Fatal(err)
	}

	result, err := releaseBatch.Handle(ctx, ReleaseBatchCommand{OrderID: "order-1", Reason: "Order cancelled"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || len(result.Successful) != 2 {
		t.Fatalf("expected 2 releases, got %+v", result)
	}

	for _, productID := range []string{"prod-a", "prod-b"} {
		record := mustFind(t, store, productID)
		if record.ReservedStock != 0 || record.AvailableStock != 10 {
			t.Errorf("%s after release: reserved %d available %d, want 0/10",
				productID, record.ReservedStock, record.AvailableStock)
		}
	}
}

func TestReleaseBatch_NothingToRelease(t *testing.T) {
	store, _ := newTestStore()
	seedProduct(t, store, "prod-a", 10, 0)

	_, _, releaseBatch := newBatchHandlers(store)
	result, err := releaseBatch.Handle(context.Background(), ReleaseBatchCommand{OrderID: "ghost-order"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || len(result.Successful) != 0 {
		t.Errorf("releasing an unknown order should succeed with zero items, got %+v", result)
	}
}
