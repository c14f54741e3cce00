package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
)

func getPostgresDB(t *testing.T) *gorm.DB {
	dsn := os.Getenv("INVENTORY_TEST_DSN")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=inventory_test port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Skipf("Postgres not available: %v", err)
	}

	if err := db.AutoMigrate(&domain.InventoryRecord{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Cleanup rows left behind by earlier runs
	db.Where("product_id LIKE ?", "it-%").Delete(&domain.InventoryRecord{})

	return db
}

func TestGormRepository_CreateAndFind(t *testing.T) {
	db := getPostgresDB(t)
	repo := NewGormInventoryRepository(db)
	ctx := context.Background()

	record := &domain.InventoryRecord{
		ProductID:         "it-roundtrip",
		SellerID:          "it-seller",
		TotalStock:        20,
		LowStockThreshold: 5,
		IsActive:          true,
		Reservations: domain.ReservationList{{
			OrderID:    "it-order-1",
			CustomerID: "it-customer",
			Quantity:   3,
			Status:     domain.ReservationActive,
			ReservedAt: time.Now().UTC(),
			ExpiresAt:  time.Now().UTC().Add(15 * time.Minute),
		}},
	}
	record.ReservedStock = 3
	record.Recompute()

	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer db.Where("product_id = ?", record.ProductID).Delete(&domain.InventoryRecord{})

	found, err := repo.FindByProductID(ctx, "it-roundtrip")
	if err != nil {
		t.Fatalf("FindByProductID failed: %v", err)
	}
	if found.AvailableStock != 17 {
		t.Errorf("expected available 17, got %d", found.AvailableStock)
	}
	if len(found.Reservations) != 1 || found.Reservations[0].OrderID != "it-order-1" {
		t.Errorf("reservations did not survive the round trip: %+v", found.Reservations)
	}
}

func TestGormRepository_UpdateVersionConflict(t *testing.T) {
	db := getPostgresDB(t)
	repo := NewGormInventoryRepository(db)
	ctx := context.Background()

	record := &domain.InventoryRecord{
		ProductID:  "it-conflict",
		SellerID:   "it-seller",
		TotalStock: 10,
		IsActive:   true,
	}
	record.Recompute()
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer db.Where("product_id = ?", record.ProductID).Delete(&domain.InventoryRecord{})

	first, _ := repo.FindByProductID(ctx, "it-conflict")
	second, _ := repo.FindByProductID(ctx, "it-conflict")

	first.TotalStock = 15
	first.Recompute()
	if err := repo.Update(ctx, first); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	second.TotalStock = 99
	second.Recompute()
	if err := repo.Update(ctx, second); err != domain.ErrVersionConflict {
		t.Errorf("expected ErrVersionConflict, got: %v", err)
	}

	found, _ := repo.FindByProductID(ctx, "it-conflict")
	if found.TotalStock != 15 {
		t.Errorf("expected total 15, got %d", found.TotalStock)
	}
	if found.Version != first.Version {
		t.Errorf("expected version %d, got %d", first.Version, found.Version)
	}
}

func TestGormRepository_FindProductIDsWithExpired(t *testing.T) {
	db := getPostgresDB(t)
	repo := NewGormInventoryRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	expired := &domain.InventoryRecord{
		ProductID:  "it-expired",
		SellerID:   "it-seller",
		TotalStock: 10,
		IsActive:   true,
		Reservations: domain.ReservationList{{
			OrderID:    "it-order-expired",
			Quantity:   2,
			Status:     domain.ReservationActive,
			ReservedAt: now.Add(-time.Hour),
			ExpiresAt:  now.Add(-time.Minute),
		}},
	}
	expired.ReservedStock = 2
	expired.Recompute()

	fresh := &domain.InventoryRecord{
		ProductID:  "it-fresh",
		SellerID:   "it-seller",
		TotalStock: 10,
		IsActive:   true,
		Reservations: domain.ReservationList{{
			OrderID:    "it-order-fresh",
			Quantity:   1,
			Status:     domain.ReservationActive,
			ReservedAt: now,
			ExpiresAt:  now.Add(time.Hour),
		}},
	}
	fresh.ReservedStock = 1
	fresh.Recompute()

	for _, rec := range []*domain.InventoryRecord{expired, fresh} {
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create %s failed: %v", rec.ProductID, err)
		}
	}
	defer db.Where("product_id IN ?", []string{"it-expired", "it-fresh"}).Delete(&domain.InventoryRecord{})

	ids, err := repo.FindProductIDsWithExpired(ctx, now)
	if err != nil {
		t.Fatalf("FindProductIDsWithExpired failed: %v", err)
	}

	foundExpired := false
	for _, id := range ids {
		if id == "it-fresh" {
			t.Error("fresh reservation reported as expired")
		}
		if id == "it-expired" {
			foundExpired = true
		}
	}
	if !foundExpired {
		t.Error("expired reservation not reported")
	}
}
