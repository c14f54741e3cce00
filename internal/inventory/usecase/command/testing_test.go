package command

import (
	"context"
	"sync"
	"testing"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/internal/inventory/repository"
	"github.com/tair/inventory-reservation/pkg/keymutex"
)

func newTestStore() (*Store, *repository.MemoryInventoryRepository) {
	repo := repository.NewMemoryInventoryRepository()
	return NewStore(repo, keymutex.New()), repo
}

func seedProduct(t *testing.T, store *Store, productID string, total, threshold int) {
	t.Helper()
	_, err := store.Provision(context.Background(), &domain.CatalogProduct{
		ProductID:     productID,
		SellerID:      "seller-1",
		Stock:         total,
		LowStockAlert: threshold,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", productID, err)
	}
}

func mustFind(t *testing.T, store *Store, productID string) *domain.InventoryRecord {
	t.Helper()
	record, err := store.Repo().FindByProductID(context.Background(), productID)
	if err != nil {
		t.Fatalf("failed to load record %s: %v", productID, err)
	}
	return record
}

// Mock CatalogGateway
type mockCatalog struct {
	mu       sync.Mutex
	products map[string]domain.CatalogProduct
	pushed   map[string]int
	getCalls int
}

func newMockCatalog(products ...domain.CatalogProduct) *mockCatalog {
	m := &mockCatalog{
		products: make(map[string]domain.CatalogProduct),
		pushed:   make(map[string]int),
	}
	for _, p := range products {
		m.products[p.ProductID] = p
	}
	return m
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID string) (*domain.CatalogProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	p, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockCatalog) ListActiveProducts(ctx context.Context) ([]domain.CatalogProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CatalogProduct
	for _, p := range m.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) UpdateDisplayedStock(ctx context.Context, productID string, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushed[productID] = stock
	return nil
}

// Mock EventPublisher
type mockPublisher struct {
	mu      sync.Mutex
	changes []domain.StockChange
}

func (m *mockPublisher) PublishStockChange(ctx context.Context, change domain.StockChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, change)
	return nil
}

func (m *mockPublisher) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.changes))
	for i, c := range m.changes {
		out[i] = c.Kind
	}
	return out
}
