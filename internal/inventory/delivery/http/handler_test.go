package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/internal/inventory/repository"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/command"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/query"
	"github.com/tair/inventory-reservation/pkg/auth"
	"github.com/tair/inventory-reservation/pkg/keymutex"
)

func newTestRouter(t *testing.T, seed ...domain.CatalogProduct) *mux.Router {
	t.Helper()

	repo := repository.NewMemoryInventoryRepository()
	store := command.NewStore(repo, keymutex.New())
	for i := range seed {
		if _, err := store.Provision(context.Background(), &seed[i]); err != nil {
			t.Fatalf("failed to seed %s: %v", seed[i].ProductID, err)
		}
	}

	reserve := command.NewReserveHandler(store, nil, nil)
	confirm := command.NewConfirmHandler(store, nil)
	release := command.NewReleaseHandler(store, nil)

	handler := NewInventoryHandler(
		reserve,
		confirm,
		release,
		command.NewAdjustStockHandler(store),
		command.NewAddStockHandler(store),
		command.NewProcessReturnHandler(store),
		command.NewDeactivateHandler(store),
		command.NewReserveBatchHandler(reserve, release),
		command.NewConfirmBatchHandler(confirm),
		command.NewReleaseBatchHandler(store, release),
		command.NewSweepExpiredHandler(store, nil),
		command.NewInitializeRecordsHandler(store, nil),
		command.NewSyncCatalogHandler(store, nil),
		query.NewGetStockSummaryHandler(repo),
		query.NewListMovementsHandler(repo),
		query.NewListReservationsHandler(repo),
		query.NewSellerOverviewHandler(repo),
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, nil)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func catalogProduct(productID string, stock int) domain.CatalogProduct {
	return domain.CatalogProduct{
		ProductID: productID,
		SellerID:  "seller-1",
		Stock:     stock,
		IsActive:  true,
	}
}

func TestReserveEndpoint(t *testing.T) {
	router := newTestRouter(t, catalogProduct("prod-1", 10))

	rec, resp := doJSON(t, router, http.MethodPost, "/api/inventory/reserve", map[string]interface{}{
		"product_id": "prod-1",
		"order_id":   "order-1",
		"quantity":   3,
	}, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %+v", rec.Code, resp)
	}
	if !resp.Success {
		t.Errorf("expected success, got %+v", resp)
	}
}

func TestReserveEndpoint_InsufficientStock(t *testing.T) {
	router := newTestRouter(t, catalogProduct("prod-1", 2))

	rec, resp := doJSON(t, router, http.MethodPost, "/api/inventory/reserve", map[string]interface{}{
		"product_id": "prod-1",
		"order_id":   "order-1",
		"quantity":   5,
	}, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %+v", rec.Code, resp)
	}
	if resp.Success {
		t.Error("expected success=false")
	}
}

func TestReserveEndpoint_UnknownProduct(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/inventory/reserve", map[string]interface{}{
		"product_id": "ghost",
		"order_id":   "order-1",
		"quantity":   1,
	}, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCheckoutEndpoint_PartialFailure(t *testing.T) {
	router := newTestRouter(t, catalogProduct("prod-a", 10), catalogProduct("prod-b", 1))

	rec, resp := doJSON(t, router, http.MethodPost, "/api/inventory/checkout", map[string]interface{}{
		"order_id": "order-1",
		"items": []map[string]interface{}{
			{"product_id": "prod-a", "quantity": 2},
			{"product_id": "prod-b", "quantity": 5},
		},
	}, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %+v", rec.Code, resp)
	}
	if resp.Success {
		t.Error("expected success=false for compensated batch")
	}
}

func TestConfirmEndpoint_RoundTrip(t *testing.T) {
	router := newTestRouter(t, catalogProduct("prod-1", 10))

	if rec, _ := doJSON(t, router, http.MethodPost, "/api/inventory/reserve", map[string]interface{}{
		"product_id": "prod-1", "order_id": "order-1", "quantity": 2,
	}, nil); rec.Code != http.StatusCreated {
		t.Fatalf("reserve status = %d", rec.Code)
	}

	rec, resp := doJSON(t, router, http.MethodPost, "/api/inventory/prod-1/confirm", map[string]interface{}{
		"order_id": "order-1",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d: %+v", rec.Code, resp)
	}

	// Confirming again is a 404: the hold is gone
	rec, _ = doJSON(t, router, http.MethodPost, "/api/inventory/prod-1/confirm", map[string]interface{}{
		"order_id": "order-1",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second confirm status = %d, want 404", rec.Code)
	}
}

func TestGetSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t, catalogProduct("prod-1", 10))

	rec, resp := doJSON(t, router, http.MethodGet, "/api/inventory/prod-1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Success || resp.Data == nil {
		t.Errorf("unexpected response %+v", resp)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/api/inventory/ghost", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown product status = %d, want 404", rec.Code)
	}
}

func TestAdminEndpoints_RequireToken(t *testing.T) {
	router := newTestRouter(t, catalogProduct("prod-1", 10))

	rec, _ := doJSON(t, router, http.MethodPost, "/api/inventory/admin/sweep", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	userToken, err := auth.GenerateToken(1, "bob", "user", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/api/inventory/admin/sweep", nil, map[string]string{
		"Authorization": "Bearer " + userToken,
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}

	adminToken, err := auth.GenerateToken(2, "alice", "admin", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	rec, resp := doJSON(t, router, http.MethodPost, "/api/inventory/admin/sweep", nil, map[string]string{
		"Authorization": "Bearer " + adminToken,
	})
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200: %+v", rec.Code, resp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec, resp := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Message != "healthy" {
		t.Errorf("message = %q, want healthy", resp.Message)
	}
}
