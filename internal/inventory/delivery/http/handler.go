package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-reservation/internal/inventory/domain"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/command"
	"github.com/tair/inventory-reservation/internal/inventory/usecase/query"
	"github.com/tair/inventory-reservation/pkg/logger"
)

// InventoryHandler handles HTTP requests for the reservation engine
type InventoryHandler struct {
	reserve       *command.ReserveHandler
	confirm       *command.ConfirmHandler
	release       *command.ReleaseHandler
	adjustStock   *command.AdjustStockHandler
	addStock      *command.AddStockHandler
	processReturn *command.ProcessReturnHandler
	deactivate    *command.DeactivateHandler
	reserveBatch  *command.ReserveBatchHandler
	confirmBatch  *command.ConfirmBatchHandler
	releaseBatch  *command.ReleaseBatchHandler
	sweep         *command.SweepExpiredHandler
	initialize    *command.InitializeRecordsHandler
	syncCatalog   *command.SyncCatalogHandler

	summary        *query.GetStockSummaryHandler
	movements      *query.ListMovementsHandler
	reservations   *query.ListReservationsHandler
	sellerOverview *query.SellerOverviewHandler
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	reserve *command.ReserveHandler,
	confirm *command.ConfirmHandler,
	release *command.ReleaseHandler,
	adjustStock *command.AdjustStockHandler,
	addStock *command.AddStockHandler,
	processReturn *command.ProcessReturnHandler,
	deactivate *command.DeactivateHandler,
	reserveBatch *command.ReserveBatchHandler,
	confirmBatch *command.ConfirmBatchHandler,
	releaseBatch *command.ReleaseBatchHandler,
	sweep *command.SweepExpiredHandler,
	initialize *command.InitializeRecordsHandler,
	syncCatalog *command.SyncCatalogHandler,
	summary *query.GetStockSummaryHandler,
	movements *query.ListMovementsHandler,
	reservations *query.ListReservationsHandler,
	sellerOverview *query.SellerOverviewHandler,
) *InventoryHandler {
	return &InventoryHandler{
		reserve:        reserve,
		confirm:        confirm,
		release:        release,
		adjustStock:    adjustStock,
		addStock:       addStock,
		processReturn:  processReturn,
		deactivate:     deactivate,
		reserveBatch:   reserveBatch,
		confirmBatch:   confirmBatch,
		releaseBatch:   releaseBatch,
		sweep:          sweep,
		initialize:     initialize,
		syncCatalog:    syncCatalog,
		summary:        summary,
		movements:      movements,
		reservations:   reservations,
		sellerOverview: sellerOverview,
	}
}

// Response is the JSON envelope every endpoint returns
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Reserve handles POST /api/inventory/reserve
func (h *InventoryHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID  string `json:"product_id"`
		OrderID    string `json:"order_id"`
		CustomerID string `json:"customer_id"`
		Quantity   int    `json:"quantity"`
		TTLMinutes int    `json:"ttl_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.reserve.Handle(r.Context(), command.ReserveCommand{
		ProductID:  req.ProductID,
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		TTL:        time.Duration(req.TTLMinutes) * time.Minute,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Stock reserved",
		Data:    result,
	})
}

// Checkout handles POST /api/inventory/checkout (multi-item reservation)
func (h *InventoryHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID    string              `json:"order_id"`
		CustomerID string              `json:"customer_id"`
		Items      []command.BatchItem `json:"items"`
		TTLMinutes int                 `json:"ttl_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.reserveBatch.Handle(r.Context(), command.ReserveBatchCommand{
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		Items:      req.Items,
		TTL:        time.Duration(req.TTLMinutes) * time.Minute,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusCreated
	message := "All items reserved"
	if !result.Success {
		// The batch was compensated; nothing is held.
		status = http.StatusConflict
		message = "Partial reservation failure, batch rolled back"
	}
	respondJSON(w, status, Response{
		Success: result.Success,
		Message: message,
		Data:    result,
	})
}

// Confirm handles POST /api/inventory/{product_id}/confirm
func (h *InventoryHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.confirm.Handle(r.Context(), command.ConfirmCommand{
		ProductID: productID,
		OrderID:   req.OrderID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Reservation confirmed",
		Data:    result,
	})
}

// ConfirmBatch handles POST /api/inventory/confirm
func (h *InventoryHandler) ConfirmBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string              `json:"order_id"`
		Items   []command.BatchItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.confirmBatch.Handle(r.Context(), command.ConfirmBatchCommand{
		OrderID: req.OrderID,
		Items:   req.Items,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: result.Success,
		Data:    result,
	})
}

// Release handles POST /api/inventory/{product_id}/release
func (h *InventoryHandler) Release(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	var req struct {
		OrderID string `json:"order_id"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.release.Handle(r.Context(), command.ReleaseCommand{
		ProductID: productID,
		OrderID:   req.OrderID,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Reservation released",
		Data:    result,
	})
}

// ReleaseBatch handles POST /api/inventory/release
func (h *InventoryHandler) ReleaseBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
		Reason  string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.releaseBatch.Handle(r.Context(), command.ReleaseBatchCommand{
		OrderID: req.OrderID,
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: result.Success,
		Data:    result,
	})
}

// AdjustStock handles PATCH /api/inventory/{product_id}/stock
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	var req struct {
		TotalStock *int   `json:"total_stock"`
		Reason     string `json:"reason"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TotalStock == nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	record, err := h.adjustStock.Handle(r.Context(), command.AdjustStockCommand{
		ProductID: productID,
		NewTotal:  *req.TotalStock,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock adjusted",
		Data:    record,
	})
}

// AddStock handles POST /api/inventory/{product_id}/stock/add
func (h *InventoryHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	var req struct {
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
		Notes    string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	record, err := h.addStock.Handle(r.Context(), command.AddStockCommand{
		ProductID: productID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock added",
		Data:    record,
	})
}

// ProcessReturn handles POST /api/inventory/{product_id}/return
func (h *InventoryHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	var req struct {
		OrderID  string `json:"order_id"`
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	record, err := h.processReturn.Handle(r.Context(), command.ProcessReturnCommand{
		ProductID: productID,
		OrderID:   req.OrderID,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Return processed",
		Data:    record,
	})
}

// Deactivate handles DELETE /api/inventory/{product_id}
func (h *InventoryHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	record, err := h.deactivate.Handle(r.Context(), command.DeactivateCommand{ProductID: productID})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Inventory record deactivated",
		Data:    record,
	})
}

// GetSummary handles GET /api/inventory/{product_id}
func (h *InventoryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	summary, err := h.summary.Handle(r.Context(), query.GetStockSummaryQuery{ProductID: productID})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: summary})
}

// ListMovements handles GET /api/inventory/{product_id}/movements
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.movements.Handle(r.Context(), query.ListMovementsQuery{
		ProductID: productID,
		Type:      domain.MovementType(r.URL.Query().Get("type")),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// ListReservations handles GET /api/inventory/{product_id}/reservations
func (h *InventoryHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["product_id"]

	result, err := h.reservations.Handle(r.Context(), query.ListReservationsQuery{
		ProductID: productID,
		Status:    domain.ReservationStatus(r.URL.Query().Get("status")),
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// SellerOverview handles GET /api/inventory/sellers/{seller_id}/overview
func (h *InventoryHandler) SellerOverview(w http.ResponseWriter, r *http.Request) {
	sellerID := mux.Vars(r)["seller_id"]
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.sellerOverview.Handle(r.Context(), query.SellerOverviewQuery{
		SellerID: sellerID,
		Filter: domain.SellerFilter{
			LowStockOnly:   r.URL.Query().Get("low_stock") == "true",
			OutOfStockOnly: r.URL.Query().Get("out_of_stock") == "true",
		},
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// SweepNow handles POST /api/inventory/admin/sweep
func (h *InventoryHandler) SweepNow(w http.ResponseWriter, r *http.Request) {
	cleaned, err := h.sweep.Handle(r.Context(), time.Now().UTC())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int{"cleaned": cleaned},
	})
}

// Initialize handles POST /api/inventory/admin/initialize
func (h *InventoryHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	created, err := h.initialize.Handle(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int{"created": created},
	})
}

// SyncCatalog handles POST /api/inventory/admin/sync
func (h *InventoryHandler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	synced, err := h.syncCatalog.Handle(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]int{"synced": synced},
	})
}

// RegisterRoutes registers all inventory routes. Static paths go first so
// mux never mistakes them for a product key.
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/inventory").Subrouter()

	api.HandleFunc("/reserve", h.Reserve).Methods(http.MethodPost)
	api.HandleFunc("/checkout", h.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/confirm", h.ConfirmBatch).Methods(http.MethodPost)
	api.HandleFunc("/release", h.ReleaseBatch).Methods(http.MethodPost)
	api.HandleFunc("/sellers/{seller_id}/overview", h.SellerOverview).Methods(http.MethodGet)

	api.HandleFunc("/admin/sweep", AdminRequired(h.SweepNow)).Methods(http.MethodPost)
	api.HandleFunc("/admin/initialize", AdminRequired(h.Initialize)).Methods(http.MethodPost)
	api.HandleFunc("/admin/sync", AdminRequired(h.SyncCatalog)).Methods(http.MethodPost)

	api.HandleFunc("/{product_id}/confirm", h.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/{product_id}/release", h.Release).Methods(http.MethodPost)
	api.HandleFunc("/{product_id}/return", h.ProcessReturn).Methods(http.MethodPost)
	api.HandleFunc("/{product_id}/stock", AdminRequired(h.AdjustStock)).Methods(http.MethodPatch)
	api.HandleFunc("/{product_id}/stock/add", AdminRequired(h.AddStock)).Methods(http.MethodPost)
	api.HandleFunc("/{product_id}/movements", h.ListMovements).Methods(http.MethodGet)
	api.HandleFunc("/{product_id}/reservations", h.ListReservations).Methods(http.MethodGet)
	api.HandleFunc("/{product_id}", h.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/{product_id}", AdminRequired(h.Deactivate)).Methods(http.MethodDelete)
}

// RegisterHealthCheck registers the health endpoint backed by a database
// ping. db may be nil when running on the in-memory backend.
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "database unreachable",
				})
				return
			}
		}
		respondJSON(w, http.StatusOK, Response{Success: true, Message: "healthy"})
	}).Methods(http.MethodGet)
}

func respondJSON(w http.ResponseWriter, status int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrReservationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicateReservation):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAdjustment):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Logger.Error().Err(err).Msg("Request failed")
	}
	respondJSON(w, status, Response{Success: false, Error: err.Error()})
}
