package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for Inventory Reservation Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Reserve godoc
// @Summary Reserve stock
// @Description Place a time-limited hold on stock for an order
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body object{product_id=string,order_id=string,customer_id=string,quantity=int,ttl_minutes=int} true "Reservation data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/reserve [post]
func (h *InventoryHandler) ReserveDoc() {}

// Checkout godoc
// @Summary Reserve a multi-item order
// @Description Reserve every item of an order atomically; on any failure already-reserved items are rolled back
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body object{order_id=string,customer_id=string,items=array,ttl_minutes=int} true "Order items"
// @Success 201 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,data=object,error=string}
// @Router /api/inventory/checkout [post]
func (h *InventoryHandler) CheckoutDoc() {}

// ConfirmOrder godoc
// @Summary Confirm all reservations of an order
// @Description Convert every active reservation of an order into a sale
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body object{order_id=string,items=array} true "Order items"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory/confirm [post]
func (h *InventoryHandler) ConfirmOrderDoc() {}

// ReleaseOrder godoc
// @Summary Release all reservations of an order
// @Description Release every active reservation of an order and return the stock
// @Tags Reservations
// @Accept json
// @Produce json
// @Param request body object{order_id=string,reason=string} true "Release data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory/release [post]
func (h *InventoryHandler) ReleaseOrderDoc() {}

// GetSummary godoc
// @Summary Get stock summary
// @Description Get the current stock summary for a product
// @Tags Inventory
// @Produce json
// @Param product_id path string true "Product ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/{product_id} [get]
func (h *InventoryHandler) GetSummaryDoc() {}

// ListMovements godoc
// @Summary List stock movements
// @Description Get the movement audit trail for a product, newest first
// @Tags Inventory
// @Produce json
// @Param product_id path string true "Product ID"
// @Param type query string false "Movement type filter"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/{product_id}/movements [get]
func (h *InventoryHandler) ListMovementsDoc() {}

// AdjustStock godoc
// @Summary Set total stock
// @Description Set the total stock of a product to a new value (Admin only)
// @Tags Inventory
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param product_id path string true "Product ID"
// @Param request body object{total_stock=int,reason=string} true "Adjustment data"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/inventory/{product_id}/stock [patch]
func (h *InventoryHandler) AdjustStockDoc() {}

// SellerOverview godoc
// @Summary Seller stock overview
// @Description Aggregate stock statistics and per-product summaries for a seller
// @Tags Sellers
// @Produce json
// @Param seller_id path string true "Seller ID"
// @Param low_stock query bool false "Only low-stock products"
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/inventory/sellers/{seller_id}/overview [get]
func (h *InventoryHandler) SellerOverviewDoc() {}

// SweepNow godoc
// @Summary Run the expiry sweep
// @Description Reclaim all expired reservations immediately (Admin only)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object{cleaned=int}}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/inventory/admin/sweep [post]
func (h *InventoryHandler) SweepNowDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
