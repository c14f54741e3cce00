package kafka

import "time"

// StockEvent represents one reservation lifecycle transition
type StockEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	ProductID      string    `json:"product_id"`
	SellerID       string    `json:"seller_id"`
	OrderID        string    `json:"order_id,omitempty"`
	CustomerID     string    `json:"customer_id,omitempty"`
	Quantity       int       `json:"quantity"`
	AvailableStock int       `json:"available_stock"`
	Timestamp      time.Time `json:"timestamp"`
}

// OrderItem is one line of an order event
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderEvent represents an order lifecycle event from the checkout
// service
type OrderEvent struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	OrderID    string      `json:"order_id"`
	CustomerID string      `json:"customer_id"`
	Items      []OrderItem `json:"items"`
	Reason     string      `json:"reason,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Event types
const (
	EventTypeStockReserved = "stock.reserved"
	EventTypeStockReleased = "stock.released"
	EventTypeStockSold     = "stock.sold"
	EventTypeStockLow      = "stock.low"

	EventTypeOrderPaymentCompleted = "order.payment_completed"
	EventTypeOrderCancelled        = "order.cancelled"
)

// Kafka topics
const (
	TopicStockEvents = "stock-events"
	TopicOrderEvents = "order-events"
)
