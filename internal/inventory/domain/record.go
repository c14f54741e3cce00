package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReservationStatus represents the lifecycle state of a stock reservation
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationExpired   ReservationStatus = "expired"
	ReservationCancelled ReservationStatus = "cancelled"
)

// MovementType classifies a stock movement entry
type MovementType string

const (
	MovementIn       MovementType = "in"
	MovementOut      MovementType = "out"
	MovementReserved MovementType = "reserved"
	MovementReleased MovementType = "released"
	MovementSold     MovementType = "sold"
	MovementAdjusted MovementType = "adjusted"
	MovementReturned MovementType = "returned"
)

// Reservation is a time-bounded hold of quantity against a product's stock,
// tied to one order. It is embedded in its InventoryRecord.
type Reservation struct {
	OrderID    string            `json:"order_id"`
	CustomerID string            `json:"customer_id"`
	Quantity   int               `json:"quantity"`
	Status     ReservationStatus `json:"status"`
	ReservedAt time.Time         `json:"reserved_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
}

// Movement is an immutable audit entry recording one stock-affecting event.
// Quantity is signed relative to the counter the movement affects;
// PreviousStock and NewStock hold that counter's value around the mutation.
type Movement struct {
	ID            string       `json:"id"`
	Type          MovementType `json:"type"`
	Quantity      int          `json:"quantity"`
	Reason        string       `json:"reason"`
	OrderID       string       `json:"order_id,omitempty"`
	CustomerID    string       `json:"customer_id,omitempty"`
	PreviousStock int          `json:"previous_stock"`
	NewStock      int          `json:"new_stock"`
	Notes         string       `json:"notes,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

// ReservationList is stored as a JSONB column
type ReservationList []Reservation

// Value implements driver.Valuer
func (l ReservationList) Value() (driver.Value, error) {
	if l == nil {
		l = ReservationList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *ReservationList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// MovementList is stored as a JSONB column
type MovementList []Movement

// Value implements driver.Valuer
func (l MovementList) Value() (driver.Value, error) {
	if l == nil {
		l = MovementList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *MovementList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// InventoryRecord is the per-product stock ledger. One record exists per
// product; it is never hard-deleted, only deactivated. All mutations go
// through the command handlers, which recompute the derived fields before
// every persist.
type InventoryRecord struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	ProductID         string          `json:"product_id" gorm:"uniqueIndex;not null"`
	SellerID          string          `json:"seller_id" gorm:"index;not null"`
	TotalStock        int             `json:"total_stock" gorm:"not null;default:0"`
	ReservedStock     int             `json:"reserved_stock" gorm:"not null;default:0"`
	SoldStock         int             `json:"sold_stock" gorm:"not null;default:0"`
	AvailableStock    int             `json:"available_stock" gorm:"not null;default:0"`
	LowStockThreshold int             `json:"low_stock_threshold" gorm:"not null;default:0"`
	IsOutOfStock      bool            `json:"is_out_of_stock" gorm:"not null;default:false"`
	IsLowStock        bool            `json:"is_low_stock" gorm:"not null;default:false"`
	IsActive          bool            `json:"is_active" gorm:"not null;default:true"`
	Reservations      ReservationList `json:"reservations" gorm:"type:jsonb"`
	Movements         MovementList    `json:"movements" gorm:"type:jsonb"`
	Version           int             `json:"-" gorm:"not null;default:0"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// ComputeAvailability derives the available quantity and the stock flags
// from the raw counters. It is the only place availability is calculated.
func ComputeAvailability(total, reserved, sold, threshold int) (available int, isOut, isLow bool) {
	available = total - reserved - sold
	if available < 0 {
		available = 0
	}
	isOut = available == 0
	isLow = available > 0 && available <= threshold
	return available, isOut, isLow
}

// Recompute refreshes the derived fields from the counters. Called before
// every persist; externally supplied values for the derived fields are
// never trusted.
func (r *InventoryRecord) Recompute() {
	r.AvailableStock, r.IsOutOfStock, r.IsLowStock = ComputeAvailability(
		r.TotalStock, r.ReservedStock, r.SoldStock, r.LowStockThreshold)
}

// ActiveReservation returns a pointer to the active reservation for the
// given order, or nil when no active reservation matches. The pointer
// aliases the record's slice so callers can transition it in place.
func (r *InventoryRecord) ActiveReservation(orderID string) *Reservation {
	for i := range r.Reservations {
		res := &r.Reservations[i]
		if res.OrderID == orderID && res.Status == ReservationActive {
			return res
		}
	}
	return nil
}

// ActiveReservedQuantity sums the quantity of all active reservations.
// After every mutation it must equal ReservedStock.
func (r *InventoryRecord) ActiveReservedQuantity() int {
	total := 0
	for _, res := range r.Reservations {
		if res.Status == ReservationActive {
			total += res.Quantity
		}
	}
	return total
}

// ExpiredReservations returns the active reservations whose TTL elapsed
// before now.
func (r *InventoryRecord) ExpiredReservations(now time.Time) []Reservation {
	var expired []Reservation
	for _, res := range r.Reservations {
		if res.Status == ReservationActive && res.ExpiresAt.Before(now) {
			expired = append(expired, res)
		}
	}
	return expired
}

// AppendMovement appends one audit entry. Prior entries are never mutated
// or removed.
func (r *InventoryRecord) AppendMovement(m Movement) {
	r.Movements = append(r.Movements, m)
}

// Clone returns a deep copy of the record, so storage backends can hand
// out records without aliasing their internal state.
func (r *InventoryRecord) Clone() *InventoryRecord {
	dup := *r
	dup.Reservations = append(ReservationList(nil), r.Reservations...)
	dup.Movements = append(MovementList(nil), r.Movements...)
	return &dup
}
