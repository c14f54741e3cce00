package domain

import "errors"

// Sentinel errors raised by the reservation engine. Callers match them
// with errors.Is; handlers wrap them with operation context.
var (
	// ErrProductNotFound means no inventory record exists for the product
	// (or the record has been deactivated).
	ErrProductNotFound = errors.New("product not found in inventory")

	// ErrInsufficientStock means the requested quantity exceeds the
	// available stock at reserve time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrReservationNotFound means the confirm/release target is absent
	// or no longer active. Compensation paths treat it as benign.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrDuplicateReservation means an active reservation already exists
	// for the (product, order) pair.
	ErrDuplicateReservation = errors.New("reservation already active for order")

	// ErrInvalidAdjustment means a negative or otherwise unusable stock
	// target was supplied.
	ErrInvalidAdjustment = errors.New("invalid stock adjustment")

	// ErrVersionConflict means an optimistic write lost the race; the
	// caller reloads and retries.
	ErrVersionConflict = errors.New("inventory record version conflict")
)
