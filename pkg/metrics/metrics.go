package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reservation lifecycle counters, labelled by outcome so dashboards can
// separate clean reserves from insufficient-stock rejections.
var (
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservations_total",
		Help: "Reservation attempts by outcome",
	}, []string{"outcome"})

	ReservationsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_reservations_confirmed_total",
		Help: "Reservations confirmed into sales",
	})

	ReservationsReleased = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservations_released_total",
		Help: "Reservations released by cause (cancelled, expired, rollback)",
	}, []string{"cause"})

	SweeperReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_sweeper_reclaimed_total",
		Help: "Expired reservations reclaimed by the sweeper",
	})

	SweeperDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_sweeper_duration_seconds",
		Help:    "Duration of one expiration sweep",
		Buckets: prometheus.DefBuckets,
	})

	BatchCompensations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_batch_compensations_total",
		Help: "Bulk reservations rolled back after a partial failure",
	})
)

// Reservation outcomes
const (
	OutcomeReserved     = "reserved"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeDuplicate    = "duplicate"
	OutcomeError        = "error"
)
