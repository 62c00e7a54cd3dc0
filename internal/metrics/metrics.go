// Package metrics holds the Prometheus collectors of the settlement workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidState = "invalid_state"
	OutcomeValidation   = "validation"
	OutcomeStorage      = "storage"
)

// Finalizations counts finalize attempts by outcome.
var Finalizations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "comanda",
	Subsystem: "settlement",
	Name:      "finalizations_total",
	Help:      "Ticket finalize attempts by outcome.",
}, []string{"outcome"})

var FinalizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "comanda",
	Subsystem: "settlement",
	Name:      "finalize_duration_seconds",
	Help:      "Time spent finalizing a ticket, including the lock wait.",
	Buckets:   prometheus.DefBuckets,
})

// Reversals counts maintenance reversals by mode (scoped or global).
var Reversals = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "comanda",
	Subsystem: "settlement",
	Name:      "reversals_total",
	Help:      "Test-ticket reversals by mode.",
}, []string{"mode"})

var RestockedUnits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "comanda",
	Subsystem: "inventory",
	Name:      "restocked_units_total",
	Help:      "Product units returned to stock by reversals.",
})

var RevenueRecomputations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "comanda",
	Subsystem: "revenue",
	Name:      "recomputations_total",
	Help:      "Revenue ledger days rebuilt from finalization records.",
})
