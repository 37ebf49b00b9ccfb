package dispatch

import (
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/internal/order"
)

// DefaultStation is the catch-all bucket for items without a configured
// kitchen station. Missing configuration must never drop a ticket, only
// mis-route it where staff can spot it.
const DefaultStation = "default"

type Overall string

const (
	OverallFullSuccess    Overall = "full_success"
	OverallPartialSuccess Overall = "partial_success"
	OverallFailure        Overall = "failure"
)

// StationPrintResult records one station's print attempt. It is transient:
// surfaced to the caller and published for diagnostics, never persisted.
type StationPrintResult struct {
	Station      string             `json:"station"`
	Success      bool               `json:"success"`
	IsLocalIP    bool               `json:"isLocalIP"`
	IP           string             `json:"ip,omitempty"`
	Error        string             `json:"error,omitempty"`
	StationItems []*order.OrderItem `json:"station_items,omitempty"`
}

type DispatchOutcome struct {
	OrderID    uuid.UUID            `json:"order_id"`
	PerStation []StationPrintResult `json:"per_station"`
	Overall    Overall              `json:"overall"`
}

// Aggregate folds per-station results into one overall outcome. A mixed
// result set is partial success and must stay visible to staff; a kitchen
// relying on a missing ticket is an operational incident.
func Aggregate(results []StationPrintResult) Overall {
	if len(results) == 0 {
		return OverallFailure
	}

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}

	switch succeeded {
	case len(results):
		return OverallFullSuccess
	case 0:
		return OverallFailure
	default:
		return OverallPartialSuccess
	}
}
