package dispatch

import "fmt"

// BridgeTimeoutError marks a local bridge attempt that ran out the deadline.
// It is never returned to callers; the coordinator folds it into the
// station's result.
type BridgeTimeoutError struct {
	Station string
	IP      string
}

func (e *BridgeTimeoutError) Error() string {
	return fmt.Sprintf("bridge print for station %q (%s) timed out", e.Station, e.IP)
}

// BridgeRejectedError marks a bridge that answered but declined the ticket.
type BridgeRejectedError struct {
	Station string
	IP      string
	Status  int
}

func (e *BridgeRejectedError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("bridge rejected print for station %q (%s) with status %d", e.Station, e.IP, e.Status)
	}
	return fmt.Sprintf("bridge reported print failure for station %q (%s)", e.Station, e.IP)
}
