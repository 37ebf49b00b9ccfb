package event

import "time"

const (
	DispatchTopic          = "floor.dispatch"
	EventDispatchCompleted = "dispatch.completed"
)

// StationResult mirrors one station's print attempt inside a dispatch event.
type StationResult struct {
	Station   string `json:"station"`
	Success   bool   `json:"success"`
	IsLocalIP bool   `json:"is_local_ip"`
	IP        string `json:"ip,omitempty"`
	Error     string `json:"error,omitempty"`
}

// DispatchCompletedEvent is published after every print dispatch so staff
// dashboards can surface partial failures instead of silently swallowing them.
type DispatchCompletedEvent struct {
	EventType    string          `json:"event_type"`
	OccurredAt   time.Time       `json:"occurred_at"`
	OrderID      string          `json:"order_id"`
	RestaurantID string          `json:"restaurant_id"`
	Overall      string          `json:"overall"`
	Stations     []StationResult `json:"stations"`
}
