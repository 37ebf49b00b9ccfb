package event

import "time"

const (
	WaiterCallsTopic        = "waiter.calls"
	EventWaiterCallCreated  = "waiter.call.created"
	EventWaiterCallResolved = "waiter.call.resolved"
)

type WaiterCallEvent struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	CallID       string    `json:"call_id"`
	RestaurantID string    `json:"restaurant_id"`
	TableNumber  int       `json:"table_number"`
	Type         string    `json:"type"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"status"`
}
