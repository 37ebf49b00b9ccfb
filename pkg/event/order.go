package event

import "time"

const (
	OrderItemsTopic             = "orders.items"
	EventOrderItemCreated       = "order.item.created"
	EventOrderItemStatusChanged = "order.item.status_changed"
	EventOrderStatusChanged     = "order.status_changed"
)

// OrderItemEvent represents an order item event published to NATS.
// Kitchen display boards consume these to track per-item progress.
type OrderItemEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	OrderItemID    string    `json:"order_item_id"`
	MenuItemID     string    `json:"menu_item_id,omitempty"`
	Quantity       int       `json:"quantity"`
	Notes          string    `json:"notes,omitempty"`
	KitchenStation string    `json:"kitchen_station,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`

	// Denormalized data for display
	Name        string `json:"name,omitempty"`
	TableNumber *int   `json:"table_number,omitempty"`
}

type OrderStatusEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	RestaurantID   string    `json:"restaurant_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	TableNumber    *int      `json:"table_number,omitempty"`
}
