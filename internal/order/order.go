package order

import (
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/pkg/enums/orderstatus"
)

type Order struct {
	ID           uuid.UUID `json:"id" bson:"_id"`
	RestaurantID uuid.UUID `json:"restaurant_id" bson:"restaurant_id"`
	Number       string    `json:"number" bson:"number"`
	TableNumber  *int      `json:"table_number,omitempty" bson:"table_number,omitempty"`
	Status       string    `json:"status" bson:"status"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	TotalAmount  float64   `json:"total_amount" bson:"total_amount"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`

	// Items are stored in their own collection and attached on read.
	Items []*OrderItem `json:"items,omitempty" bson:"-"`
}

func NewOrder() *Order {
	o := &Order{
		Status: orderstatus.Statuses.Pending.Code(),
	}
	o.BeforeCreate()
	return o
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = aqm.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	if o.Number == "" {
		o.Number = o.ID.String()[:8]
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()
}

func (o *Order) BeforeUpdate() {
	o.UpdatedAt = time.Now()
}

func (o *Order) MarkAsPreparing() {
	o.Status = orderstatus.Statuses.Preparing.Code()
	o.BeforeUpdate()
}

func (o *Order) MarkAsReady() {
	o.Status = orderstatus.Statuses.Ready.Code()
	o.BeforeUpdate()
}

func (o *Order) MarkAsServed() {
	o.Status = orderstatus.Statuses.Served.Code()
	o.BeforeUpdate()
}

func (o *Order) MarkAsCompleted() {
	o.Status = orderstatus.Statuses.Completed.Code()
	o.BeforeUpdate()
}

func (o *Order) Cancel() {
	o.Status = orderstatus.Statuses.Cancelled.Code()
	o.BeforeUpdate()
}

// IsTerminal reports whether the order reached an absorbing status.
func (o *Order) IsTerminal() bool {
	return isTerminalOrderStatus(o.Status)
}

// RecomputeTotal derives the order total from the given items. The stored
// total must always match this sum; a stale total after an item edit is a
// defect.
func RecomputeTotal(items []*OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}
