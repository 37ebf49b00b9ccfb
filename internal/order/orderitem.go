package order

import (
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/pkg/enums/itemstatus"
)

type OrderItem struct {
	ID         uuid.UUID  `json:"id" bson:"_id"`
	OrderID    uuid.UUID  `json:"order_id" bson:"order_id"`
	MenuItemID *uuid.UUID `json:"menu_item_id,omitempty" bson:"menu_item_id,omitempty"`
	Name       string     `json:"name" bson:"name"`
	Quantity   int        `json:"quantity" bson:"quantity"`
	// Price is the unit price frozen at order time. It must not track later
	// menu price changes.
	Price          float64   `json:"price" bson:"price"`
	Status         string    `json:"status" bson:"status"`
	KitchenStation string    `json:"kitchen_station,omitempty" bson:"kitchen_station,omitempty"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

func NewOrderItem() *OrderItem {
	item := &OrderItem{
		Status: itemstatus.Statuses.Pending.Code(),
	}
	item.BeforeCreate()
	return item
}

func (i *OrderItem) GetID() uuid.UUID {
	return i.ID
}

func (i *OrderItem) SetID(id uuid.UUID) {
	i.ID = id
}

func (i *OrderItem) ResourceType() string {
	return "order-item"
}

func (i *OrderItem) EnsureID() {
	if i.ID == uuid.Nil {
		i.ID = aqm.GenerateNewID()
	}
}

func (i *OrderItem) BeforeCreate() {
	i.EnsureID()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
}

func (i *OrderItem) BeforeUpdate() {
	i.UpdatedAt = time.Now()
}

func (i *OrderItem) MarkAsPreparing() {
	i.Status = itemstatus.Statuses.Preparing.Code()
	i.BeforeUpdate()
}

func (i *OrderItem) MarkAsReady() {
	i.Status = itemstatus.Statuses.Ready.Code()
	i.BeforeUpdate()
}

func (i *OrderItem) MarkAsServed() {
	i.Status = itemstatus.Statuses.Served.Code()
	i.BeforeUpdate()
}

func (i *OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
