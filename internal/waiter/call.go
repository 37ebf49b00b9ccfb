package waiter

import (
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

const (
	TypeHelp   = "help"
	TypeWater  = "water"
	TypeBill   = "bill"
	TypeClean  = "clean"
	TypeReady  = "ready"
	TypeCustom = "custom"
)

// CallTypes lists the request kinds a table can raise. Ready calls are
// system-generated when an order's food is up.
var CallTypes = []string{TypeHelp, TypeWater, TypeBill, TypeClean, TypeReady, TypeCustom}

func ValidCallType(t string) bool {
	for _, known := range CallTypes {
		if known == t {
			return true
		}
	}
	return false
}

// WaiterCall is one pending request from a table. Calls only ever move from
// open to resolved.
type WaiterCall struct {
	ID           uuid.UUID  `json:"id" bson:"_id"`
	RestaurantID uuid.UUID  `json:"restaurant_id" bson:"restaurant_id"`
	TableNumber  int        `json:"table_number" bson:"table_number"`
	Type         string     `json:"type" bson:"type"`
	Message      string     `json:"message,omitempty" bson:"message,omitempty"`
	Status       string     `json:"status" bson:"status"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
}

func NewWaiterCall() *WaiterCall {
	call := &WaiterCall{
		Status: StatusOpen,
	}
	call.BeforeCreate()
	return call
}

func (c *WaiterCall) GetID() uuid.UUID {
	return c.ID
}

func (c *WaiterCall) SetID(id uuid.UUID) {
	c.ID = id
}

func (c *WaiterCall) ResourceType() string {
	return "waiter-call"
}

func (c *WaiterCall) EnsureID() {
	if c.ID == uuid.Nil {
		c.ID = aqm.GenerateNewID()
	}
}

func (c *WaiterCall) BeforeCreate() {
	c.EnsureID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *WaiterCall) BeforeUpdate() {
	c.UpdatedAt = time.Now()
}

func (c *WaiterCall) IsResolved() bool {
	return c.Status == StatusResolved
}

func (c *WaiterCall) Resolve() {
	if c.IsResolved() {
		return
	}
	now := time.Now()
	c.Status = StatusResolved
	c.ResolvedAt = &now
	c.BeforeUpdate()
}
