package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/pkg/enums/itemstatus"
	"github.com/restoqr/restoqr/pkg/enums/orderstatus"
	"github.com/restoqr/restoqr/pkg/event"
)

// ItemDraft is the caller-supplied shape of a line item before it is owned by
// an order.
type ItemDraft struct {
	MenuItemID     *uuid.UUID `json:"menu_item_id,omitempty"`
	Name           string     `json:"name"`
	Quantity       int        `json:"quantity"`
	Price          float64    `json:"price"`
	KitchenStation string     `json:"kitchen_station,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Store is the single source of truth for order and item status. Every
// mutation for a given order is serialised behind a per-order lock, so two
// concurrent transition requests cannot interleave: the later one validates
// against the state the earlier one left behind.
type Store struct {
	orders    OrderRepo
	items     OrderItemRepo
	publisher events.Publisher
	logger    aqm.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewStore(orders OrderRepo, items OrderItemRepo, publisher events.Publisher, logger aqm.Logger) *Store {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Store{
		orders:    orders,
		items:     items,
		publisher: publisher,
		logger:    logger,
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) lockOrder(id uuid.UUID) func() {
	s.mu.Lock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// CreateOrder validates the drafts, persists the order with its items and
// returns the order with items attached and the total already derived.
func (s *Store) CreateOrder(ctx context.Context, restaurantID uuid.UUID, tableNumber *int, drafts []ItemDraft, notes string) (*Order, error) {
	if err := validateDrafts(drafts); err != nil {
		return nil, err
	}
	if tableNumber != nil && *tableNumber <= 0 {
		return nil, &ValidationError{Msg: "table_number must be positive"}
	}

	o := NewOrder()
	o.RestaurantID = restaurantID
	o.TableNumber = tableNumber
	o.Notes = notes

	items := make([]*OrderItem, 0, len(drafts))
	for _, draft := range drafts {
		item := NewOrderItem()
		item.OrderID = o.ID
		item.MenuItemID = draft.MenuItemID
		item.Name = draft.Name
		item.Quantity = draft.Quantity
		item.Price = draft.Price
		item.KitchenStation = draft.KitchenStation
		item.Notes = draft.Notes
		items = append(items, item)
	}

	o.Items = items
	o.TotalAmount = RecomputeTotal(items)

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := s.items.Create(ctx, item); err != nil {
			return nil, err
		}
	}

	for _, item := range items {
		s.publishItemEvent(ctx, event.EventOrderItemCreated, item, o, "")
	}

	return o, nil
}

// GetOrder loads an order with its items attached. Returns nil when the order
// does not exist.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	items, err := s.items.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListOrders lists a restaurant's orders, optionally filtered by status,
// with items attached. Staff dashboards poll this.
func (s *Store) ListOrders(ctx context.Context, restaurantID uuid.UUID, status string) ([]*Order, error) {
	var (
		result []*Order
		err    error
	)
	if status != "" {
		result, err = s.orders.ListByStatus(ctx, restaurantID, status)
	} else {
		result, err = s.orders.ListByRestaurant(ctx, restaurantID)
	}
	if err != nil {
		return nil, err
	}
	for _, o := range result {
		items, itemsErr := s.items.ListByOrder(ctx, o.ID)
		if itemsErr != nil {
			return nil, itemsErr
		}
		o.Items = items
	}
	return result, nil
}

// TransitionOrderStatus applies one edge of the order state machine. Any edge
// outside the allowed set fails and leaves the order unchanged.
func (s *Store) TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}

	if orderstatus.ByName(newStatus) == nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown order status %q", newStatus)}
	}
	if o.IsTerminal() {
		return nil, &TerminalStateError{Status: o.Status}
	}
	if !canOrderTransition(o.Status, newStatus) {
		return nil, &InvalidTransitionError{Entity: "order", From: o.Status, To: newStatus}
	}

	previous := o.Status
	switch newStatus {
	case orderstatus.Statuses.Preparing.Code():
		o.MarkAsPreparing()
	case orderstatus.Statuses.Ready.Code():
		o.MarkAsReady()
	case orderstatus.Statuses.Served.Code():
		o.MarkAsServed()
	case orderstatus.Statuses.Completed.Code():
		o.MarkAsCompleted()
	case orderstatus.Statuses.Cancelled.Code():
		o.Cancel()
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	items, err := s.items.ListByOrder(ctx, orderID)
	if err == nil {
		o.Items = items
	}

	s.publishOrderStatus(ctx, o, previous)
	return o, nil
}

// TransitionItemStatus applies one edge of the item state machine, holding
// the parent order's lock so item and order mutations serialise together.
// An item cannot be served while the parent order is still pending.
func (s *Store) TransitionItemStatus(ctx context.Context, orderID, itemID uuid.UUID, newStatus string) (*OrderItem, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}

	item, err := s.items.Get(ctx, itemID)
	if err != nil || item == nil {
		return nil, err
	}
	if item.OrderID != orderID {
		return nil, &ValidationError{Msg: "item does not belong to order"}
	}

	if itemstatus.ByName(newStatus) == nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown item status %q", newStatus)}
	}
	if o.IsTerminal() {
		return nil, &TerminalStateError{Status: o.Status}
	}
	if !canItemTransition(item.Status, newStatus) {
		return nil, &InvalidTransitionError{Entity: "order item", From: item.Status, To: newStatus}
	}
	if newStatus == itemstatus.Statuses.Served.Code() && o.Status == orderstatus.Statuses.Pending.Code() {
		return nil, &InvalidTransitionError{Entity: "order item", From: item.Status, To: newStatus}
	}

	previous := item.Status
	switch newStatus {
	case itemstatus.Statuses.Preparing.Code():
		item.MarkAsPreparing()
	case itemstatus.Statuses.Ready.Code():
		item.MarkAsReady()
	case itemstatus.Statuses.Served.Code():
		item.MarkAsServed()
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.publishItemEvent(ctx, event.EventOrderItemStatusChanged, item, o, previous)
	return item, nil
}

// ReplaceItems swaps the order's full item set. Only pending orders can be
// edited; the total is derived again from the new set.
func (s *Store) ReplaceItems(ctx context.Context, orderID uuid.UUID, drafts []ItemDraft) (*Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}
	if o.Status != orderstatus.Statuses.Pending.Code() {
		return nil, &ImmutableOrderError{Status: o.Status}
	}
	if err := validateDrafts(drafts); err != nil {
		return nil, err
	}

	if err := s.items.DeleteByOrder(ctx, orderID); err != nil {
		return nil, err
	}

	items := make([]*OrderItem, 0, len(drafts))
	for _, draft := range drafts {
		item := NewOrderItem()
		item.OrderID = orderID
		item.MenuItemID = draft.MenuItemID
		item.Name = draft.Name
		item.Quantity = draft.Quantity
		item.Price = draft.Price
		item.KitchenStation = draft.KitchenStation
		item.Notes = draft.Notes
		if err := s.items.Create(ctx, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	o.Items = items
	o.TotalAmount = RecomputeTotal(items)
	o.BeforeUpdate()

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// RemoveItem removes a single line from a pending order. An order must keep
// at least one item; cancel the order instead of emptying it.
func (s *Store) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*Order, error) {
	unlock := s.lockOrder(orderID)
	defer unlock()

	o, err := s.orders.Get(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}
	if o.Status != orderstatus.Statuses.Pending.Code() {
		return nil, &ImmutableOrderError{Status: o.Status}
	}

	item, err := s.items.Get(ctx, itemID)
	if err != nil || item == nil {
		return nil, err
	}
	if item.OrderID != orderID {
		return nil, &ValidationError{Msg: "item does not belong to order"}
	}

	items, err := s.items.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(items) <= 1 {
		return nil, &ValidationError{Msg: "order must keep at least one item"}
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return nil, err
	}

	remaining := make([]*OrderItem, 0, len(items)-1)
	for _, existing := range items {
		if existing.ID != itemID {
			remaining = append(remaining, existing)
		}
	}

	o.Items = remaining
	o.TotalAmount = RecomputeTotal(remaining)
	o.BeforeUpdate()

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) publishItemEvent(ctx context.Context, eventType string, item *OrderItem, parent *Order, previous string) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderItemEvent{
		EventType:      eventType,
		OccurredAt:     time.Now().UTC(),
		OrderID:        item.OrderID.String(),
		OrderItemID:    item.ID.String(),
		Quantity:       item.Quantity,
		Notes:          item.Notes,
		KitchenStation: item.KitchenStation,
		Status:         item.Status,
		PreviousStatus: previous,
		Name:           item.Name,
	}
	if item.MenuItemID != nil {
		evt.MenuItemID = item.MenuItemID.String()
	}
	if parent != nil {
		evt.TableNumber = parent.TableNumber
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal order item event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.OrderItemsTopic, payload); err != nil {
		s.logger.Error("cannot publish order item event", "error", err, "order_item_id", item.ID.String())
	}
}

func (s *Store) publishOrderStatus(ctx context.Context, o *Order, previous string) {
	if s.publisher == nil {
		return
	}

	evt := event.OrderStatusEvent{
		EventType:      event.EventOrderStatusChanged,
		OccurredAt:     time.Now().UTC(),
		OrderID:        o.ID.String(),
		RestaurantID:   o.RestaurantID.String(),
		Status:         o.Status,
		PreviousStatus: previous,
		TableNumber:    o.TableNumber,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot marshal order status event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.OrderItemsTopic, payload); err != nil {
		s.logger.Error("cannot publish order status event", "error", err, "order_id", o.ID.String())
	}
}

func validateDrafts(drafts []ItemDraft) error {
	if len(drafts) == 0 {
		return &ValidationError{Msg: "order must contain at least one item"}
	}
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Name) == "" {
			return &ValidationError{Msg: "item name is required"}
		}
		if draft.Quantity <= 0 {
			return &ValidationError{Msg: "item quantity must be positive"}
		}
		if draft.Price < 0 {
			return &ValidationError{Msg: "item price cannot be negative"}
		}
	}
	return nil
}
