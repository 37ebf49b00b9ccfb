package waiter

import (
	"context"
	"encoding/json"
	"fmt"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/pkg/enums/orderstatus"
	"github.com/restoqr/restoqr/pkg/event"
)

// OrderReadySubscriber raises a ready call when an order's food is up, so
// the floor learns about it without a waiter having to watch the kitchen
// board. Orders without a table (takeaway) produce no call.
type OrderReadySubscriber struct {
	subscriber events.Subscriber
	service    *Service
	logger     aqm.Logger
}

func NewOrderReadySubscriber(subscriber events.Subscriber, service *Service, logger aqm.Logger) *OrderReadySubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &OrderReadySubscriber{
		subscriber: subscriber,
		service:    service,
		logger:     logger,
	}
}

func (s *OrderReadySubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting OrderReadySubscriber for topic: " + event.OrderItemsTopic)

	if err := s.subscriber.Subscribe(ctx, event.OrderItemsTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.OrderItemsTopic, err)
	}

	return nil
}

func (s *OrderReadySubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderStatusEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal event: %v", err)
		return nil
	}

	if evt.EventType != event.EventOrderStatusChanged {
		return nil
	}
	if evt.Status != orderstatus.Statuses.Ready.Code() {
		return nil
	}
	if evt.TableNumber == nil {
		return nil
	}

	restaurantID, err := uuid.Parse(evt.RestaurantID)
	if err != nil {
		s.logger.Errorf("Invalid restaurant id in status event: %v", err)
		return nil
	}

	message := fmt.Sprintf("Order %s is ready", evt.OrderID)
	if _, err := s.service.CreateCall(ctx, restaurantID, *evt.TableNumber, TypeReady, message); err != nil {
		s.logger.Error("cannot create ready call", "error", err, "order_id", evt.OrderID)
	}

	return nil
}
