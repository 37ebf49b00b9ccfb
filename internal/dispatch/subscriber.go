package dispatch

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

// OrderStatusSubscriber fires a print dispatch when an order moves into
// preparing. Approving an order and printing its tickets are one gesture
// for the kitchen, so the dispatch rides on the status event instead of a
// second client call.
type OrderStatusSubscriber struct {
	subscriber events.Subscriber
	orders     OrderLoader
	dispatcher Dispatcher
	logger     aqm.Logger
}

func NewOrderStatusSubscriber(
	subscriber events.Subscriber,
	orders OrderLoader,
	dispatcher Dispatcher,
	logger aqm.Logger,
) *OrderStatusSubscriber {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &OrderStatusSubscriber{
		subscriber: subscriber,
		orders:     orders,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *OrderStatusSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting OrderStatusSubscriber for topic: " + event.OrderItemsTopic)

	if err := s.subscriber.Subscribe(ctx, event.OrderItemsTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.OrderItemsTopic, err)
	}

	return nil
}

func (s *OrderStatusSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderStatusEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal event: %v", err)
		return nil
	}

	if evt.EventType != event.EventOrderStatusChanged {
		return nil
	}
	if evt.Status != orderstatus.Statuses.Preparing.Code() {
		return nil
	}

	orderID, err := uuid.Parse(evt.OrderID)
	if err != nil {
		s.logger.Errorf("Invalid order id in status event: %v", err)
		return nil
	}

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		s.logger.Error("cannot load order for auto print", "error", err, "order_id", evt.OrderID)
		return nil
	}
	if o == nil {
		s.logger.Debug("order in status event no longer exists", "order_id", evt.OrderID)
		return nil
	}

	outcome := s.dispatcher.Dispatch(ctx, o)
	if outcome.Overall != OverallFullSuccess {
		s.logger.Error("auto print dispatch degraded",
			"order_id", evt.OrderID,
			"overall", string(outcome.Overall),
		)
	}

	return nil
}
