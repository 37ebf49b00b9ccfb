package dispatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/restoqr/restoqr/internal/order"
	"github.com/restoqr/restoqr/pkg/event"
)

func statusEventPayload(t *testing.T, orderID uuid.UUID, eventType, status string) []byte {
	t.Helper()
	payload, err := json.Marshal(event.OrderStatusEvent{
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID.String(),
		Status:     status,
	})
	if err != nil {
		t.Fatalf("cannot marshal event: %v", err)
	}
	return payload
}

func TestOrderStatusSubscriberHandleEvent(t *testing.T) {
	o := coordinatorTestOrder()

	tests := []struct {
		name         string
		payload      func(t *testing.T) []byte
		wantDispatch bool
	}{
		{
			name: "dispatchesWhenOrderStartsPreparing",
			payload: func(t *testing.T) []byte {
				return statusEventPayload(t, o.ID, event.EventOrderStatusChanged, "preparing")
			},
			wantDispatch: true,
		},
		{
			name: "ignoresOtherStatuses",
			payload: func(t *testing.T) []byte {
				return statusEventPayload(t, o.ID, event.EventOrderStatusChanged, "ready")
			},
		},
		{
			name: "ignoresOtherEventTypes",
			payload: func(t *testing.T) []byte {
				return statusEventPayload(t, o.ID, event.EventOrderItemCreated, "preparing")
			},
		},
		{
			name: "ignoresMalformedPayload",
			payload: func(t *testing.T) []byte {
				return []byte("not json")
			},
		},
		{
			name: "ignoresUnknownOrder",
			payload: func(t *testing.T) []byte {
				return statusEventPayload(t, uuid.New(), event.EventOrderStatusChanged, "preparing")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatched := 0
			cloud := &MockCloudPrinter{
				DispatchFunc: func(ctx context.Context, got *order.Order, groups map[string][]*order.OrderItem) []StationPrintResult {
					dispatched++
					if got.ID != o.ID {
						t.Errorf("dispatched order = %s, want %s", got.ID, o.ID)
					}
					return []StationPrintResult{{Station: "grill", Success: true}}
				},
			}
			coordinator := NewCoordinator(cloud, nil, nil, nil)
			loader := &MockOrderLoader{Orders: map[uuid.UUID]*order.Order{o.ID: o}}
			sub := NewOrderStatusSubscriber(nil, loader, coordinator, nil)

			if err := sub.handleEvent(context.Background(), tt.payload(t)); err != nil {
				t.Fatalf("handleEvent() unexpected error: %v", err)
			}

			want := 0
			if tt.wantDispatch {
				want = 1
			}
			if dispatched != want {
				t.Errorf("dispatches = %d, want %d", dispatched, want)
			}
		})
	}
}
