package dispatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/internal/order"
)

func TestHandlerPrintOrder(t *testing.T) {
	o := coordinatorTestOrder()
	cancelled := coordinatorTestOrder()
	cancelled.ID = uuid.New()
	cancelled.Status = "cancelled"

	loader := &MockOrderLoader{Orders: map[uuid.UUID]*order.Order{
		o.ID:         o,
		cancelled.ID: cancelled,
	}}
	cloud := &MockCloudPrinter{
		DispatchFunc: func(ctx context.Context, got *order.Order, groups map[string][]*order.OrderItem) []StationPrintResult {
			return []StationPrintResult{{Station: "grill", Success: true}}
		},
	}
	coordinator := NewCoordinator(cloud, nil, nil, nil)

	h := NewHandler(loader, coordinator, nil)
	router := chi.NewRouter()
	h.RegisterRoutes(router)

	tests := []struct {
		name       string
		orderID    string
		wantStatus int
	}{
		{
			name:       "dispatchesExistingOrder",
			orderID:    o.ID.String(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "refusesCancelledOrder",
			orderID:    cancelled.ID.String(),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknownOrderIsNotFound",
			orderID:    uuid.New().String(),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "rejectsInvalidID",
			orderID:    "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders/"+tt.orderID+"/print", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}
