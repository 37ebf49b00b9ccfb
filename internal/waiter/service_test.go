package waiter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/restoqr/restoqr/pkg/event"
)

func newTestService() (*Service, *MockCallRepo, *MockPublisher) {
	repo := NewMockCallRepo()
	pub := &MockPublisher{}
	return NewService(repo, pub, nil), repo, pub
}

func TestServiceCreateCall(t *testing.T) {
	restaurantID := uuid.MustParse("660e8400-e29b-41d4-a716-446655440000")

	tests := []struct {
		name         string
		restaurantID uuid.UUID
		tableNumber  int
		callType     string
		wantErr      bool
		wantType     string
	}{
		{
			name:         "createsOpenCall",
			restaurantID: restaurantID,
			tableNumber:  4,
			callType:     TypeWater,
			wantType:     TypeWater,
		},
		{
			name:         "emptyTypeDefaultsToCustom",
			restaurantID: restaurantID,
			tableNumber:  4,
			wantType:     TypeCustom,
		},
		{
			name:         "rejectsUnknownType",
			restaurantID: restaurantID,
			tableNumber:  4,
			callType:     "serenade",
			wantErr:      true,
		},
		{
			name:        "rejectsMissingRestaurant",
			tableNumber: 4,
			callType:    TypeHelp,
			wantErr:     true,
		},
		{
			name:         "rejectsNonPositiveTable",
			restaurantID: restaurantID,
			tableNumber:  0,
			callType:     TypeHelp,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, pub := newTestService()

			call, err := service.CreateCall(context.Background(), tt.restaurantID, tt.tableNumber, tt.callType, "")
			if tt.wantErr {
				if err == nil {
					t.Fatal("CreateCall() expected error, got nil")
				}
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("CreateCall() error = %v, want ValidationError", err)
				}
				if pub.Count() != 0 {
					t.Errorf("published events = %d, want 0 on validation failure", pub.Count())
				}
				return
			}

			if err != nil {
				t.Fatalf("CreateCall() unexpected error: %v", err)
			}
			if call.Status != StatusOpen {
				t.Errorf("Status = %q, want %q", call.Status, StatusOpen)
			}
			if call.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", call.Type, tt.wantType)
			}
			if pub.Count() != 1 {
				t.Fatalf("published events = %d, want 1", pub.Count())
			}

			var evt event.WaiterCallEvent
			if err := json.Unmarshal(pub.Published[0], &evt); err != nil {
				t.Fatalf("cannot decode event: %v", err)
			}
			if evt.EventType != event.EventWaiterCallCreated {
				t.Errorf("EventType = %q, want %q", evt.EventType, event.EventWaiterCallCreated)
			}
		})
	}
}

func TestServiceResolveCall(t *testing.T) {
	t.Run("resolvesOpenCall", func(t *testing.T) {
		service, _, pub := newTestService()

		call, err := service.CreateCall(context.Background(), uuid.New(), 4, TypeBill, "")
		if err != nil {
			t.Fatalf("CreateCall() unexpected error: %v", err)
		}

		resolved, err := service.ResolveCall(context.Background(), call.ID)
		if err != nil {
			t.Fatalf("ResolveCall() unexpected error: %v", err)
		}
		if !resolved.IsResolved() {
			t.Error("ResolveCall() should resolve the call")
		}
		if pub.Count() != 2 {
			t.Errorf("published events = %d, want 2 (created + resolved)", pub.Count())
		}
	})

	t.Run("resolvingTwiceIsIdempotent", func(t *testing.T) {
		service, _, pub := newTestService()

		call, err := service.CreateCall(context.Background(), uuid.New(), 4, TypeBill, "")
		if err != nil {
			t.Fatalf("CreateCall() unexpected error: %v", err)
		}

		if _, err := service.ResolveCall(context.Background(), call.ID); err != nil {
			t.Fatalf("first ResolveCall() unexpected error: %v", err)
		}
		firstEvents := pub.Count()

		again, err := service.ResolveCall(context.Background(), call.ID)
		if err != nil {
			t.Fatalf("second ResolveCall() unexpected error: %v", err)
		}
		if !again.IsResolved() {
			t.Error("second ResolveCall() should return the resolved call")
		}
		if pub.Count() != firstEvents {
			t.Errorf("second resolve published %d extra events, want 0", pub.Count()-firstEvents)
		}
	})

	t.Run("returnsNilWhenMissing", func(t *testing.T) {
		service, _, _ := newTestService()

		call, err := service.ResolveCall(context.Background(), uuid.New())
		if err != nil {
			t.Fatalf("ResolveCall() unexpected error: %v", err)
		}
		if call != nil {
			t.Errorf("ResolveCall() = %v, want nil", call)
		}
	})
}

func TestServiceListOpen(t *testing.T) {
	service, _, _ := newTestService()
	restaurantID := uuid.New()
	otherRestaurant := uuid.New()

	first, err := service.CreateCall(context.Background(), restaurantID, 1, TypeHelp, "")
	if err != nil {
		t.Fatalf("CreateCall() unexpected error: %v", err)
	}
	if _, err := service.CreateCall(context.Background(), restaurantID, 2, TypeWater, ""); err != nil {
		t.Fatalf("CreateCall() unexpected error: %v", err)
	}
	if _, err := service.CreateCall(context.Background(), otherRestaurant, 3, TypeBill, ""); err != nil {
		t.Fatalf("CreateCall() unexpected error: %v", err)
	}

	if _, err := service.ResolveCall(context.Background(), first.ID); err != nil {
		t.Fatalf("ResolveCall() unexpected error: %v", err)
	}

	open, err := service.ListOpen(context.Background(), restaurantID)
	if err != nil {
		t.Fatalf("ListOpen() unexpected error: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("open calls = %d, want 1", len(open))
	}
	if open[0].TableNumber != 2 {
		t.Errorf("open call table = %d, want 2", open[0].TableNumber)
	}
}

func TestServicePurgeResolved(t *testing.T) {
	service, repo, _ := newTestService()
	restaurantID := uuid.New()

	stale, err := service.CreateCall(context.Background(), restaurantID, 1, TypeHelp, "")
	if err != nil {
		t.Fatalf("CreateCall() unexpected error: %v", err)
	}
	fresh, err := service.CreateCall(context.Background(), restaurantID, 2, TypeWater, "")
	if err != nil {
		t.Fatalf("CreateCall() unexpected error: %v", err)
	}

	if _, err := service.ResolveCall(context.Background(), stale.ID); err != nil {
		t.Fatalf("ResolveCall() unexpected error: %v", err)
	}
	past := time.Now().Add(-48 * time.Hour)
	stale.ResolvedAt = &past

	removed, err := service.PurgeResolved(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("PurgeResolved() unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	remaining, err := repo.Get(context.Background(), fresh.ID)
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if remaining == nil {
		t.Error("open call should survive the purge")
	}
}
