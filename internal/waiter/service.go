package waiter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/pkg/event"
)

// Service owns the waiter call queue: tables raise calls, staff resolve
// them. Resolving is idempotent, two waiters tapping the same call must not
// produce an error on either screen.
type Service struct {
	repo      CallRepo
	publisher events.Publisher
	logger    aqm.Logger
}

func NewService(repo CallRepo, publisher events.Publisher, logger aqm.Logger) *Service {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) CreateCall(ctx context.Context, restaurantID uuid.UUID, tableNumber int, callType, message string) (*WaiterCall, error) {
	if restaurantID == uuid.Nil {
		return nil, &ValidationError{Msg: "restaurant_id is required"}
	}
	if tableNumber <= 0 {
		return nil, &ValidationError{Msg: "table_number must be positive"}
	}
	if callType == "" {
		callType = TypeCustom
	}
	if !ValidCallType(callType) {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown call type %q", callType)}
	}

	call := NewWaiterCall()
	call.RestaurantID = restaurantID
	call.TableNumber = tableNumber
	call.Type = callType
	call.Message = message

	if err := s.repo.Create(ctx, call); err != nil {
		return nil, fmt.Errorf("cannot create waiter call: %w", err)
	}

	s.publishCall(ctx, event.EventWaiterCallCreated, call)

	return call, nil
}

// ResolveCall closes a call. Resolving an already resolved call returns the
// call unchanged and publishes nothing.
func (s *Service) ResolveCall(ctx context.Context, id uuid.UUID) (*WaiterCall, error) {
	call, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot load waiter call: %w", err)
	}
	if call == nil {
		return nil, nil
	}
	if call.IsResolved() {
		return call, nil
	}

	call.Resolve()
	if err := s.repo.Save(ctx, call); err != nil {
		return nil, fmt.Errorf("cannot resolve waiter call: %w", err)
	}

	s.publishCall(ctx, event.EventWaiterCallResolved, call)

	return call, nil
}

func (s *Service) ListOpen(ctx context.Context, restaurantID uuid.UUID) ([]*WaiterCall, error) {
	if restaurantID == uuid.Nil {
		return nil, &ValidationError{Msg: "restaurant_id is required"}
	}
	calls, err := s.repo.ListOpen(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("cannot list open waiter calls: %w", err)
	}
	return calls, nil
}

// PurgeResolved drops resolved calls older than the retention window.
func (s *Service) PurgeResolved(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	removed, err := s.repo.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cannot purge resolved waiter calls: %w", err)
	}
	return removed, nil
}

func (s *Service) publishCall(ctx context.Context, eventType string, call *WaiterCall) {
	if s.publisher == nil {
		return
	}

	evt := event.WaiterCallEvent{
		EventType:    eventType,
		OccurredAt:   time.Now().UTC(),
		CallID:       call.ID.String(),
		RestaurantID: call.RestaurantID.String(),
		TableNumber:  call.TableNumber,
		Type:         call.Type,
		Message:      call.Message,
		Status:       call.Status,
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		s.logger.Error("cannot encode waiter call event", "error", err, "call_id", call.ID.String())
		return
	}

	if err := s.publisher.Publish(ctx, event.WaiterCallsTopic, payload); err != nil {
		s.logger.Error("cannot publish waiter call event", "error", err, "call_id", call.ID.String())
	}
}
