package waiter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CallRepo interface {
	Create(ctx context.Context, call *WaiterCall) error
	Get(ctx context.Context, id uuid.UUID) (*WaiterCall, error)
	ListOpen(ctx context.Context, restaurantID uuid.UUID) ([]*WaiterCall, error)
	ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*WaiterCall, error)
	Save(ctx context.Context, call *WaiterCall) error
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
