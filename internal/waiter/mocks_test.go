package waiter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockCallRepo is a mock implementation of CallRepo for testing
type MockCallRepo struct {
	mu         sync.RWMutex
	calls      map[uuid.UUID]*WaiterCall
	CreateFunc func(ctx context.Context, call *WaiterCall) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*WaiterCall, error)
	SaveFunc   func(ctx context.Context, call *WaiterCall) error
}

func NewMockCallRepo() *MockCallRepo {
	return &MockCallRepo{
		calls: make(map[uuid.UUID]*WaiterCall),
	}
}

func (m *MockCallRepo) Create(ctx context.Context, call *WaiterCall) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, call)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[call.ID] = call
	return nil
}

func (m *MockCallRepo) Get(ctx context.Context, id uuid.UUID) (*WaiterCall, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	call, ok := m.calls[id]
	if !ok {
		return nil, nil
	}
	return call, nil
}

func (m *MockCallRepo) ListOpen(ctx context.Context, restaurantID uuid.UUID) ([]*WaiterCall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*WaiterCall
	for _, call := range m.calls {
		if call.RestaurantID == restaurantID && call.Status == StatusOpen {
			result = append(result, call)
		}
	}
	return result, nil
}

func (m *MockCallRepo) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*WaiterCall, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*WaiterCall
	for _, call := range m.calls {
		if call.RestaurantID == restaurantID {
			result = append(result, call)
		}
	}
	return result, nil
}

func (m *MockCallRepo) Save(ctx context.Context, call *WaiterCall) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, call)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[call.ID] = call
	return nil
}

func (m *MockCallRepo) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, call := range m.calls {
		if call.Status == StatusResolved && call.ResolvedAt != nil && call.ResolvedAt.Before(cutoff) {
			delete(m.calls, id)
			removed++
		}
	}
	return removed, nil
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu        sync.Mutex
	Topics    []string
	Published [][]byte
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Topics = append(m.Topics, topic)
	m.Published = append(m.Published, msg)
	return nil
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}
