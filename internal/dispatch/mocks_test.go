package dispatch

import (
	"context"
	"sync"

	aqm "github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/internal/order"
)

// MockPrintServiceClient is a mock implementation of PrintServiceClient for testing
type MockPrintServiceClient struct {
	RequestFunc func(ctx context.Context, method, path string, body interface{}) (*aqm.SuccessResponse, error)
}

func (m *MockPrintServiceClient) Request(ctx context.Context, method, path string, body interface{}) (*aqm.SuccessResponse, error) {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, method, path, body)
	}
	return &aqm.SuccessResponse{}, nil
}

// MockCloudPrinter is a mock implementation of CloudPrinter for testing
type MockCloudPrinter struct {
	DispatchFunc func(ctx context.Context, o *order.Order, groups map[string][]*order.OrderItem) []StationPrintResult
}

func (m *MockCloudPrinter) Dispatch(ctx context.Context, o *order.Order, groups map[string][]*order.OrderItem) []StationPrintResult {
	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, o, groups)
	}
	return nil
}

// MockTicketBridge is a mock implementation of TicketBridge for testing
type MockTicketBridge struct {
	mu       sync.Mutex
	Sent     []string
	SendFunc func(ctx context.Context, station, ip string, ticket Ticket) error
}

func (m *MockTicketBridge) Send(ctx context.Context, station, ip string, ticket Ticket) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, station)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, station, ip, ticket)
	}
	return nil
}

func (m *MockTicketBridge) SentStations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Sent...)
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

// MockOrderLoader is a mock implementation of OrderLoader for testing
type MockOrderLoader struct {
	Orders map[uuid.UUID]*order.Order
}

func (m *MockOrderLoader) GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return m.Orders[id], nil
}
