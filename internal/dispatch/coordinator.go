package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/restoqr/restoqr/internal/order"
	"github.com/restoqr/restoqr/pkg/event"
)

// CloudPrinter and TicketBridge are the two print paths the coordinator
// arbitrates between.
type CloudPrinter interface {
	Dispatch(ctx context.Context, o *order.Order, groups map[string][]*order.OrderItem) []StationPrintResult
}

type TicketBridge interface {
	Send(ctx context.Context, station, ip string, ticket Ticket) error
}

// Coordinator runs a full print dispatch for an order: route items to
// stations, try the cloud path, then rescue failed stations through the
// local bridge when the printer sits on the restaurant's LAN. Stations that
// failed on a public address stay failed; the bridge cannot reach those
// printers either.
type Coordinator struct {
	cloud     CloudPrinter
	bridge    TicketBridge
	publisher events.Publisher
	logger    aqm.Logger
}

func NewCoordinator(cloud CloudPrinter, bridge TicketBridge, publisher events.Publisher, logger aqm.Logger) *Coordinator {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Coordinator{
		cloud:     cloud,
		bridge:    bridge,
		publisher: publisher,
		logger:    logger,
	}
}

func (c *Coordinator) Dispatch(ctx context.Context, o *order.Order) DispatchOutcome {
	groups := Route(o.Items)
	results := c.cloud.Dispatch(ctx, o, groups)

	c.rescueLocal(ctx, o, results)

	outcome := DispatchOutcome{
		OrderID:    o.ID,
		PerStation: results,
		Overall:    Aggregate(results),
	}

	c.logger.Info("print dispatch finished",
		"order_id", o.ID.String(),
		"overall", string(outcome.Overall),
		"stations", len(results),
	)
	c.publishOutcome(ctx, o, outcome)

	return outcome
}

// rescueLocal retries failed LAN stations through the bridge, one goroutine
// per station. Each result slot is owned by exactly one goroutine.
func (c *Coordinator) rescueLocal(ctx context.Context, o *order.Order, results []StationPrintResult) {
	if c.bridge == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range results {
		r := &results[i]
		if r.Success || !r.IsLocalIP || r.IP == "" {
			continue
		}

		wg.Add(1)
		go func(r *StationPrintResult) {
			defer wg.Done()

			ticket := TicketFor(o, r.Station, r.StationItems)
			if err := c.bridge.Send(ctx, r.Station, r.IP, ticket); err != nil {
				c.logger.Debug("bridge rescue failed", "station", r.Station, "ip", r.IP, "error", err)
				r.Error = err.Error()
				return
			}

			r.Success = true
			r.Error = ""
		}(r)
	}
	wg.Wait()
}

func (c *Coordinator) publishOutcome(ctx context.Context, o *order.Order, outcome DispatchOutcome) {
	if c.publisher == nil {
		return
	}

	evt := event.DispatchCompletedEvent{
		EventType:    event.EventDispatchCompleted,
		OccurredAt:   time.Now().UTC(),
		OrderID:      o.ID.String(),
		RestaurantID: o.RestaurantID.String(),
		Overall:      string(outcome.Overall),
		Stations:     make([]event.StationResult, 0, len(outcome.PerStation)),
	}
	for _, r := range outcome.PerStation {
		evt.Stations = append(evt.Stations, event.StationResult{
			Station:   r.Station,
			Success:   r.Success,
			IsLocalIP: r.IsLocalIP,
			IP:        r.IP,
			Error:     r.Error,
		})
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		c.logger.Error("cannot encode dispatch event", "error", err, "order_id", o.ID.String())
		return
	}

	if err := c.publisher.Publish(ctx, event.DispatchTopic, payload); err != nil {
		c.logger.Error("cannot publish dispatch event", "error", err, "order_id", o.ID.String())
	}
}
