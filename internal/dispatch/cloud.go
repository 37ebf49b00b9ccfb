package dispatch

import (
	"context"
	"encoding/json"
	"net/http"

	aqm "github.com/appetiteclub/apt"

	"github.com/restoqr/restoqr/internal/order"
)

// PrintServiceClient covers the slice of the platform service client the
// cloud dispatcher needs.
type PrintServiceClient interface {
	Request(ctx context.Context, method, path string, body interface{}) (*aqm.SuccessResponse, error)
}

// CloudDispatcher sends one print request per order to the cloud print
// service and reports how each station fared. A transport failure marks
// every station as failed rather than erroring out; printing never blocks
// the order flow.
type CloudDispatcher struct {
	client PrintServiceClient
	logger aqm.Logger
}

func NewCloudDispatcher(client PrintServiceClient, logger aqm.Logger) *CloudDispatcher {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &CloudDispatcher{
		client: client,
		logger: logger,
	}
}

type cloudPrintRequest struct {
	OrderID      string        `json:"order_id"`
	RestaurantID string        `json:"restaurant_id"`
	Stations     []cloudTicket `json:"stations"`
}

type cloudTicket struct {
	Station string `json:"station"`
	Ticket  Ticket `json:"ticket"`
}

// The print service decides locality itself: it compares each printer's
// configured address against the private ranges, so isLocalIP arrives
// already resolved.
type cloudStationResult struct {
	Station   string `json:"station"`
	Success   bool   `json:"success"`
	IsLocalIP bool   `json:"isLocalIP"`
	IP        string `json:"ip"`
	Error     string `json:"error"`
}

type cloudPrintResponse struct {
	Results []cloudStationResult `json:"results"`
}

// Dispatch issues the cloud print call and returns one result per routed
// station, in stable station order.
func (d *CloudDispatcher) Dispatch(ctx context.Context, o *order.Order, groups map[string][]*order.OrderItem) []StationPrintResult {
	stations := Stations(groups)

	req := cloudPrintRequest{
		OrderID:      o.ID.String(),
		RestaurantID: o.RestaurantID.String(),
		Stations:     make([]cloudTicket, 0, len(stations)),
	}
	for _, station := range stations {
		req.Stations = append(req.Stations, cloudTicket{
			Station: station,
			Ticket:  TicketFor(o, station, groups[station]),
		})
	}

	resp, err := d.client.Request(ctx, http.MethodPost, "/print-orders", req)
	if err != nil {
		d.logger.Error("cloud print request failed", "error", err, "order_id", o.ID.String())
		return failAllStations(stations, groups, "print service unreachable: "+err.Error())
	}

	var decoded cloudPrintResponse
	if err := rehydrate(resp.Data, &decoded); err != nil {
		d.logger.Error("cannot decode cloud print response", "error", err, "order_id", o.ID.String())
		return failAllStations(stations, groups, "invalid print service response")
	}

	byStation := make(map[string]cloudStationResult, len(decoded.Results))
	for _, r := range decoded.Results {
		byStation[r.Station] = r
	}

	results := make([]StationPrintResult, 0, len(stations))
	for _, station := range stations {
		r, found := byStation[station]
		if !found {
			results = append(results, StationPrintResult{
				Station:      station,
				Success:      false,
				Error:        "no result from print service",
				StationItems: groups[station],
			})
			continue
		}
		results = append(results, StationPrintResult{
			Station:      station,
			Success:      r.Success,
			IsLocalIP:    r.IsLocalIP,
			IP:           r.IP,
			Error:        r.Error,
			StationItems: groups[station],
		})
	}

	return results
}

func failAllStations(stations []string, groups map[string][]*order.OrderItem, reason string) []StationPrintResult {
	results := make([]StationPrintResult, 0, len(stations))
	for _, station := range stations {
		results = append(results, StationPrintResult{
			Station:      station,
			Success:      false,
			Error:        reason,
			StationItems: groups[station],
		})
	}
	return results
}

// rehydrate converts the envelope's generic payload into a typed value.
func rehydrate(data interface{}, target interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
