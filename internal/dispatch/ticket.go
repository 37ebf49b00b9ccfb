package dispatch

import (
	"strconv"
	"strings"

	"github.com/restoqr/restoqr/internal/order"
)

// TicketType distinguishes kitchen tickets from other printables a printer
// may receive (receipts, reports). Only kitchen tickets exist here.
const TicketType = "kitchen"

// TakeawayLabel replaces the table number on tickets for orders without a
// table.
const TakeawayLabel = "takeaway"

// Ticket is the printable payload for one station. Field names follow the
// print service and bridge wire contract.
type Ticket struct {
	OrderNumber string       `json:"orderNumber"`
	TableNumber string       `json:"tableNumber"`
	Items       []TicketItem `json:"items"`
	Header      string       `json:"header,omitempty"`
	OrderNote   string       `json:"orderNote,omitempty"`
	Type        string       `json:"type"`
}

type TicketItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// TicketFor renders the station's slice of an order into a printable ticket.
func TicketFor(o *order.Order, station string, items []*order.OrderItem) Ticket {
	ticket := Ticket{
		OrderNumber: o.Number,
		TableNumber: TakeawayLabel,
		Items:       make([]TicketItem, 0, len(items)),
		Header:      strings.ToUpper(station),
		OrderNote:   o.Notes,
		Type:        TicketType,
	}

	if o.TableNumber != nil {
		ticket.TableNumber = strconv.Itoa(*o.TableNumber)
	}

	for _, item := range items {
		ticket.Items = append(ticket.Items, TicketItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Notes:    item.Notes,
		})
	}

	return ticket
}
