package order

import (
	"github.com/restoqr/restoqr/pkg/enums/itemstatus"
	"github.com/restoqr/restoqr/pkg/enums/orderstatus"
)

// Orders advance one step at a time; cancellation is the only escape and is
// closed off once the order is served. Items follow the same shape without
// the closing statuses, since a kitchen never completes or cancels a single
// line on its own.
var orderEdges = map[string][]string{
	orderstatus.Statuses.Pending.Code():   {orderstatus.Statuses.Preparing.Code(), orderstatus.Statuses.Cancelled.Code()},
	orderstatus.Statuses.Preparing.Code(): {orderstatus.Statuses.Ready.Code(), orderstatus.Statuses.Cancelled.Code()},
	orderstatus.Statuses.Ready.Code():     {orderstatus.Statuses.Served.Code(), orderstatus.Statuses.Cancelled.Code()},
	orderstatus.Statuses.Served.Code():    {orderstatus.Statuses.Completed.Code()},
}

var itemEdges = map[string][]string{
	itemstatus.Statuses.Pending.Code():   {itemstatus.Statuses.Preparing.Code()},
	itemstatus.Statuses.Preparing.Code(): {itemstatus.Statuses.Ready.Code()},
	itemstatus.Statuses.Ready.Code():     {itemstatus.Statuses.Served.Code()},
}

func canOrderTransition(from, to string) bool {
	for _, next := range orderEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

func canItemTransition(from, to string) bool {
	for _, next := range itemEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

func isTerminalOrderStatus(status string) bool {
	return status == orderstatus.Statuses.Completed.Code() ||
		status == orderstatus.Statuses.Cancelled.Code()
}
