package dispatch

import (
	"sort"

	"github.com/restoqr/restoqr/internal/order"
)

// Route partitions an order's items by kitchen station. Items without a
// station land in the default bucket. The input is never mutated.
func Route(items []*order.OrderItem) map[string][]*order.OrderItem {
	groups := make(map[string][]*order.OrderItem)
	for _, item := range items {
		station := item.KitchenStation
		if station == "" {
			station = DefaultStation
		}
		groups[station] = append(groups[station], item)
	}
	return groups
}

// Stations returns the group keys in a stable order.
func Stations(groups map[string][]*order.OrderItem) []string {
	stations := make([]string, 0, len(groups))
	for station := range groups {
		stations = append(stations, station)
	}
	sort.Strings(stations)
	return stations
}
