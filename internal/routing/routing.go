// Package routing projects tenant-wide pending orders down to what a single
// station must prepare, and derives per-item completion state.
package routing

import (
	"github.com/google/uuid"

	"comanda/internal/domain"
)

// ItemsForStation returns the order lines bound to the station. An order
// with no matching lines is invisible to that station; callers must not
// render an empty card for it.
func ItemsForStation(o domain.Order, stationID uuid.UUID) []domain.OrderLine {
	var out []domain.OrderLine
	for _, l := range o.Items {
		if l.StationID != nil && *l.StationID == stationID {
			out = append(out, l)
		}
	}
	return out
}

// IsPrepared reports whether a prepared mark exists for the exact
// (item, station) pair.
func IsPrepared(o domain.Order, itemID string, stationID uuid.UUID) bool {
	return o.HasPrepared(itemID, stationID)
}

// AllItemsPreparedForStation reports whether every line routed to the
// station carries a prepared mark. Display-only ("LISTO" badge): it carries
// no transition obligation, a human still completes the order.
func AllItemsPreparedForStation(o domain.Order, stationID uuid.UUID) bool {
	items := ItemsForStation(o, stationID)
	if len(items) == 0 {
		return false
	}
	for _, l := range items {
		if !o.HasPrepared(l.ItemID, stationID) {
			return false
		}
	}
	return true
}
