package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further status transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// UnknownTable is stored when the client could not resolve a table label.
const UnknownTable = "S/N"

// SelectedOption is one chosen modifier on an order line. Its price modifier
// sums into the line's effective unit price.
type SelectedOption struct {
	Group    string          `json:"group"`
	Option   string          `json:"option"`
	Modifier decimal.Decimal `json:"modifier"`
}

// OrderLine is an immutable snapshot of a menu item at submission time.
// ItemID references a menu item, or one of the reserved sentinel ids for
// system requests (bill-req, help-req).
type OrderLine struct {
	ItemID    string           `json:"item_id"`
	Name      string           `json:"name"`
	Price     decimal.Decimal  `json:"price"`
	Quantity  int              `json:"quantity"`
	Notes     string           `json:"notes,omitempty"`
	StationID *uuid.UUID       `json:"station_id,omitempty"`
	Options   []SelectedOption `json:"selected_options,omitempty"`
}

// UnitPrice is the line price plus the sum of option modifiers.
func (l OrderLine) UnitPrice() decimal.Decimal {
	p := l.Price
	for _, o := range l.Options {
		p = p.Add(o.Modifier)
	}
	return p
}

// LineTotal is UnitPrice times quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PreparedMark flags one (item, station) pair as physically prepared.
// An item mis-tagged at two stations tracks preparation independently
// per station.
type PreparedMark struct {
	ItemID      string    `json:"item_id"`
	StationID   uuid.UUID `json:"station_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type Order struct {
	ID         uuid.UUID       `json:"id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	TableLabel string          `json:"table_label"`
	Status     OrderStatus     `json:"status"`
	Total      decimal.Decimal `json:"total"`
	Items      []OrderLine     `json:"items"`
	Prepared   []PreparedMark  `json:"prepared_items,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// HasPrepared reports whether the exact (item, station) pair is marked.
func (o Order) HasPrepared(itemID string, stationID uuid.UUID) bool {
	for _, m := range o.Prepared {
		if m.ItemID == itemID && m.StationID == stationID {
			return true
		}
	}
	return false
}
