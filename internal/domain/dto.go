package domain

import "github.com/google/uuid"

// Transport shapes. Prices travel as decimal strings and are parsed
// defensively; a bad value degrades to zero rather than rejecting the order.

type SelectedOptionRequest struct {
	Group    string `json:"group"`
	Option   string `json:"option"`
	Modifier string `json:"price_modifier"`
}

type CreateOrderLineRequest struct {
	ItemID    string                  `json:"item_id"`
	Name      string                  `json:"name"`
	Price     string                  `json:"price"`
	Quantity  int                     `json:"quantity"`
	Notes     string                  `json:"notes,omitempty"`
	StationID *uuid.UUID              `json:"station_id,omitempty"`
	Options   []SelectedOptionRequest `json:"selected_options,omitempty"`
}

type CreateOrderRequest struct {
	TableLabel string                   `json:"table_label"`
	Items      []CreateOrderLineRequest `json:"items"`
	Total      string                   `json:"total"`
}

type CreateOrderResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	TableLabel string    `json:"table_label"` // carries the assigned LLEVAR-<n> for takeout
	Status     string    `json:"status"`
	Total      string    `json:"total"`
}

type TogglePreparedRequest struct {
	ItemID    string    `json:"item_id"`
	StationID uuid.UUID `json:"station_id"`
}

type CreateStationRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}
