package domain

import "github.com/google/uuid"

// Station is a named kitchen or bar prep area. Order lines are routed to
// zero or one station; name and color are display-only identity.
type Station struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}
