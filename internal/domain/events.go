package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
)

// OrderEvent is the fan-out message pushed to every live subscriber of a
// tenant. The full order rides along so consumers can apply it without a
// read-back; duplicate delivery is possible and consumers must treat
// re-applying an identical state as a no-op.
type OrderEvent struct {
	Type       string    `json:"type"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Order      Order     `json:"order"`
	OccurredAt time.Time `json:"occurred_at"`
}
