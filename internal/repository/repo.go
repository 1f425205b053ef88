package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"comanda/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Orders is the authoritative per-tenant order store. It owns status
// transition legality: pending is initial, completed/cancelled are terminal,
// and nothing leaves a terminal state.
type Orders interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ListPending(ctx context.Context, tenant uuid.UUID) ([]domain.Order, error)
	ListCompleted(ctx context.Context, tenant uuid.UUID, since time.Time) ([]domain.Order, error)
	// SetStatus transitions the order to a terminal status. changed is false
	// when the order was already terminal (benign no-op).
	SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (o domain.Order, changed bool, err error)
	// TogglePrepared flips membership of the (item, station) prepared mark.
	// changed is false when the order is no longer pending.
	TogglePrepared(ctx context.Context, orderID uuid.UUID, itemID string, stationID uuid.UUID) (added, changed bool, err error)
	TakeoutLabels(ctx context.Context, tenant uuid.UUID) ([]string, error)
}

// Stations is the per-tenant kitchen station registry.
type Stations interface {
	Create(ctx context.Context, s *domain.Station) error
	List(ctx context.Context, tenant uuid.UUID) ([]domain.Station, error)
	// Delete removes the station and unassigns it from menu items. Historical
	// order lines are immutable snapshots and are never rewritten.
	Delete(ctx context.Context, tenant, id uuid.UUID) error
}
