package kds

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"comanda/internal/domain"
	"comanda/internal/fanout"
	"comanda/internal/logger"
	"comanda/internal/routing"
)

// PendingLister is the reconciliation fetch. Satisfied by the order service
// and the repository; narrow interface for testability.
type PendingLister interface {
	ListPending(ctx context.Context, tenant uuid.UUID) ([]domain.Order, error)
}

// Card is one order as a station sees it: only that station's lines, with
// derived prepared/age state.
type Card struct {
	Order       domain.Order       `json:"order"`
	Items       []domain.OrderLine `json:"items"`
	AllPrepared bool               `json:"all_prepared"`
	Band        string             `json:"band"`
}

// Terminal is one Kitchen Display Screen: keyed to a single station,
// showing only that station's pending line items. It holds a local
// projection fed by the fan-out channel, reconciled against the store on
// start because the channel alone gives no backfill.
type Terminal struct {
	tenant  uuid.UUID
	station uuid.UUID
	lister  PendingLister
	broker  fanout.Broker
	alerts  AlertSink
	mute    bool
	lg      *logger.Logger
	now     func() time.Time

	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
}

func NewTerminal(tenant, station uuid.UUID, lister PendingLister, broker fanout.Broker, alerts AlertSink, mute bool, lg *logger.Logger) *Terminal {
	return &Terminal{
		tenant:  tenant,
		station: station,
		lister:  lister,
		broker:  broker,
		alerts:  alerts,
		mute:    mute,
		lg:      lg,
		now:     func() time.Time { return time.Now().UTC() },
		orders:  map[uuid.UUID]domain.Order{},
	}
}

// Start reconciles against current pending orders, then subscribes. The
// reconciliation fetch is explicit: events missed during a disconnect
// window would otherwise be lost.
func (t *Terminal) Start(ctx context.Context) (fanout.Subscription, error) {
	pending, err := t.lister.ListPending(ctx, t.tenant)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	for _, o := range pending {
		if t.relevant(o) {
			t.orders[o.ID] = o
		}
	}
	t.mu.Unlock()

	return t.broker.Subscribe(ctx, t.tenant, t.onEvent)
}

func (t *Terminal) onEvent(ctx context.Context, ev domain.OrderEvent) error {
	switch ev.Type {
	case domain.EventOrderCreated:
		t.applyInsert(ctx, ev.Order)
	case domain.EventOrderUpdated:
		t.applyUpdate(ev.Order)
	}
	return nil
}

// relevant filters the tenant feed down to this station: system requests
// route to the bill printer role, and an order with zero matching lines is
// invisible here, never an empty card.
func (t *Terminal) relevant(o domain.Order) bool {
	if domain.IsSystemRequest(o) {
		return false
	}
	return len(routing.ItemsForStation(o, t.station)) > 0
}

func (t *Terminal) applyInsert(ctx context.Context, o domain.Order) {
	if !t.relevant(o) {
		return
	}
	t.mu.Lock()
	_, known := t.orders[o.ID]
	t.orders[o.ID] = o
	t.mu.Unlock()
	if known {
		// duplicate delivery; applying identical state is a no-op, no re-alert
		return
	}
	if !t.mute {
		if err := t.alerts.Play(ctx); err != nil {
			t.lg.Debug("alert_swallowed", map[string]any{"error": err.Error()})
		}
	}
}

func (t *Terminal) applyUpdate(o domain.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if o.Status.Terminal() {
		delete(t.orders, o.ID)
		return
	}
	if t.relevant(o) {
		t.orders[o.ID] = o
	}
}

// Cards returns the station view, oldest first, banded by age.
func (t *Terminal) Cards() []Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()

	cards := make([]Card, 0, len(t.orders))
	for _, o := range t.orders {
		cards = append(cards, Card{
			Order:       o,
			Items:       routing.ItemsForStation(o, t.station),
			AllPrepared: routing.AllItemsPreparedForStation(o, t.station),
			Band:        routing.BandFor(now, o.CreatedAt).String(),
		})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Order.CreatedAt.Before(cards[j].Order.CreatedAt) })
	return cards
}

// Run drives a headless terminal: subscribe, then re-band on a coarse
// timer until the context ends.
func (t *Terminal) Run(ctx context.Context) error {
	sub, err := t.Start(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	ticker := time.NewTicker(routing.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cards := t.Cards()
			critical := 0
			for _, c := range cards {
				if c.Band == "critical" {
					critical++
				}
			}
			t.lg.Info("station_snapshot", map[string]any{
				"station_id": t.station.String(), "orders": len(cards), "critical": critical,
			})
		}
	}
}
