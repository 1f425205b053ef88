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

// DashboardCard is one order as the main dashboard sees it: everything,
// system requests included and flagged.
type DashboardCard struct {
	Order       domain.Order `json:"order"`
	Band        string       `json:"band"`
	BillRequest bool         `json:"bill_request"`
	HelpRequest bool         `json:"help_request"`
	HelpMessage string       `json:"help_message,omitempty"`
}

// Dashboard is the staff-wide consumer: the whole tenant feed, unfiltered.
type Dashboard struct {
	tenant uuid.UUID
	lister PendingLister
	broker fanout.Broker
	alerts AlertSink
	mute   bool
	lg     *logger.Logger
	now    func() time.Time

	mu     sync.Mutex
	orders map[uuid.UUID]domain.Order
}

func NewDashboard(tenant uuid.UUID, lister PendingLister, broker fanout.Broker, alerts AlertSink, mute bool, lg *logger.Logger) *Dashboard {
	return &Dashboard{
		tenant: tenant,
		lister: lister,
		broker: broker,
		alerts: alerts,
		mute:   mute,
		lg:     lg,
		now:    func() time.Time { return time.Now().UTC() },
		orders: map[uuid.UUID]domain.Order{},
	}
}

func (d *Dashboard) Start(ctx context.Context) (fanout.Subscription, error) {
	pending, err := d.lister.ListPending(ctx, d.tenant)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	for _, o := range pending {
		d.orders[o.ID] = o
	}
	d.mu.Unlock()

	return d.broker.Subscribe(ctx, d.tenant, d.onEvent)
}

func (d *Dashboard) onEvent(ctx context.Context, ev domain.OrderEvent) error {
	switch ev.Type {
	case domain.EventOrderCreated:
		d.mu.Lock()
		_, known := d.orders[ev.Order.ID]
		d.orders[ev.Order.ID] = ev.Order
		d.mu.Unlock()
		if !known && !d.mute {
			if err := d.alerts.Play(ctx); err != nil {
				d.lg.Debug("alert_swallowed", map[string]any{"error": err.Error()})
			}
		}
	case domain.EventOrderUpdated:
		d.mu.Lock()
		if ev.Order.Status.Terminal() {
			delete(d.orders, ev.Order.ID)
		} else {
			d.orders[ev.Order.ID] = ev.Order
		}
		d.mu.Unlock()
	}
	return nil
}

func (d *Dashboard) Cards() []DashboardCard {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()

	cards := make([]DashboardCard, 0, len(d.orders))
	for _, o := range d.orders {
		cards = append(cards, DashboardCard{
			Order:       o,
			Band:        routing.BandFor(now, o.CreatedAt).String(),
			BillRequest: domain.IsBillRequest(o),
			HelpRequest: domain.IsHelpRequest(o),
			HelpMessage: domain.HelpMessage(o),
		})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].Order.CreatedAt.Before(cards[j].Order.CreatedAt) })
	return cards
}

func (d *Dashboard) Run(ctx context.Context) error {
	sub, err := d.Start(ctx)
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
			cards := d.Cards()
			d.lg.Info("dashboard_snapshot", map[string]any{"orders": len(cards)})
		}
	}
}
