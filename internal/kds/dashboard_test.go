package kds

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/internal/domain"
	"comanda/internal/fanout"
	"comanda/internal/logger"
)

func startDashboard(t *testing.T, lister PendingLister, sink AlertSink, mute bool) (*Dashboard, *fanout.Memory) {
	t.Helper()
	broker := fanout.NewMemory()
	d := NewDashboard(tenant, lister, broker, sink, mute, logger.New("test"))
	_, err := d.Start(context.Background())
	require.NoError(t, err)
	return d, broker
}

func TestDashboardSeesEverything(t *testing.T) {
	d, broker := startDashboard(t, staticLister{}, &countingSink{}, false)

	publish(t, broker, domain.EventOrderCreated, grillOrder(uuid.New()))

	unrouted := domain.Order{
		ID: uuid.New(), TenantID: tenant, Status: domain.StatusPending, CreatedAt: time.Now().UTC(),
		Items: []domain.OrderLine{{ItemID: "flan", Name: "Flan", Quantity: 1}},
	}
	publish(t, broker, domain.EventOrderCreated, unrouted)

	help := domain.Order{
		ID: uuid.New(), TenantID: tenant, Status: domain.StatusPending, TableLabel: "7", CreatedAt: time.Now().UTC(),
		Items: []domain.OrderLine{{ItemID: domain.HelpRequestItemID, Quantity: 1, Notes: "need napkins"}},
	}
	publish(t, broker, domain.EventOrderCreated, help)

	cards := d.Cards()
	require.Len(t, cards, 3)

	var helpCard *DashboardCard
	for i := range cards {
		if cards[i].HelpRequest {
			helpCard = &cards[i]
		}
	}
	require.NotNil(t, helpCard)
	assert.Equal(t, "need napkins", helpCard.HelpMessage)
	assert.Equal(t, "7", helpCard.Order.TableLabel)
}

func TestDashboardAlertOnInsertOnly(t *testing.T) {
	sink := &countingSink{}
	d, broker := startDashboard(t, staticLister{}, sink, false)

	o := grillOrder(uuid.New())
	publish(t, broker, domain.EventOrderCreated, o)
	publish(t, broker, domain.EventOrderUpdated, o)

	assert.Equal(t, 1, sink.count())
	assert.Len(t, d.Cards(), 1)
}

func TestDashboardDropsCompletedOrders(t *testing.T) {
	d, broker := startDashboard(t, staticLister{}, &countingSink{}, false)

	o := grillOrder(uuid.New())
	publish(t, broker, domain.EventOrderCreated, o)
	o.Status = domain.StatusCancelled
	publish(t, broker, domain.EventOrderUpdated, o)

	assert.Empty(t, d.Cards())
}
