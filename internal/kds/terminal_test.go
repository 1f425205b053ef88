package kds

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/internal/domain"
	"comanda/internal/fanout"
	"comanda/internal/logger"
)

var (
	tenant = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	grill  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	bar    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

type staticLister struct{ orders []domain.Order }

func (l staticLister) ListPending(context.Context, uuid.UUID) ([]domain.Order, error) {
	return l.orders, nil
}

type countingSink struct {
	mu    sync.Mutex
	plays int
	err   error
}

func (s *countingSink) Play(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return s.err
}

func (s *countingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plays
}

func grillOrder(id uuid.UUID) domain.Order {
	return domain.Order{
		ID: id, TenantID: tenant, Status: domain.StatusPending,
		TableLabel: "4", CreatedAt: time.Now().UTC(),
		Items: []domain.OrderLine{
			{ItemID: "tacos", Name: "Tacos", Quantity: 2, StationID: &grill},
			{ItemID: "beer", Name: "Cerveza", Quantity: 1, StationID: &bar},
		},
	}
}

func startTerminal(t *testing.T, lister PendingLister, sink AlertSink, mute bool) (*Terminal, *fanout.Memory) {
	t.Helper()
	broker := fanout.NewMemory()
	term := NewTerminal(tenant, grill, lister, broker, sink, mute, logger.New("test"))
	_, err := term.Start(context.Background())
	require.NoError(t, err)
	return term, broker
}

func publish(t *testing.T, b *fanout.Memory, typ string, o domain.Order) {
	t.Helper()
	require.NoError(t, b.Publish(context.Background(), domain.OrderEvent{Type: typ, TenantID: o.TenantID, Order: o}))
}

func TestTerminalReconcilesOnStart(t *testing.T) {
	existing := grillOrder(uuid.New())
	sink := &countingSink{}
	term, _ := startTerminal(t, staticLister{orders: []domain.Order{existing}}, sink, false)

	cards := term.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, existing.ID, cards[0].Order.ID)
	// reconciliation is a catch-up fetch, not a new order: no chime
	assert.Equal(t, 0, sink.count())
}

func TestTerminalShowsOnlyStationItems(t *testing.T) {
	term, broker := startTerminal(t, staticLister{}, &countingSink{}, false)

	publish(t, broker, domain.EventOrderCreated, grillOrder(uuid.New()))

	cards := term.Cards()
	require.Len(t, cards, 1)
	require.Len(t, cards[0].Items, 1)
	assert.Equal(t, "tacos", cards[0].Items[0].ItemID)
}

func TestTerminalIgnoresIrrelevantOrders(t *testing.T) {
	term, broker := startTerminal(t, staticLister{}, &countingSink{}, false)

	barOnly := domain.Order{
		ID: uuid.New(), TenantID: tenant, Status: domain.StatusPending, CreatedAt: time.Now().UTC(),
		Items: []domain.OrderLine{{ItemID: "beer", Name: "Cerveza", Quantity: 1, StationID: &bar}},
	}
	publish(t, broker, domain.EventOrderCreated, barOnly)

	billReq := domain.Order{
		ID: uuid.New(), TenantID: tenant, Status: domain.StatusPending, CreatedAt: time.Now().UTC(),
		Items: []domain.OrderLine{{ItemID: domain.BillRequestItemID, Quantity: 1, StationID: &grill}},
	}
	publish(t, broker, domain.EventOrderCreated, billReq)

	assert.Empty(t, term.Cards())
}

func TestTerminalAlertsOnInsertOnly(t *testing.T) {
	sink := &countingSink{}
	term, broker := startTerminal(t, staticLister{}, sink, false)

	o := grillOrder(uuid.New())
	publish(t, broker, domain.EventOrderCreated, o)
	assert.Equal(t, 1, sink.count())

	// duplicate insert: idempotent apply, no re-alert
	publish(t, broker, domain.EventOrderCreated, o)
	assert.Equal(t, 1, sink.count())

	// updates never chime
	o.Prepared = []domain.PreparedMark{{ItemID: "tacos", StationID: grill}}
	publish(t, broker, domain.EventOrderUpdated, o)
	assert.Equal(t, 1, sink.count())

	require.Len(t, term.Cards(), 1)
	assert.True(t, term.Cards()[0].AllPrepared)
}

func TestTerminalMuteSkipsAlertNotDelivery(t *testing.T) {
	sink := &countingSink{}
	term, broker := startTerminal(t, staticLister{}, sink, true)

	publish(t, broker, domain.EventOrderCreated, grillOrder(uuid.New()))

	assert.Equal(t, 0, sink.count())
	assert.Len(t, term.Cards(), 1)
}

func TestTerminalSwallowsAlertFailure(t *testing.T) {
	sink := &countingSink{err: assert.AnError}
	term, broker := startTerminal(t, staticLister{}, sink, false)

	publish(t, broker, domain.EventOrderCreated, grillOrder(uuid.New()))
	assert.Len(t, term.Cards(), 1)
}

func TestTerminalDropsTerminalOrders(t *testing.T) {
	term, broker := startTerminal(t, staticLister{}, &countingSink{}, false)

	o := grillOrder(uuid.New())
	publish(t, broker, domain.EventOrderCreated, o)
	require.Len(t, term.Cards(), 1)

	o.Status = domain.StatusCompleted
	publish(t, broker, domain.EventOrderUpdated, o)
	assert.Empty(t, term.Cards())
}

func TestTerminalCardsOldestFirstWithBands(t *testing.T) {
	term, broker := startTerminal(t, staticLister{}, &countingSink{}, false)
	now := time.Now().UTC()
	term.now = func() time.Time { return now }

	old := grillOrder(uuid.New())
	old.CreatedAt = now.Add(-12 * time.Minute)
	fresh := grillOrder(uuid.New())
	fresh.CreatedAt = now.Add(-1 * time.Minute)

	publish(t, broker, domain.EventOrderCreated, fresh)
	publish(t, broker, domain.EventOrderCreated, old)

	cards := term.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, old.ID, cards[0].Order.ID)
	assert.Equal(t, "critical", cards[0].Band)
	assert.Equal(t, "nominal", cards[1].Band)
}
