package fanout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comanda/internal/domain"
)

func ev(tenant uuid.UUID, typ string, orderID uuid.UUID) domain.OrderEvent {
	return domain.OrderEvent{Type: typ, TenantID: tenant, Order: domain.Order{ID: orderID, TenantID: tenant}}
}

func TestMemoryTenantIsolation(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	tenantA, tenantB := uuid.New(), uuid.New()

	var gotA, gotB []domain.OrderEvent
	_, err := b.Subscribe(ctx, tenantA, func(_ context.Context, e domain.OrderEvent) error {
		gotA = append(gotA, e)
		return nil
	})
	require.NoError(t, err)
	_, err = b.Subscribe(ctx, tenantB, func(_ context.Context, e domain.OrderEvent) error {
		gotB = append(gotB, e)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, ev(tenantA, domain.EventOrderCreated, uuid.New())))
	require.NoError(t, b.Publish(ctx, ev(tenantB, domain.EventOrderCreated, uuid.New())))
	require.NoError(t, b.Publish(ctx, ev(tenantA, domain.EventOrderUpdated, uuid.New())))

	assert.Len(t, gotA, 2)
	assert.Len(t, gotB, 1)
	for _, e := range gotA {
		assert.Equal(t, tenantA, e.TenantID)
	}
}

func TestMemoryInsertBeforeUpdatePerOrder(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	tenant := uuid.New()
	orderID := uuid.New()

	var got []string
	_, err := b.Subscribe(ctx, tenant, func(_ context.Context, e domain.OrderEvent) error {
		got = append(got, e.Type)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, ev(tenant, domain.EventOrderCreated, orderID)))
	require.NoError(t, b.Publish(ctx, ev(tenant, domain.EventOrderUpdated, orderID)))

	assert.Equal(t, []string{domain.EventOrderCreated, domain.EventOrderUpdated}, got)
}

func TestMemoryClosedSubscriptionStopsDelivery(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	tenant := uuid.New()

	count := 0
	sub, err := b.Subscribe(ctx, tenant, func(_ context.Context, e domain.OrderEvent) error {
		count++
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, ev(tenant, domain.EventOrderCreated, uuid.New())))
	sub.Close()
	require.NoError(t, b.Publish(ctx, ev(tenant, domain.EventOrderCreated, uuid.New())))

	assert.Equal(t, 1, count)
}

func TestMemoryHandlerErrorDoesNotStopSiblings(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()
	tenant := uuid.New()

	reached := false
	_, err := b.Subscribe(ctx, tenant, func(_ context.Context, e domain.OrderEvent) error {
		return assert.AnError
	})
	require.NoError(t, err)
	_, err = b.Subscribe(ctx, tenant, func(_ context.Context, e domain.OrderEvent) error {
		reached = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, ev(tenant, domain.EventOrderCreated, uuid.New())))
	assert.True(t, reached)
}
