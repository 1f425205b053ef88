package fanout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"comanda/internal/domain"
)

// Handler receives one order event. Errors are logged by the broker and
// never stop delivery to other subscribers.
type Handler func(ctx context.Context, ev domain.OrderEvent) error

type Subscription interface{ Close() }

// Broker pushes order-insert and order-update events to every live
// subscriber of a tenant. Delivery is at-least-once: consumers must treat
// duplicates as idempotent. Within one subscriber the insert of an order is
// delivered before any update to that same order.
type Broker interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
	Subscribe(ctx context.Context, tenant uuid.UUID, h Handler) (Subscription, error)
}

// Memory is an in-process Broker for tests and single-process deployments.
// Delivery is synchronous in publish order, which trivially satisfies the
// per-order causal ordering guarantee.
type Memory struct {
	mu   sync.Mutex
	subs map[uuid.UUID][]*memorySub
}

func NewMemory() *Memory {
	return &Memory{subs: map[uuid.UUID][]*memorySub{}}
}

type memorySub struct {
	broker *Memory
	tenant uuid.UUID
	h      Handler
	closed bool
}

func (s *memorySub) Close() {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	s.closed = true
}

func (b *Memory) Subscribe(_ context.Context, tenant uuid.UUID, h Handler) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &memorySub{broker: b, tenant: tenant, h: h}
	b.subs[tenant] = append(b.subs[tenant], sub)
	return sub, nil
}

func (b *Memory) Publish(ctx context.Context, ev domain.OrderEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	// Tenant scoping is hard isolation: only this tenant's subscribers see it.
	for _, sub := range b.subs[ev.TenantID] {
		if sub.closed {
			continue
		}
		_ = sub.h(ctx, ev)
	}
	return nil
}
