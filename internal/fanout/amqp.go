package fanout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"comanda/internal/connections/rabbitmq"
	"comanda/internal/domain"
	"comanda/internal/logger"
)

// Exchange carries all order events; routing keys are tenant-scoped:
// orders.<tenant_id>.created | orders.<tenant_id>.updated.
const Exchange = "orders.events"

type AMQP struct {
	client *rabbitmq.Client
	lg     *logger.Logger
}

func NewAMQP(client *rabbitmq.Client, lg *logger.Logger) (*AMQP, error) {
	if err := client.Channel().ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", Exchange, err)
	}
	return &AMQP{client: client, lg: lg}, nil
}

func routingKey(tenant uuid.UUID, eventType string) string {
	suffix := "updated"
	if eventType == domain.EventOrderCreated {
		suffix = "created"
	}
	return fmt.Sprintf("orders.%s.%s", tenant, suffix)
}

func (b *AMQP) Publish(ctx context.Context, ev domain.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return b.client.Publish(ctx, Exchange, routingKey(ev.TenantID, ev.Type), body)
}

type amqpSub struct {
	ch  *amqp.Channel
	tag string
}

func (s *amqpSub) Close() { _ = s.ch.Cancel(s.tag, false) }

// Subscribe binds an exclusive auto-delete queue to the tenant's routing
// keys and dispatches deliveries until the context ends. The channel alone
// gives no backfill across a disconnect window; consumers reconcile by
// fetching current pending orders on mount.
func (b *AMQP) Subscribe(ctx context.Context, tenant uuid.UUID, h Handler) (Subscription, error) {
	ch := b.client.Channel()
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	key := fmt.Sprintf("orders.%s.*", tenant)
	if err := ch.QueueBind(q.Name, key, Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", key, err)
	}
	msgs, err := b.client.Consume(q.Name, q.Name, 32)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.OrderEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil {
					b.lg.Error("event_unmarshal_failed", err, map[string]any{"queue": q.Name})
					_ = d.Ack(false)
					continue
				}
				if err := h(ctx, ev); err != nil {
					// consumer failures are isolated; no redelivery loop
					b.lg.Error("event_handler_failed", err, map[string]any{"order_id": ev.Order.ID.String()})
				}
				_ = d.Ack(false)
			}
		}
	}()

	return &amqpSub{ch: ch, tag: q.Name}, nil
}
