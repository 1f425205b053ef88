package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"comanda/internal/domain"
	"comanda/internal/fanout"
	"comanda/internal/logger"
	"comanda/internal/repository"
)

// ErrValidation marks fail-fast input errors: no retry, surfaced to the UI
// with a human-readable message.
var ErrValidation = errors.New("validation")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, tenant uuid.UUID, req domain.CreateOrderRequest) (domain.Order, error)
	CompleteOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	ToggleItemPrepared(ctx context.Context, orderID uuid.UUID, itemID string, stationID uuid.UUID) (domain.Order, error)
	ListPending(ctx context.Context, tenant uuid.UUID) ([]domain.Order, error)
	ListCompletedToday(ctx context.Context, tenant uuid.UUID) ([]domain.Order, decimal.Decimal, error)
	ConsolidateBill(ctx context.Context, tenant uuid.UUID, tableLabel string) (Bill, error)
}

// Bill is the on-demand consolidation of a table's running tab. Never
// persisted; always reflects pending state at consolidation time.
type Bill struct {
	TableLabel string             `json:"table_label"`
	Items      []domain.OrderLine `json:"items"`
	Total      decimal.Decimal    `json:"total"`
	OrderIDs   []uuid.UUID        `json:"order_ids"`
}

type OrderService struct {
	repo   repository.Orders
	broker fanout.Broker
	lg     *logger.Logger
	now    func() time.Time
}

func NewOrderService(repo repository.Orders, broker fanout.Broker, lg *logger.Logger) *OrderService {
	return &OrderService{repo: repo, broker: broker, lg: lg, now: func() time.Time { return time.Now().UTC() }}
}

// CreateOrder is the only path that creates orders. The order starts
// pending; takeout submissions get the next cyclic pickup number; system
// requests are normalized to total zero.
func (s *OrderService) CreateOrder(ctx context.Context, tenant uuid.UUID, req domain.CreateOrderRequest) (domain.Order, error) {
	if len(req.Items) == 0 {
		return domain.Order{}, validationf("at least one item is required")
	}

	items := make([]domain.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return domain.Order{}, validationf("invalid quantity for item %q", it.Name)
		}
		line := domain.OrderLine{
			ItemID:    it.ItemID,
			Name:      it.Name,
			Price:     domain.ParseMoney(it.Price),
			Quantity:  it.Quantity,
			Notes:     it.Notes,
			StationID: it.StationID,
		}
		for _, opt := range it.Options {
			line.Options = append(line.Options, domain.SelectedOption{
				Group:    opt.Group,
				Option:   opt.Option,
				Modifier: domain.ParseMoney(opt.Modifier),
			})
		}
		items = append(items, line)
	}

	total := domain.ParseMoney(req.Total)
	if total.IsNegative() {
		return domain.Order{}, validationf("total must not be negative")
	}

	label := req.TableLabel
	if label == "" {
		label = domain.UnknownTable
	}
	if label == domain.TakeoutSentinel {
		labels, err := s.repo.TakeoutLabels(ctx, tenant)
		if err != nil {
			return domain.Order{}, fmt.Errorf("takeout sequencing: %w", err)
		}
		label = domain.TakeoutLabel(domain.NextTakeoutSeq(labels))
	}

	o := domain.Order{
		TenantID:   tenant,
		TableLabel: label,
		Items:      items,
		Total:      total,
		CreatedAt:  s.now(),
	}
	if domain.IsSystemRequest(o) {
		o.Total = decimal.Zero
	}

	if err := s.repo.Create(ctx, &o); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	if err := s.publish(ctx, domain.EventOrderCreated, o); err != nil {
		return domain.Order{}, err
	}

	s.lg.Info("order_created", map[string]any{
		"order_id": o.ID.String(), "tenant_id": tenant.String(),
		"table": o.TableLabel, "total": o.Total.String(), "system": domain.IsSystemRequest(o),
	})
	return o, nil
}

func (s *OrderService) CompleteOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.transition(ctx, id, domain.StatusCompleted)
}

func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.transition(ctx, id, domain.StatusCancelled)
}

// transition moves a pending order to a terminal status. Calling it on an
// already-terminal order is an idempotent no-op: a duplicate realtime event
// must not corrupt state.
func (s *OrderService) transition(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	o, changed, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("set status: %w", err)
	}
	if !changed {
		return o, nil
	}
	if err := s.publish(ctx, domain.EventOrderUpdated, o); err != nil {
		return domain.Order{}, err
	}
	s.lg.Info("order_status_changed", map[string]any{"order_id": id.String(), "status": string(status)})
	return o, nil
}

// ToggleItemPrepared flips the (item, station) prepared mark: add if
// absent, remove if present. It never changes order status, and is frozen
// once the order leaves pending.
func (s *OrderService) ToggleItemPrepared(ctx context.Context, orderID uuid.UUID, itemID string, stationID uuid.UUID) (domain.Order, error) {
	added, changed, err := s.repo.TogglePrepared(ctx, orderID, itemID, stationID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("toggle prepared: %w", err)
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if !changed {
		return o, nil
	}
	if err := s.publish(ctx, domain.EventOrderUpdated, o); err != nil {
		return domain.Order{}, err
	}
	s.lg.Debug("item_prepared_toggled", map[string]any{
		"order_id": orderID.String(), "item_id": itemID, "station_id": stationID.String(), "prepared": added,
	})
	return o, nil
}

func (s *OrderService) ListPending(ctx context.Context, tenant uuid.UUID) ([]domain.Order, error) {
	return s.repo.ListPending(ctx, tenant)
}

// ListCompletedToday returns today's completed orders with the day total.
func (s *OrderService) ListCompletedToday(ctx context.Context, tenant uuid.UUID) ([]domain.Order, decimal.Decimal, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	orders, err := s.repo.ListCompleted(ctx, tenant, midnight)
	if err != nil {
		return nil, decimal.Zero, err
	}
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	return orders, total, nil
}

// ConsolidateBill gathers all other pending non-system orders for the table
// and combines their item lists and totals. The bill request itself carries
// no items; it is only the trigger.
func (s *OrderService) ConsolidateBill(ctx context.Context, tenant uuid.UUID, tableLabel string) (Bill, error) {
	pending, err := s.repo.ListPending(ctx, tenant)
	if err != nil {
		return Bill{}, fmt.Errorf("list pending: %w", err)
	}

	bill := Bill{TableLabel: tableLabel, Total: decimal.Zero}
	for _, o := range pending {
		if o.TableLabel != tableLabel || domain.IsSystemRequest(o) {
			continue
		}
		bill.Total = bill.Total.Add(o.Total)
		bill.OrderIDs = append(bill.OrderIDs, o.ID)
		for _, l := range o.Items {
			if domain.IsSystemLine(l) {
				continue
			}
			bill.Items = append(bill.Items, l)
		}
	}
	return bill, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, o domain.Order) error {
	ev := domain.OrderEvent{Type: eventType, TenantID: o.TenantID, Order: o, OccurredAt: s.now()}
	if err := s.broker.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
