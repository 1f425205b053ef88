package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"comanda/internal/domain"
	"comanda/internal/logger"
	"comanda/internal/printing"
	"comanda/internal/repository"
)

// TicketService turns orders into print jobs. A bill request triggers a
// consolidated table bill; everything else prints its own lines. Printing
// is best-effort per job: queue failures never surface to the order flow.
type TicketService struct {
	repo   repository.Orders
	orders *OrderService
	queue  *printing.Queue
	config printing.TicketConfig
	lg     *logger.Logger
}

func NewTicketService(repo repository.Orders, orders *OrderService, queue *printing.Queue, cfg printing.TicketConfig, lg *logger.Logger) *TicketService {
	return &TicketService{repo: repo, orders: orders, queue: queue, config: cfg, lg: lg}
}

// PrintOrder enqueues one ticket for the order.
func (s *TicketService) PrintOrder(ctx context.Context, id uuid.UUID, displayName string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case domain.IsBillRequest(o):
		bill, err := s.orders.ConsolidateBill(ctx, o.TenantID, o.TableLabel)
		if err != nil {
			return fmt.Errorf("consolidate bill: %w", err)
		}
		billOrder := o
		billOrder.Total = bill.Total
		s.queue.Enqueue(printing.Job{Items: bill.Items, Order: billOrder, Config: s.config, DisplayName: displayName})

	case domain.IsHelpRequest(o):
		cfg := s.config
		cfg.ShowPrices = false
		items := []domain.OrderLine{{ItemID: domain.HelpRequestItemID, Name: "Asistencia", Quantity: 1, Notes: domain.HelpMessage(o)}}
		s.queue.Enqueue(printing.Job{Items: items, Order: o, Config: cfg, DisplayName: displayName})

	default:
		s.queue.Enqueue(printing.Job{Items: o.Items, Order: o, Config: s.config, DisplayName: displayName})
	}

	s.lg.Debug("print_enqueued", map[string]any{"order_id": id.String()})
	return nil
}

// PrintAllPending enqueues one ticket per pending order, in list order.
// N sequential enqueues; no atomicity across the batch.
func (s *TicketService) PrintAllPending(ctx context.Context, tenant uuid.UUID, displayName string) (int, error) {
	pending, err := s.repo.ListPending(ctx, tenant)
	if err != nil {
		return 0, err
	}
	for _, o := range pending {
		s.queue.Enqueue(printing.Job{Items: o.Items, Order: o, Config: s.config, DisplayName: displayName})
	}
	return len(pending), nil
}
