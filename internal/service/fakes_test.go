package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"comanda/internal/domain"
	"comanda/internal/repository"
)

// fakeOrders is an in-memory repository.Orders mirroring the Postgres
// implementation's transition and toggle semantics.
type fakeOrders struct {
	mu      sync.Mutex
	orders  map[uuid.UUID]domain.Order
	updated map[uuid.UUID]time.Time
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[uuid.UUID]domain.Order{}, updated: map[uuid.UUID]time.Time{}}
}

func (f *fakeOrders) Create(_ context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.Status = domain.StatusPending
	f.orders[o.ID] = *o
	f.updated[o.ID] = o.CreatedAt
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id uuid.UUID) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListPending(_ context.Context, tenant uuid.UUID) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.TenantID == tenant && o.Status == domain.StatusPending {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrders) ListCompleted(_ context.Context, tenant uuid.UUID, since time.Time) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for id, o := range f.orders {
		if o.TenantID == tenant && o.Status == domain.StatusCompleted && !f.updated[id].Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrders) SetStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) (domain.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return domain.Order{}, false, repository.ErrNotFound
	}
	if o.Status != domain.StatusPending {
		return o, false, nil
	}
	o.Status = status
	f.orders[id] = o
	f.updated[id] = time.Now().UTC()
	return o, true, nil
}

func (f *fakeOrders) TogglePrepared(_ context.Context, orderID uuid.UUID, itemID string, stationID uuid.UUID) (bool, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return false, false, repository.ErrNotFound
	}
	if o.Status.Terminal() {
		return false, false, nil
	}
	for i, m := range o.Prepared {
		if m.ItemID == itemID && m.StationID == stationID {
			o.Prepared = append(o.Prepared[:i], o.Prepared[i+1:]...)
			f.orders[orderID] = o
			return false, true, nil
		}
	}
	o.Prepared = append(o.Prepared, domain.PreparedMark{ItemID: itemID, StationID: stationID, CompletedAt: time.Now().UTC()})
	f.orders[orderID] = o
	return true, true, nil
}

func (f *fakeOrders) TakeoutLabels(_ context.Context, tenant uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, o := range f.orders {
		if o.TenantID == tenant && strings.HasPrefix(o.TableLabel, "LLEVAR-") {
			out = append(out, o.TableLabel)
		}
	}
	return out, nil
}
