package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"comanda/internal/domain"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	o, err := h.orders.CreateOrder(r.Context(), tenant, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.CreateOrderResponse{
		OrderID:    o.ID,
		TableLabel: o.TableLabel,
		Status:     string(o.Status),
		Total:      o.Total.String(),
	})
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	orders, err := h.orders.ListPending(r.Context(), tenant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	orders, total, err := h.orders.ListCompletedToday(r.Context(), tenant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "day_total": total.String()})
}

func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.CompleteOrder)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.orders.CancelOrder)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (domain.Order, error)) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_id", "invalid order id")
		return
	}
	o, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) TogglePrepared(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_id", "invalid order id")
		return
	}
	var req domain.TogglePreparedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	o, err := h.orders.ToggleItemPrepared(r.Context(), id, req.ItemID, req.StationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) BillPreview(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	bill, err := h.orders.ConsolidateBill(r.Context(), tenant, chi.URLParam(r, "label"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}
