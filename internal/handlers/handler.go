package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"comanda/internal/logger"
	"comanda/internal/repository"
	"comanda/internal/service"
)

// TicketPrinter is the print surface the handler needs. Satisfied by
// *service.TicketService; narrow interface for testability.
type TicketPrinter interface {
	PrintOrder(ctx context.Context, id uuid.UUID, displayName string) error
	PrintAllPending(ctx context.Context, tenant uuid.UUID, displayName string) (int, error)
}

// Handler wires the staff and diner HTTP surface. The tenant comes from the
// X-Tenant-ID header; everything underneath is scoped to it.
type Handler struct {
	orders   service.OrderServiceInterface
	stations service.StationServiceInterface
	tickets  TicketPrinter
	lg       *logger.Logger
}

func New(orders service.OrderServiceInterface, stations service.StationServiceInterface, tickets TicketPrinter, lg *logger.Logger) *Handler {
	return &Handler{orders: orders, stations: stations, tickets: tickets, lg: lg}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/pending", h.ListPending)
		r.Get("/completed", h.ListCompleted)
		r.Post("/{id}/complete", h.CompleteOrder)
		r.Post("/{id}/cancel", h.CancelOrder)
		r.Post("/{id}/prepared", h.TogglePrepared)
	})
	r.Get("/tables/{label}/bill", h.BillPreview)
	r.Route("/stations", func(r chi.Router) {
		r.Get("/", h.ListStations)
		r.Post("/", h.CreateStation)
		r.Delete("/{id}", h.DeleteStation)
	})
	r.Post("/print/orders/{id}", h.PrintOrder)
	r.Post("/print/pending", h.PrintPending)

	return r
}

func tenantID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get("X-Tenant-ID"))
	return id, err == nil
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem emits a simplified problem+json error body.
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "order not found")
	default:
		writeProblem(w, http.StatusInternalServerError, "db_error", err.Error())
	}
}
