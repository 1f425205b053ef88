package handlers

import "net/http"

// displayName resolves the restaurant name shown on ticket headers.
func displayName(r *http.Request) string {
	if n := r.Header.Get("X-Tenant-Name"); n != "" {
		return n
	}
	return "COMANDA"
}

func (h *Handler) PrintOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_id", "invalid order id")
		return
	}
	if err := h.tickets.PrintOrder(r.Context(), id, displayName(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

func (h *Handler) PrintPending(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	n, err := h.tickets.PrintAllPending(r.Context(), tenant, displayName(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"queued": n})
}
