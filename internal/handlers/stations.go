package handlers

import (
	"encoding/json"
	"net/http"

	"comanda/internal/domain"
)

func (h *Handler) ListStations(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	stations, err := h.stations.ListStations(r.Context(), tenant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stations": stations})
}

func (h *Handler) CreateStation(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	var req domain.CreateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	st, err := h.stations.CreateStation(r.Context(), tenant, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *Handler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_tenant", "missing or invalid X-Tenant-ID")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "bad_id", "invalid station id")
		return
	}
	if err := h.stations.DeleteStation(r.Context(), tenant, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
