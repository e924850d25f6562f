package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/refresh"
)

type handlers struct {
	store   *refresh.Store
	catalog *gamedata.Catalog
	hub     *Hub
	refresh func()
}

func (h *handlers) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /data", h.data)
	mux.HandleFunc("GET /snapshot", h.snapshotJSON)
	mux.HandleFunc("GET /dwarves", h.dwarves)
	mux.HandleFunc("GET /dwarves/{id}", h.dwarf)
	mux.HandleFunc("GET /squads", h.squads)
	mux.HandleFunc("GET /status", h.status)
	mux.HandleFunc("POST /refresh", h.requestRefresh)
	mux.HandleFunc("GET /ws", h.hub.ServeWS)
	return mux
}

func (h *handlers) data(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}

func (h *handlers) snapshotJSON(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handlers) dwarves(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	dwarves := snap.Dwarves
	if q := r.URL.Query().Get("q"); q != "" {
		dwarves = snap.FindDwarves(q)
	}
	if dwarves == nil {
		dwarves = []*df.Dwarf{}
	}
	writeJSON(w, http.StatusOK, dwarves)
}

func (h *handlers) dwarf(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid dwarf id"})
		return
	}
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	d, ok := snap.Dwarf(int32(id))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "dwarf not found"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) squads(w http.ResponseWriter, _ *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	squads := snap.Squads
	if squads == nil {
		squads = []*df.Squad{}
	}
	writeJSON(w, http.StatusOK, squads)
}

func (h *handlers) requestRefresh(w http.ResponseWriter, _ *http.Request) {
	if h.refresh == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "refresh not available"})
		return
	}
	h.refresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func (h *handlers) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Status())
}

// snapshot writes a 503 and reports false until the first snapshot exists.
func (h *handlers) snapshot(w http.ResponseWriter) (*df.Snapshot, bool) {
	snap, ok := h.store.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return nil, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
