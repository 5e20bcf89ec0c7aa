package mirror

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Router exposes the hub over HTTP:
//
//	GET /ws       websocket stream of frames
//	GET /current  latest frame as JSON (204 before the first frame)
func Router(h *Hub) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.ServeWS).Methods(http.MethodGet)
	r.HandleFunc("/current", h.serveCurrent).Methods(http.MethodGet)
	return r
}

// serveCurrent returns the latest frame
// GET /current
func (h *Hub) serveCurrent(w http.ResponseWriter, r *http.Request) {
	f, ok := h.Last()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f)
}
