package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/services"
)

// QueryHandler runs queries through the retrieval session.
type QueryHandler struct {
	session *services.Session
}

func NewQueryHandler(session *services.Session) *QueryHandler {
	return &QueryHandler{session: session}
}

type queryRequest struct {
	Query string `json:"query"`
}

// Query handles POST /api/query. The full QueryRecord is returned, including
// a recorded error when the query failed downstream.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	record := h.session.ExecuteQuery(r.Context(), req.Query)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// History handles GET /api/history.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.session.History())
}

type saveHistoryRequest struct {
	Path string `json:"path"`
}

// SaveHistory handles POST /api/history/save: flushes the whole history to a
// file on the server.
func (h *QueryHandler) SaveHistory(w http.ResponseWriter, r *http.Request) {
	var req saveHistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}
	if err := h.session.SaveHistory(req.Path); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "saved", "path": req.Path})
}
