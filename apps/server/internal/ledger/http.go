package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type HTTPHandler struct {
	ledger Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(ledgerService Service) *HTTPHandler {
	return &HTTPHandler{ledger: ledgerService}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/history", h.handleRecent)
}

// handleRecent serves GET /history?room=CODE&limit=N, newest first.
func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	q := r.URL.Query()
	limit := parseLimit(q.Get("limit"))
	room := strings.TrimSpace(q.Get("room"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListRecent(ctx, room, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query round history failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
