package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"timed-quiz/internal/app"
)

// LeaderboardHandler exposes the leaderboard: GET lists it, DELETE clears it.
// Without a store every request gets 503.
type LeaderboardHandler struct {
	store app.LeaderboardStore
}

func NewLeaderboardHandler(store app.LeaderboardStore) *LeaderboardHandler {
	return &LeaderboardHandler{store: store}
}

func (h *LeaderboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorPayload{Message: "leaderboard unavailable"})
		return
	}
	switch r.Method {
	case http.MethodGet:
		entries, err := h.store.Load(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "load leaderboard failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "leaderboard unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, entries)
	case http.MethodDelete:
		if err := h.store.Clear(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "clear leaderboard failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "leaderboard unavailable"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, DELETE")
		writeJSON(w, http.StatusMethodNotAllowed, errorPayload{Message: "method not allowed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
