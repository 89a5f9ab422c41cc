package handlers

import (
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/app"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type LeaderboardHandler struct {
	service *app.Service
}

func NewLeaderboardHandler(service *app.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
	}
}

// HandleLeaderboard serves the ranked aggregate over every round of the
// event. Clients poll it; poll_seconds in the response hints how often.
func (h *LeaderboardHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	eventID, ok := pathID(r, "event")
	if !ok {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.service.Authorize(r, eventID, app.CapView); err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.service.Leaderboard(eventID, limit)
	if err != nil {
		logger.Error.Printf("Failed to build leaderboard for event %d: %v", eventID, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard":  entries,
		"poll_seconds": h.service.Config.Leaderboard.PollSeconds,
	})
}

func (h *LeaderboardHandler) HandleRacerStats(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	eventID, ok := pathID(r, "event")
	if !ok {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}
	registrationID, ok := pathID(r, "registration")
	if !ok {
		http.Error(w, "Invalid registration id", http.StatusBadRequest)
		return
	}

	if err := h.service.Authorize(r, eventID, app.CapView); err != nil {
		writeError(w, err)
		return
	}

	stats, err := h.service.Ranking.RacerStats(eventID, registrationID)
	if err != nil {
		writeError(w, err)
		return
	}
	if stats == nil {
		writeError(w, store.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
