package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/app"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/metrics"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/promotion"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type RoundHandler struct {
	service *app.Service
}

func NewRoundHandler(service *app.Service) *RoundHandler {
	return &RoundHandler{
		service: service,
	}
}

func (h *RoundHandler) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	eventID, ok := pathID(r, "event")
	if !ok {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	if err := h.service.Authorize(r, eventID, app.CapManageRounds); err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		Name  string `json:"name"`
		Order int64  `json:"round_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	round, err := h.service.CreateRound(eventID, payload.Name, payload.Order)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info.Printf("Created round %q (order %d) for event %d", round.Name, round.Order, eventID)
	writeJSON(w, http.StatusCreated, round)
}

func (h *RoundHandler) HandleListRounds(w http.ResponseWriter, r *http.Request) {
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

	rounds, err := h.service.ListRounds(eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rounds": rounds,
	})
}

func (h *RoundHandler) HandleRoundDetail(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	roundID, ok := pathID(r, "round")
	if !ok {
		http.Error(w, "Invalid round id", http.StatusBadRequest)
		return
	}

	round, participants, err := h.service.GetRoundDetail(roundID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Authorize(r, round.EventID, app.CapView); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"round":        round,
		"participants": participants,
	})
}

func (h *RoundHandler) HandleDeleteRound(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	roundID, ok := pathID(r, "round")
	if !ok {
		http.Error(w, "Invalid round id", http.StatusBadRequest)
		return
	}

	round, err := h.service.Store.GetRound(roundID)
	if err != nil {
		writeError(w, err)
		return
	}
	if round == nil {
		writeError(w, store.ErrNotFound)
		return
	}

	if err := h.service.Authorize(r, round.EventID, app.CapManageRounds); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteRound(roundID); err != nil {
		writeError(w, err)
		return
	}

	logger.Info.Printf("Deleted round %d (%q) of event %d", roundID, round.Name, round.EventID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *RoundHandler) HandleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	roundID, ok := pathID(r, "round")
	if !ok {
		http.Error(w, "Invalid round id", http.StatusBadRequest)
		return
	}

	round, err := h.service.Store.GetRound(roundID)
	if err != nil {
		writeError(w, err)
		return
	}
	if round == nil {
		writeError(w, store.ErrNotFound)
		return
	}

	if err := h.service.Authorize(r, round.EventID, app.CapManageRounds); err != nil {
		writeError(w, err)
		return
	}

	var payload struct {
		Status models.RoundStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.TransitionRound(roundID, payload.Status); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":     roundID,
		"status": payload.Status,
	})
}

// HandlePromote runs the promotion for a source round. Nothing-to-do
// outcomes (no next round, no qualified participants) come back as a
// zero-count 200, not an error; the operator workflow carries on.
func (h *RoundHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	eventID, ok := pathID(r, "event")
	if !ok {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}
	roundID, ok := pathID(r, "round")
	if !ok {
		http.Error(w, "Invalid round id", http.StatusBadRequest)
		return
	}

	if err := h.service.Authorize(r, eventID, app.CapManageRounds); err != nil {
		writeError(w, err)
		return
	}

	event := strconv.FormatInt(eventID, 10)
	result, err := h.service.Promoter.Promote(eventID, roundID)

	outcome := "promoted"
	switch {
	case errors.Is(err, promotion.ErrNoNextRound):
		outcome = "no_next_round"
	case errors.Is(err, promotion.ErrNoQualifiedParticipants):
		outcome = "no_qualified"
	case err != nil:
		metrics.PromotionsTotal.WithLabelValues(event, "error").Inc()
		writeError(w, err)
		return
	}
	metrics.PromotionsTotal.WithLabelValues(event, outcome).Inc()

	logger.Info.Printf(
		"Promotion for event %d round %d: outcome=%s promoted=%d qualified=%d",
		eventID,
		roundID,
		outcome,
		result.Promoted,
		result.Qualified,
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"outcome": outcome,
		"result":  result,
	})
}
