package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/app"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/metrics"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type ParticipantHandler struct {
	service *app.Service
}

func NewParticipantHandler(service *app.Service) *ParticipantHandler {
	return &ParticipantHandler{
		service: service,
	}
}

// resolve loads the participant and its round so the handler can
// authorize against the owning event.
func (h *ParticipantHandler) resolve(w http.ResponseWriter, r *http.Request, capability string) (*models.RoundParticipant, *models.Round, bool) {
	participantID, ok := pathID(r, "participant")
	if !ok {
		http.Error(w, "Invalid participant id", http.StatusBadRequest)
		return nil, nil, false
	}

	participant, err := h.service.Store.GetParticipant(participantID)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	if participant == nil {
		writeError(w, store.ErrNotFound)
		return nil, nil, false
	}

	round, err := h.service.Store.GetRound(participant.RoundID)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	if round == nil {
		writeError(w, store.ErrNotFound)
		return nil, nil, false
	}

	if err := h.service.Authorize(r, round.EventID, capability); err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return participant, round, true
}

func (h *ParticipantHandler) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
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
		RegistrationID int64 `json:"registration_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RegistrationID <= 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	participant, err := h.service.AddParticipant(roundID, payload.RegistrationID)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info.Printf(
		"Added registration %d to round %d (%q)",
		payload.RegistrationID,
		roundID,
		round.Name,
	)
	writeJSON(w, http.StatusCreated, participant)
}

func (h *ParticipantHandler) HandleRemoveParticipant(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	participant, _, ok := h.resolve(w, r, app.CapManageRounds)
	if !ok {
		return
	}

	if err := h.service.RemoveParticipant(participant.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRecordScore replaces both runs and the derived final score in a
// single write. Concurrent judges race last-write-wins.
func (h *ParticipantHandler) HandleRecordScore(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	participant, round, ok := h.resolve(w, r, app.CapManageRounds)
	if !ok {
		return
	}

	var payload struct {
		Run1Score *float64 `json:"run_1_score"`
		Run2Score *float64 `json:"run_2_score"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Scoring.RecordScore(participant.ID, payload.Run1Score, payload.Run2Score)
	if err != nil {
		writeError(w, err)
		return
	}

	event := strconv.FormatInt(round.EventID, 10)
	metrics.ScoresRecordedTotal.WithLabelValues(event, strconv.FormatInt(round.ID, 10)).Inc()
	metrics.FinalScoreHistogram.WithLabelValues(event).Observe(updated.FinalScore)

	writeJSON(w, http.StatusOK, updated)
}

func (h *ParticipantHandler) HandleSetQualified(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	participant, round, ok := h.resolve(w, r, app.CapManageRounds)
	if !ok {
		return
	}

	var payload struct {
		Qualified bool `json:"is_qualified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Scoring.SetQualified(participant.ID, payload.Qualified); err != nil {
		writeError(w, err)
		return
	}

	logger.Debug.Printf(
		"Round %d: registration %d qualified=%t",
		round.ID,
		participant.RegistrationID,
		payload.Qualified,
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":           participant.ID,
		"is_qualified": payload.Qualified,
	})
}

func (h *ParticipantHandler) HandleSetNotes(w http.ResponseWriter, r *http.Request) {
	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	participant, _, ok := h.resolve(w, r, app.CapManageRounds)
	if !ok {
		return
	}

	var payload struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Store.SetNotes(participant.ID, payload.Notes); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    participant.ID,
		"notes": payload.Notes,
	})
}
