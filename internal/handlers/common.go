package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/app"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/metrics"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/promotion"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/scoring"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Instrument records the request duration histogram for one route.
func Instrument(path string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r)
		metrics.APIRequestDuration.WithLabelValues(
			path,
			r.Method,
			strconv.Itoa(sw.status),
		).Observe(time.Since(start).Seconds())
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps the domain failure taxonomy onto HTTP statuses. Anything
// unrecognized is a storage-level failure and stays a 500.
func writeError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, promotion.ErrRoundNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, store.ErrDuplicateOrder):
		http.Error(w, "Round order already taken for this event", http.StatusConflict)
	case errors.Is(err, store.ErrAlreadyInRound):
		http.Error(w, "Registrant already entered in this round", http.StatusConflict)
	case errors.Is(err, app.ErrNotEligible):
		http.Error(w, "Registration is not approved for this event", http.StatusUnprocessableEntity)
	case errors.Is(err, scoring.ErrInvalidScore):
		http.Error(w, "Run scores must be non-negative", http.StatusBadRequest)
	case errors.Is(err, app.ErrInvalidStatus):
		http.Error(w, "Unknown round status", http.StatusBadRequest)
	case errors.As(err, &validationErrs):
		http.Error(w, "Invalid payload: "+validationErrs.Error(), http.StatusBadRequest)
	case errors.Is(err, app.ErrNotAuthenticated):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, app.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		logger.Error.Printf("ERROR: %v", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
