// internal/scoring/scoring.go
package scoring

import (
	"errors"
	"fmt"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

// ErrInvalidScore rejects negative run scores. Invalid input is never
// clamped into range.
var ErrInvalidScore = errors.New("run score must be non-negative")

type Engine struct {
	store store.CompetitionStore
}

func NewEngine(s store.CompetitionStore) *Engine {
	return &Engine{store: s}
}

// FinalScore is the better of the two recorded runs. An unset run counts
// as 0, so a participant with no attempts scores 0. The max-of-two policy
// is fixed for every event.
func FinalScore(run1, run2 *float64) float64 {
	var r1, r2 float64
	if run1 != nil {
		r1 = *run1
	}
	if run2 != nil {
		r2 = *run2
	}
	if r1 > r2 {
		return r1
	}
	return r2
}

// RecordScore validates both runs, derives the final score and writes all
// three fields as one update. Concurrent calls race last-write-wins, but a
// reader never sees a final score inconsistent with the stored runs.
func (e *Engine) RecordScore(participantID int64, run1, run2 *float64) (*models.RoundParticipant, error) {
	if (run1 != nil && *run1 < 0) || (run2 != nil && *run2 < 0) {
		return nil, ErrInvalidScore
	}

	participant, err := e.store.GetParticipant(participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if participant == nil {
		return nil, store.ErrNotFound
	}

	final := FinalScore(run1, run2)
	if err := e.store.UpdateScores(participantID, run1, run2, final); err != nil {
		return nil, err
	}

	participant.Run1Score = run1
	participant.Run2Score = run2
	participant.FinalScore = final
	return participant, nil
}

// SetQualified is a free operator decision; nothing here derives it from
// scores or re-validates them.
func (e *Engine) SetQualified(participantID int64, qualified bool) error {
	return e.store.SetQualified(participantID, qualified)
}
