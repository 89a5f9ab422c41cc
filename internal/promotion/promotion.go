package promotion

import (
	"errors"
	"fmt"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

var (
	ErrRoundNotFound = errors.New("source round not found")

	// ErrNoNextRound and ErrNoQualifiedParticipants are nothing-to-do
	// outcomes: promotion never creates rounds and never errors the
	// surrounding workflow over an empty qualified set.
	ErrNoNextRound             = errors.New("no round with the next order in this event")
	ErrNoQualifiedParticipants = errors.New("source round has no qualified participants")
)

// Result reports one promotion run. Promoted counts only newly created
// rows; registrants already present in the destination round are skipped,
// so Promoted is 0 on a straight re-run.
type Result struct {
	Promoted    int           `json:"promoted"`
	Qualified   int           `json:"qualified"`
	SourceRound *models.Round `json:"source_round,omitempty"`
	DestRound   *models.Round `json:"destination_round,omitempty"`
}

type Promoter struct {
	store store.CompetitionStore
}

func NewPromoter(s store.CompetitionStore) *Promoter {
	return &Promoter{store: s}
}

// Promote copies the qualified participants of the source round into the
// round at round_order+1 of the same event. The copy runs inside a store
// transaction and is idempotent; operators re-clicking the action after a
// partial failure get the same net state. Round status is not checked:
// promoting a non-completed round is an operator workflow call, and the
// caller can inspect Result.SourceRound to warn about it.
func (p *Promoter) Promote(eventID, sourceRoundID int64) (*Result, error) {
	source, err := p.store.GetRound(sourceRoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source round: %w", err)
	}
	if source == nil || source.EventID != eventID {
		return nil, ErrRoundNotFound
	}

	dest, err := p.store.GetRoundByOrder(eventID, source.Order+1)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve next round: %w", err)
	}
	if dest == nil {
		return &Result{SourceRound: source}, ErrNoNextRound
	}

	created, qualified, err := p.store.PromoteParticipants(source.ID, dest.ID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Promoted:    created,
		Qualified:   qualified,
		SourceRound: source,
		DestRound:   dest,
	}
	if qualified == 0 {
		return result, ErrNoQualifiedParticipants
	}
	return result, nil
}
