package ranking

import (
	"fmt"
	"sort"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

// Entry is one leaderboard line. Rank follows standard competition
// ranking: registrants tied on best score share a rank and the ranks
// after a tie skip accordingly.
type Entry struct {
	Rank           int     `json:"rank"`
	RegistrationID int64   `json:"registration_id"`
	FullName       string  `json:"full_name"`
	CarMake        string  `json:"car_make"`
	CarModel       string  `json:"car_model"`
	CarCategory    string  `json:"car_category"`
	BestScore      float64 `json:"best_score"`
	QualifiedCount int     `json:"qualified_count"`
	RoundsEntered  int     `json:"rounds_entered"`
	HasScore       bool    `json:"has_score"`
}

// RacerStats is one registrant's personal view of the same aggregation.
type RacerStats struct {
	RegistrationID int64   `json:"registration_id"`
	FullName       string  `json:"full_name"`
	BestScore      float64 `json:"best_score"`
	QualifiedCount int     `json:"qualified_count"`
	RoundsEntered  int     `json:"rounds_entered"`
	Rank           int     `json:"rank"`
}

// Engine computes rankings on demand straight from the round history.
// Nothing here is persisted; rounds and their participants stay the only
// source of truth.
type Engine struct {
	store store.CompetitionStore
}

func NewEngine(s store.CompetitionStore) *Engine {
	return &Engine{store: s}
}

// Leaderboard returns every registrant with at least one participant row
// in the event, best score descending, never-scored registrants last.
// limit <= 0 means no truncation.
func (e *Engine) Leaderboard(eventID int64, limit int) ([]Entry, error) {
	rows, err := e.store.FetchEventStandings(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard: %w", err)
	}

	entries := rank(rows)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// RacerStats returns the aggregate for one registrant, or nil when the
// registrant has no participant row anywhere in the event.
func (e *Engine) RacerStats(eventID, registrationID int64) (*RacerStats, error) {
	rows, err := e.store.FetchEventStandings(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to build racer stats: %w", err)
	}

	for _, entry := range rank(rows) {
		if entry.RegistrationID == registrationID {
			return &RacerStats{
				RegistrationID: entry.RegistrationID,
				FullName:       entry.FullName,
				BestScore:      entry.BestScore,
				QualifiedCount: entry.QualifiedCount,
				RoundsEntered:  entry.RoundsEntered,
				Rank:           entry.Rank,
			}, nil
		}
	}
	return nil, nil
}

// rank assigns competition ranks: 1 + the number of other registrants
// whose best score is strictly greater. Rows arrive from the store
// already ordered for display.
func rank(rows []store.StandingRow) []Entry {
	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = row.BestScore
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		greater := sort.Search(len(scores), func(j int) bool {
			return scores[j] <= row.BestScore
		})
		entries[i] = Entry{
			Rank:           greater + 1,
			RegistrationID: row.RegistrationID,
			FullName:       row.FullName,
			CarMake:        row.CarMake,
			CarModel:       row.CarModel,
			CarCategory:    row.CarCategory,
			BestScore:      row.BestScore,
			QualifiedCount: row.QualifiedCount,
			RoundsEntered:  row.RoundsEntered,
			HasScore:       row.Attempted == 1,
		}
	}
	return entries
}
