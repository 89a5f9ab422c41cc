package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
)

type CompetitionStore interface {
	Close() error
	ApplyMigrations(dir string) error

	CreateRound(round *models.Round) error
	GetRound(roundID int64) (*models.Round, error)
	GetRoundByOrder(eventID, order int64) (*models.Round, error)
	ListRounds(eventID int64) ([]models.Round, error)
	DeleteRound(roundID int64) error
	SetRoundStatus(roundID int64, status models.RoundStatus) error

	GetRegistration(registrationID int64) (*models.Registration, error)

	AddParticipant(p *models.RoundParticipant) error
	GetParticipant(participantID int64) (*models.RoundParticipant, error)
	ListParticipants(roundID int64) ([]models.RoundParticipant, error)
	RemoveParticipant(participantID int64) error
	UpdateScores(participantID int64, run1, run2 *float64, finalScore float64) error
	SetQualified(participantID int64, qualified bool) error
	SetNotes(participantID int64, notes string) error

	PromoteParticipants(sourceRoundID, destRoundID int64) (created, qualified int, err error)
	FetchEventStandings(eventID int64) ([]StandingRow, error)
}

// BaseStore provides the dialect-independent SQL shared by the Postgres
// and SQLite implementations.
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) GetRound(roundID int64) (*models.Round, error) {
	var round models.Round
	query := s.Converter(`
		SELECT id, event_id, name, round_order, status
		FROM rounds
		WHERE id = ?
	`)

	err := s.DB.Get(&round, query, roundID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return &round, nil
}

func (s *BaseStore) GetRoundByOrder(eventID, order int64) (*models.Round, error) {
	var round models.Round
	query := s.Converter(`
		SELECT id, event_id, name, round_order, status
		FROM rounds
		WHERE event_id = ?
		AND round_order = ?
	`)

	err := s.DB.Get(&round, query, eventID, order)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round by order: %w", err)
	}
	return &round, nil
}

func (s *BaseStore) ListRounds(eventID int64) ([]models.Round, error) {
	var rounds []models.Round
	query := s.Converter(`
		SELECT id, event_id, name, round_order, status
		FROM rounds
		WHERE event_id = ?
		ORDER BY round_order ASC
	`)

	err := s.DB.Select(&rounds, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// DeleteRound removes a round; participant rows go with it via the
// cascading foreign key.
func (s *BaseStore) DeleteRound(roundID int64) error {
	query := s.Converter(`DELETE FROM rounds WHERE id = ?`)

	res, err := s.DB.Exec(query, roundID)
	if err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) SetRoundStatus(roundID int64, status models.RoundStatus) error {
	query := s.Converter(`UPDATE rounds SET status = ? WHERE id = ?`)

	res, err := s.DB.Exec(query, string(status), roundID)
	if err != nil {
		return fmt.Errorf("failed to set round status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) GetRegistration(registrationID int64) (*models.Registration, error) {
	var reg models.Registration
	query := s.Converter(`
		SELECT id, event_id, full_name, car_make, car_model, car_category, status
		FROM registrations
		WHERE id = ?
	`)

	err := s.DB.Get(&reg, query, registrationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return &reg, nil
}

func (s *BaseStore) GetParticipant(participantID int64) (*models.RoundParticipant, error) {
	var p models.RoundParticipant
	query := s.Converter(`
		SELECT
			rp.id,
			rp.round_id,
			rp.registration_id,
			rp.run_1_score,
			rp.run_2_score,
			rp.final_score,
			rp.is_qualified,
			rp.notes,
			reg.full_name,
			reg.car_make,
			reg.car_model,
			reg.car_category
		FROM round_participants rp
		JOIN registrations reg ON reg.id = rp.registration_id
		WHERE rp.id = ?
	`)

	err := s.DB.Get(&p, query, participantID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return &p, nil
}

func (s *BaseStore) ListParticipants(roundID int64) ([]models.RoundParticipant, error) {
	var participants []models.RoundParticipant
	query := s.Converter(`
		SELECT
			rp.id,
			rp.round_id,
			rp.registration_id,
			rp.run_1_score,
			rp.run_2_score,
			rp.final_score,
			rp.is_qualified,
			rp.notes,
			reg.full_name,
			reg.car_make,
			reg.car_model,
			reg.car_category
		FROM round_participants rp
		JOIN registrations reg ON reg.id = rp.registration_id
		WHERE rp.round_id = ?
		ORDER BY
			CASE WHEN rp.run_1_score IS NULL AND rp.run_2_score IS NULL THEN 1 ELSE 0 END ASC,
			rp.final_score DESC,
			rp.id ASC
	`)

	err := s.DB.Select(&participants, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *BaseStore) RemoveParticipant(participantID int64) error {
	query := s.Converter(`DELETE FROM round_participants WHERE id = ?`)

	res, err := s.DB.Exec(query, participantID)
	if err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateScores replaces both runs and the derived final score in a single
// write, so a reader never sees a final score stale relative to the runs.
func (s *BaseStore) UpdateScores(participantID int64, run1, run2 *float64, finalScore float64) error {
	query := s.Converter(`
		UPDATE round_participants
		SET run_1_score = ?, run_2_score = ?, final_score = ?
		WHERE id = ?
	`)

	res, err := s.DB.Exec(query, run1, run2, finalScore, participantID)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) SetQualified(participantID int64, qualified bool) error {
	query := s.Converter(`UPDATE round_participants SET is_qualified = ? WHERE id = ?`)

	res, err := s.DB.Exec(query, qualified, participantID)
	if err != nil {
		return fmt.Errorf("failed to set qualified flag: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) SetNotes(participantID int64, notes string) error {
	query := s.Converter(`UPDATE round_participants SET notes = ? WHERE id = ?`)

	res, err := s.DB.Exec(query, notes, participantID)
	if err != nil {
		return fmt.Errorf("failed to set notes: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// PromoteParticipants copies the qualified registrants of the source round
// into the destination round inside one transaction. Registrants already
// present in the destination are left untouched, so re-running the
// promotion is safe. Returns how many rows were newly created and how many
// qualified rows the source round had.
func (s *BaseStore) PromoteParticipants(sourceRoundID, destRoundID int64) (int, int, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin promotion: %w", err)
	}
	defer tx.Rollback()

	var qualified int
	countQuery := s.Converter(`
		SELECT COUNT(*)
		FROM round_participants
		WHERE round_id = ?
		AND is_qualified
	`)
	if err := tx.Get(&qualified, countQuery, sourceRoundID); err != nil {
		return 0, 0, fmt.Errorf("failed to count qualified participants: %w", err)
	}

	insertQuery := s.Converter(`
		INSERT INTO round_participants (round_id, registration_id)
		SELECT ?, registration_id
		FROM round_participants
		WHERE round_id = ?
		AND is_qualified
		ON CONFLICT (round_id, registration_id) DO NOTHING
	`)
	res, err := tx.Exec(insertQuery, destRoundID, sourceRoundID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to insert promoted participants: %w", err)
	}

	created, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count promoted participants: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit promotion: %w", err)
	}

	return int(created), qualified, nil
}

// FetchEventStandings aggregates every participant row of the event into
// one row per registrant: best final score, qualification count and how
// many rounds they entered.
func (s *BaseStore) FetchEventStandings(eventID int64) ([]StandingRow, error) {
	query := s.Converter(`
		SELECT
			rp.registration_id,
			reg.full_name,
			reg.car_make,
			reg.car_model,
			reg.car_category,
			MAX(rp.final_score) AS best_score,
			SUM(CASE WHEN rp.is_qualified THEN 1 ELSE 0 END) AS qualified_count,
			COUNT(*) AS rounds_entered,
			MAX(CASE WHEN rp.run_1_score IS NOT NULL OR rp.run_2_score IS NOT NULL THEN 1 ELSE 0 END) AS attempted
		FROM round_participants rp
		JOIN rounds r ON r.id = rp.round_id
		JOIN registrations reg ON reg.id = rp.registration_id
		WHERE r.event_id = ?
		GROUP BY rp.registration_id, reg.full_name, reg.car_make, reg.car_model, reg.car_category
		ORDER BY attempted DESC, best_score DESC, rp.registration_id ASC
	`)

	var rows []StandingRow
	err := s.DB.Select(&rows, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event standings: %w", err)
	}
	return rows, nil
}
