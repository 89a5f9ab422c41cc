package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn, migrationsDir string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

func (s *PostgresStore) CreateRound(round *models.Round) error {
	err := s.DB.QueryRowx(`
		INSERT INTO rounds (event_id, name, round_order, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, round.EventID, round.Name, round.Order, string(round.Status)).Scan(&round.ID)
	if err != nil {
		if uniqueViolation(err, "rounds_event_order_uniq") {
			return store.ErrDuplicateOrder
		}
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddParticipant(p *models.RoundParticipant) error {
	err := s.DB.QueryRowx(`
		INSERT INTO round_participants (round_id, registration_id, notes)
		VALUES ($1, $2, $3)
		RETURNING id
	`, p.RoundID, p.RegistrationID, p.Notes).Scan(&p.ID)
	if err != nil {
		if uniqueViolation(err, "participants_round_reg_uniq") {
			return store.ErrAlreadyInRound
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func uniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" && pqErr.Constraint == constraint
}
