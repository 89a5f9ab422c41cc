// internal/store/sqlite/store.go
package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn, migrationsDir string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}

	if err := s.ApplyMigrations(migrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect. Replacements
// are ordered so that BIGSERIAL PRIMARY KEY is rewritten before the plain
// BIGINT one would mangle it.
func translateToSQLite(sql string) string {
	replacements := []struct {
		from, to string
	}{
		{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"BIGINT", "INTEGER"},
		{"DOUBLE PRECISION", "REAL"},
		{"BOOLEAN", "INTEGER"},
		{"TRUE", "1"},
		{"FALSE", "0"},
	}
	result := sql
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.from, r.to)
	}
	return result
}

func (s *SQLiteStore) CreateRound(round *models.Round) error {
	res, err := s.DB.Exec(`
		INSERT INTO rounds (event_id, name, round_order, status)
		VALUES (?, ?, ?, ?)
	`, round.EventID, round.Name, round.Order, string(round.Status))
	if err != nil {
		if uniqueViolation(err, "round_order") {
			return store.ErrDuplicateOrder
		}
		return fmt.Errorf("failed to create round: %w", err)
	}

	round.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read round id: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddParticipant(p *models.RoundParticipant) error {
	res, err := s.DB.Exec(`
		INSERT INTO round_participants (round_id, registration_id, notes)
		VALUES (?, ?, ?)
	`, p.RoundID, p.RegistrationID, p.Notes)
	if err != nil {
		if uniqueViolation(err, "registration_id") {
			return store.ErrAlreadyInRound
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read participant id: %w", err)
	}
	return nil
}

// uniqueViolation matches sqlite unique-constraint errors; the column name
// distinguishes the rounds constraint from the participants one.
func uniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique &&
		sqliteErr.ExtendedCode != sqlite3.ErrConstraintPrimaryKey {
		return false
	}
	return strings.Contains(sqliteErr.Error(), column)
}
