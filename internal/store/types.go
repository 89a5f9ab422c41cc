package store

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

// StandingRow is one registrant's aggregate over every round of an event.
// Attempted is 1 when at least one run was ever recorded for the
// registrant; rows without any attempt sort after all scored ones.
type StandingRow struct {
	RegistrationID int64   `db:"registration_id"`
	FullName       string  `db:"full_name"`
	CarMake        string  `db:"car_make"`
	CarModel       string  `db:"car_model"`
	CarCategory    string  `db:"car_category"`
	BestScore      float64 `db:"best_score"`
	QualifiedCount int     `db:"qualified_count"`
	RoundsEntered  int     `db:"rounds_entered"`
	Attempted      int     `db:"attempted"`
}
