// internal/store/sqlite/store_test.go
package sqlite

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

// setupTestDB creates an in-memory SQLite database with the competition
// schema plus a minimal registrations table, which in production is owned
// by the registration system.
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:", "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	schema := `
	CREATE TABLE IF NOT EXISTS registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL,
		full_name TEXT NOT NULL,
		car_make TEXT NOT NULL DEFAULT '',
		car_model TEXT NOT NULL DEFAULT '',
		car_category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'approved'
	);`

	_, err = s.DB.Exec(schema)
	require.NoError(t, err, "Failed to create registrations schema")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

type testData struct {
	store *SQLiteStore
}

func setupTestData(t *testing.T) (*testData, func()) {
	s, cleanup := setupTestDB(t)

	_, err := s.DB.Exec(`
		INSERT INTO registrations (id, event_id, full_name, car_make, car_model, car_category, status) VALUES
		(1, 1, 'Xavier Holt', 'Nissan', 'Silvia S15', 'drift', 'approved'),
		(2, 1, 'Yusuf Karim', 'Toyota', 'Supra MK4', 'drift', 'approved'),
		(3, 1, 'Zara Mills', 'Mazda', 'RX-7 FD', 'drift', 'approved'),
		(4, 1, 'Pending Pete', 'Honda', 'Civic EK9', 'street', 'pending'),
		(5, 2, 'Other Event Omar', 'BMW', 'E36', 'drift', 'approved')`)
	require.NoError(t, err, "Failed to insert test registrations")

	return &testData{store: s}, cleanup
}

func ptr(v float64) *float64 {
	return &v
}

func mustCreateRound(t *testing.T, s *SQLiteStore, eventID int64, name string, order int64) *models.Round {
	round := &models.Round{
		EventID: eventID,
		Name:    name,
		Order:   order,
		Status:  models.RoundPending,
	}
	require.NoError(t, s.CreateRound(round), "Failed to create round %q", name)
	require.NotZero(t, round.ID)
	return round
}

func mustAddParticipant(t *testing.T, s *SQLiteStore, roundID, registrationID int64) *models.RoundParticipant {
	p := &models.RoundParticipant{RoundID: roundID, RegistrationID: registrationID}
	require.NoError(t, s.AddParticipant(p), "Failed to add participant")
	require.NotZero(t, p.ID)
	return p
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestRoundOperations(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	qualify := mustCreateRound(t, td.store, 1, "Qualify", 1)
	top32 := mustCreateRound(t, td.store, 1, "Top 32", 2)

	t.Run("duplicate order fails and creates no row", func(t *testing.T) {
		err := td.store.CreateRound(&models.Round{
			EventID: 1,
			Name:    "Sneaky duplicate",
			Order:   1,
			Status:  models.RoundPending,
		})
		assert.ErrorIs(t, err, store.ErrDuplicateOrder)

		rounds, err := td.store.ListRounds(1)
		require.NoError(t, err)
		assert.Len(t, rounds, 2)
	})

	t.Run("same order is fine on another event", func(t *testing.T) {
		other := mustCreateRound(t, td.store, 2, "Qualify", 1)
		assert.NotEqual(t, qualify.ID, other.ID)
	})

	t.Run("list is ordered by round_order", func(t *testing.T) {
		mustCreateRound(t, td.store, 1, "Top 16", 4)

		rounds, err := td.store.ListRounds(1)
		require.NoError(t, err)
		require.Len(t, rounds, 3)
		assert.Equal(t, []string{"Qualify", "Top 32", "Top 16"},
			[]string{rounds[0].Name, rounds[1].Name, rounds[2].Name})
	})

	t.Run("get round", func(t *testing.T) {
		got, err := td.store.GetRound(top32.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Top 32", got.Name)
		assert.Equal(t, models.RoundPending, got.Status)

		missing, err := td.store.GetRound(9999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("get round by order", func(t *testing.T) {
		got, err := td.store.GetRoundByOrder(1, 2)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, top32.ID, got.ID)

		missing, err := td.store.GetRoundByOrder(1, 3)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("status transitions are unguarded", func(t *testing.T) {
		require.NoError(t, td.store.SetRoundStatus(qualify.ID, models.RoundCompleted))
		require.NoError(t, td.store.SetRoundStatus(qualify.ID, models.RoundActive))
		require.NoError(t, td.store.SetRoundStatus(qualify.ID, models.RoundCompleted))

		got, err := td.store.GetRound(qualify.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoundCompleted, got.Status)

		assert.ErrorIs(t, td.store.SetRoundStatus(9999, models.RoundActive), store.ErrNotFound)
	})
}

func TestParticipantOperations(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	round := mustCreateRound(t, td.store, 1, "Qualify", 1)

	t.Run("add and get participant with display fields", func(t *testing.T) {
		p := mustAddParticipant(t, td.store, round.ID, 1)

		got, err := td.store.GetParticipant(p.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Xavier Holt", got.FullName)
		assert.Equal(t, "Nissan", got.CarMake)
		assert.Nil(t, got.Run1Score)
		assert.Nil(t, got.Run2Score)
		assert.Equal(t, 0.0, got.FinalScore)
		assert.False(t, got.IsQualified)
	})

	t.Run("double entry into the same round fails", func(t *testing.T) {
		err := td.store.AddParticipant(&models.RoundParticipant{RoundID: round.ID, RegistrationID: 1})
		assert.ErrorIs(t, err, store.ErrAlreadyInRound)
	})

	t.Run("score update writes all three fields at once", func(t *testing.T) {
		p := mustAddParticipant(t, td.store, round.ID, 2)

		require.NoError(t, td.store.UpdateScores(p.ID, ptr(87.5), ptr(91.2), 91.2))

		got, err := td.store.GetParticipant(p.ID)
		require.NoError(t, err)
		assert.Equal(t, 87.5, *got.Run1Score)
		assert.Equal(t, 91.2, *got.Run2Score)
		assert.Equal(t, 91.2, got.FinalScore)
	})

	t.Run("listing puts unscored participants last", func(t *testing.T) {
		mustAddParticipant(t, td.store, round.ID, 3)

		participants, err := td.store.ListParticipants(round.ID)
		require.NoError(t, err)
		require.Len(t, participants, 3)
		// scored: reg 2 (91.2), then reg 1 and reg 3 without attempts
		assert.Equal(t, int64(2), participants[0].RegistrationID)
		assert.False(t, participants[1].HasScore())
		assert.False(t, participants[2].HasScore())
	})

	t.Run("qualification toggle and notes", func(t *testing.T) {
		participants, err := td.store.ListParticipants(round.ID)
		require.NoError(t, err)
		p := participants[0]

		require.NoError(t, td.store.SetQualified(p.ID, true))
		require.NoError(t, td.store.SetNotes(p.ID, "clean second run"))

		got, err := td.store.GetParticipant(p.ID)
		require.NoError(t, err)
		assert.True(t, got.IsQualified)
		assert.Equal(t, "clean second run", got.Notes)

		assert.ErrorIs(t, td.store.SetQualified(9999, true), store.ErrNotFound)
		assert.ErrorIs(t, td.store.SetNotes(9999, "x"), store.ErrNotFound)
	})

	t.Run("remove participant", func(t *testing.T) {
		p := mustAddParticipant(t, td.store, round.ID, 4)

		require.NoError(t, td.store.RemoveParticipant(p.ID))
		assert.ErrorIs(t, td.store.RemoveParticipant(p.ID), store.ErrNotFound)

		got, err := td.store.GetParticipant(p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("registration lookup", func(t *testing.T) {
		reg, err := td.store.GetRegistration(4)
		require.NoError(t, err)
		require.NotNil(t, reg)
		assert.False(t, reg.IsApproved())

		missing, err := td.store.GetRegistration(9999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestPromoteParticipants(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	qualify := mustCreateRound(t, td.store, 1, "Qualify", 1)
	top32 := mustCreateRound(t, td.store, 1, "Top 32", 2)

	x := mustAddParticipant(t, td.store, qualify.ID, 1)
	y := mustAddParticipant(t, td.store, qualify.ID, 2)

	require.NoError(t, td.store.UpdateScores(x.ID, ptr(80), ptr(85), 85))
	require.NoError(t, td.store.UpdateScores(y.ID, ptr(70), ptr(60), 70))
	require.NoError(t, td.store.SetQualified(x.ID, true))

	t.Run("only qualified participants are copied", func(t *testing.T) {
		created, qualified, err := td.store.PromoteParticipants(qualify.ID, top32.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, 1, qualified)

		participants, err := td.store.ListParticipants(top32.ID)
		require.NoError(t, err)
		require.Len(t, participants, 1)
		assert.Equal(t, int64(1), participants[0].RegistrationID)
		assert.Nil(t, participants[0].Run1Score)
		assert.Nil(t, participants[0].Run2Score)
		assert.Equal(t, 0.0, participants[0].FinalScore)
		assert.False(t, participants[0].IsQualified)
	})

	t.Run("repeat run creates nothing and overwrites nothing", func(t *testing.T) {
		participants, err := td.store.ListParticipants(top32.ID)
		require.NoError(t, err)
		promoted := participants[0]
		require.NoError(t, td.store.UpdateScores(promoted.ID, ptr(92), nil, 92))

		created, qualified, err := td.store.PromoteParticipants(qualify.ID, top32.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 1, qualified)

		got, err := td.store.GetParticipant(promoted.ID)
		require.NoError(t, err)
		assert.Equal(t, 92.0, *got.Run1Score)
		assert.Equal(t, 92.0, got.FinalScore)
	})

	t.Run("newly qualified registrant joins on a later run", func(t *testing.T) {
		require.NoError(t, td.store.SetQualified(y.ID, true))

		created, qualified, err := td.store.PromoteParticipants(qualify.ID, top32.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, created)
		assert.Equal(t, 2, qualified)

		participants, err := td.store.ListParticipants(top32.ID)
		require.NoError(t, err)
		assert.Len(t, participants, 2)
	})

	t.Run("empty qualified set promotes nobody", func(t *testing.T) {
		empty := mustCreateRound(t, td.store, 1, "Top 16", 3)
		final := mustCreateRound(t, td.store, 1, "Final", 4)

		created, qualified, err := td.store.PromoteParticipants(empty.ID, final.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, created)
		assert.Equal(t, 0, qualified)
	})
}

func TestDeleteRoundCascades(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	round := mustCreateRound(t, td.store, 1, "Qualify", 1)
	p := mustAddParticipant(t, td.store, round.ID, 1)

	require.NoError(t, td.store.DeleteRound(round.ID))
	assert.ErrorIs(t, td.store.DeleteRound(round.ID), store.ErrNotFound)

	got, err := td.store.GetParticipant(p.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "participant rows should go with the round")
}

func TestFetchEventStandings(t *testing.T) {
	td, cleanup := setupTestData(t)
	defer cleanup()

	qualify := mustCreateRound(t, td.store, 1, "Qualify", 1)
	top32 := mustCreateRound(t, td.store, 1, "Top 32", 2)

	q1 := mustAddParticipant(t, td.store, qualify.ID, 1)
	q2 := mustAddParticipant(t, td.store, qualify.ID, 2)
	q3 := mustAddParticipant(t, td.store, qualify.ID, 3)
	t1 := mustAddParticipant(t, td.store, top32.ID, 1)

	require.NoError(t, td.store.UpdateScores(q1.ID, ptr(80), ptr(85), 85))
	require.NoError(t, td.store.UpdateScores(q2.ID, ptr(90), nil, 90))
	require.NoError(t, td.store.UpdateScores(t1.ID, ptr(95), ptr(70), 95))
	require.NoError(t, td.store.SetQualified(q1.ID, true))
	require.NoError(t, td.store.SetQualified(q2.ID, true))
	_ = q3 // entered, never scored

	rows, err := td.store.FetchEventStandings(1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Best score descending, the never-scored entry last.
	assert.Equal(t, int64(1), rows[0].RegistrationID)
	assert.Equal(t, 95.0, rows[0].BestScore)
	assert.Equal(t, 1, rows[0].QualifiedCount)
	assert.Equal(t, 2, rows[0].RoundsEntered)
	assert.Equal(t, 1, rows[0].Attempted)

	assert.Equal(t, int64(2), rows[1].RegistrationID)
	assert.Equal(t, 90.0, rows[1].BestScore)

	assert.Equal(t, int64(3), rows[2].RegistrationID)
	assert.Equal(t, 0, rows[2].Attempted)
	assert.Equal(t, "Zara Mills", rows[2].FullName)
}
