package postgres

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

// setupTestDB starts a disposable Postgres and initializes the schema
func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"postgres:16-alpine",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn, "../../../migrations")
	require.NoError(t, err, "Failed to create store")

	// Owned by the registration system in production.
	_, err = s.DB.Exec(`
		CREATE TABLE IF NOT EXISTS registrations (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL,
			full_name TEXT NOT NULL,
			car_make TEXT NOT NULL DEFAULT '',
			car_model TEXT NOT NULL DEFAULT '',
			car_category TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'approved'
		)`)
	require.NoError(t, err, "Failed to create registrations schema")

	_, err = s.DB.Exec(`
		INSERT INTO registrations (id, event_id, full_name, car_make, car_model, car_category, status) VALUES
		(1, 1, 'Xavier Holt', 'Nissan', 'Silvia S15', 'drift', 'approved'),
		(2, 1, 'Yusuf Karim', 'Toyota', 'Supra MK4', 'drift', 'approved'),
		(3, 1, 'Zara Mills', 'Mazda', 'RX-7 FD', 'drift', 'approved')`)
	require.NoError(t, err, "Failed to insert test registrations")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func ptr(v float64) *float64 {
	return &v
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		log.Println("Skipping Postgres integration tests. Use -short=false to run them.")
		os.Exit(0)
	}
	log.Println("Starting Postgres store tests...")
	code := m.Run()
	log.Println("Finished Postgres store tests")
	os.Exit(code)
}

func TestRoundUniqueness(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	round := &models.Round{EventID: 1, Name: "Qualify", Order: 1, Status: models.RoundPending}
	require.NoError(t, s.CreateRound(round))
	require.NotZero(t, round.ID)

	t.Run("duplicate order", func(t *testing.T) {
		err := s.CreateRound(&models.Round{EventID: 1, Name: "Dup", Order: 1, Status: models.RoundPending})
		assert.ErrorIs(t, err, store.ErrDuplicateOrder)
	})

	t.Run("other event unaffected", func(t *testing.T) {
		err := s.CreateRound(&models.Round{EventID: 2, Name: "Qualify", Order: 1, Status: models.RoundPending})
		assert.NoError(t, err)
	})
}

func TestParticipantUniqueness(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	round := &models.Round{EventID: 1, Name: "Qualify", Order: 1, Status: models.RoundPending}
	require.NoError(t, s.CreateRound(round))

	p := &models.RoundParticipant{RoundID: round.ID, RegistrationID: 1}
	require.NoError(t, s.AddParticipant(p))
	require.NotZero(t, p.ID)

	err := s.AddParticipant(&models.RoundParticipant{RoundID: round.ID, RegistrationID: 1})
	assert.ErrorIs(t, err, store.ErrAlreadyInRound)
}

func TestPromotionIsIdempotent(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	qualify := &models.Round{EventID: 1, Name: "Qualify", Order: 1, Status: models.RoundPending}
	top32 := &models.Round{EventID: 1, Name: "Top 32", Order: 2, Status: models.RoundPending}
	require.NoError(t, s.CreateRound(qualify))
	require.NoError(t, s.CreateRound(top32))

	x := &models.RoundParticipant{RoundID: qualify.ID, RegistrationID: 1}
	y := &models.RoundParticipant{RoundID: qualify.ID, RegistrationID: 2}
	require.NoError(t, s.AddParticipant(x))
	require.NoError(t, s.AddParticipant(y))

	require.NoError(t, s.UpdateScores(x.ID, ptr(80), ptr(85), 85))
	require.NoError(t, s.UpdateScores(y.ID, ptr(70), ptr(60), 70))
	require.NoError(t, s.SetQualified(x.ID, true))

	created, qualified, err := s.PromoteParticipants(qualify.ID, top32.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, qualified)

	created, qualified, err = s.PromoteParticipants(qualify.ID, top32.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, qualified)

	participants, err := s.ListParticipants(top32.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, int64(1), participants[0].RegistrationID)
	assert.Nil(t, participants[0].Run1Score)
	assert.False(t, participants[0].IsQualified)
}

func TestEventStandings(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	qualify := &models.Round{EventID: 1, Name: "Qualify", Order: 1, Status: models.RoundPending}
	require.NoError(t, s.CreateRound(qualify))

	a := &models.RoundParticipant{RoundID: qualify.ID, RegistrationID: 1}
	b := &models.RoundParticipant{RoundID: qualify.ID, RegistrationID: 2}
	c := &models.RoundParticipant{RoundID: qualify.ID, RegistrationID: 3}
	require.NoError(t, s.AddParticipant(a))
	require.NoError(t, s.AddParticipant(b))
	require.NoError(t, s.AddParticipant(c))

	require.NoError(t, s.UpdateScores(a.ID, ptr(88.3), nil, 88.3))
	require.NoError(t, s.UpdateScores(b.ID, ptr(91.0), ptr(79.5), 91.0))
	require.NoError(t, s.SetQualified(b.ID, true))

	rows, err := s.FetchEventStandings(1)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(2), rows[0].RegistrationID)
	assert.Equal(t, 91.0, rows[0].BestScore)
	assert.Equal(t, 1, rows[0].QualifiedCount)
	assert.Equal(t, int64(1), rows[1].RegistrationID)
	assert.Equal(t, int64(3), rows[2].RegistrationID)
	assert.Equal(t, 0, rows[2].Attempted)
}
