// Package storetest provides a mock CompetitionStore for engine tests.
package storetest

import (
	"github.com/stretchr/testify/mock"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) ApplyMigrations(dir string) error {
	return nil
}

func (m *MockStore) CreateRound(round *models.Round) error {
	args := m.Called(round)
	return args.Error(0)
}

func (m *MockStore) GetRound(roundID int64) (*models.Round, error) {
	args := m.Called(roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *MockStore) GetRoundByOrder(eventID, order int64) (*models.Round, error) {
	args := m.Called(eventID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *MockStore) ListRounds(eventID int64) ([]models.Round, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Round), args.Error(1)
}

func (m *MockStore) DeleteRound(roundID int64) error {
	args := m.Called(roundID)
	return args.Error(0)
}

func (m *MockStore) SetRoundStatus(roundID int64, status models.RoundStatus) error {
	args := m.Called(roundID, status)
	return args.Error(0)
}

func (m *MockStore) GetRegistration(registrationID int64) (*models.Registration, error) {
	args := m.Called(registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockStore) AddParticipant(p *models.RoundParticipant) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStore) GetParticipant(participantID int64) (*models.RoundParticipant, error) {
	args := m.Called(participantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoundParticipant), args.Error(1)
}

func (m *MockStore) ListParticipants(roundID int64) ([]models.RoundParticipant, error) {
	args := m.Called(roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoundParticipant), args.Error(1)
}

func (m *MockStore) RemoveParticipant(participantID int64) error {
	args := m.Called(participantID)
	return args.Error(0)
}

func (m *MockStore) UpdateScores(participantID int64, run1, run2 *float64, finalScore float64) error {
	args := m.Called(participantID, run1, run2, finalScore)
	return args.Error(0)
}

func (m *MockStore) SetQualified(participantID int64, qualified bool) error {
	args := m.Called(participantID, qualified)
	return args.Error(0)
}

func (m *MockStore) SetNotes(participantID int64, notes string) error {
	args := m.Called(participantID, notes)
	return args.Error(0)
}

func (m *MockStore) PromoteParticipants(sourceRoundID, destRoundID int64) (int, int, error) {
	args := m.Called(sourceRoundID, destRoundID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockStore) FetchEventStandings(eventID int64) ([]store.StandingRow, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.StandingRow), args.Error(1)
}
