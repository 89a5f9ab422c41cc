package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/models"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/promotion"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/ranking"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/scoring"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/store"
)

var (
	// ErrNotEligible rejects adding a registrant whose registration is
	// not approved, or belongs to another event.
	ErrNotEligible = errors.New("registration is not approved for this event")

	ErrInvalidStatus = errors.New("unknown round status")
)

type Service struct {
	Config   *Config
	Store    store.CompetitionStore
	Auth     *Auth
	Scoring  *scoring.Engine
	Promoter *promotion.Promoter
	Ranking  *ranking.Engine
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	competitionStore, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	auth, err := NewAuth(config)
	if err != nil {
		return nil, fmt.Errorf("failed to init auth: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    competitionStore,
		Auth:     auth,
		Scoring:  scoring.NewEngine(competitionStore),
		Promoter: promotion.NewPromoter(competitionStore),
		Ranking:  ranking.NewEngine(competitionStore),
	}, nil
}

// Authorize extracts the bearer token and checks the event capability.
func (s *Service) Authorize(r *http.Request, eventID int64, capability string) error {
	if !s.Config.Server.EnableAuth {
		return nil
	}

	authHeader := r.Header.Get(s.Auth.tokenHeader)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ErrNotAuthenticated
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	return s.Auth.RequireEventCapability(r.Context(), eventID, token, capability)
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

// CreateRound opens a new pending round for the event. The
// (event, round_order) pair is unique; a collision surfaces as
// store.ErrDuplicateOrder and creates nothing.
func (s *Service) CreateRound(eventID int64, name string, order int64) (*models.Round, error) {
	round := &models.Round{
		EventID: eventID,
		Name:    name,
		Order:   order,
		Status:  models.RoundPending,
	}
	if err := round.Validate(); err != nil {
		return nil, fmt.Errorf("invalid round: %w", err)
	}

	if err := s.Store.CreateRound(round); err != nil {
		return nil, err
	}
	return round, nil
}

func (s *Service) ListRounds(eventID int64) ([]models.Round, error) {
	return s.Store.ListRounds(eventID)
}

// GetRoundDetail returns the round with its participants, scored entries
// first, unscored ones at the bottom.
func (s *Service) GetRoundDetail(roundID int64) (*models.Round, []models.RoundParticipant, error) {
	round, err := s.Store.GetRound(roundID)
	if err != nil {
		return nil, nil, err
	}
	if round == nil {
		return nil, nil, store.ErrNotFound
	}

	participants, err := s.Store.ListParticipants(roundID)
	if err != nil {
		return nil, nil, err
	}
	return round, participants, nil
}

// DeleteRound drops the round and every participant row in it.
// Irreversible; the confirmation dialog lives in the admin UI.
func (s *Service) DeleteRound(roundID int64) error {
	return s.Store.DeleteRound(roundID)
}

// TransitionRound accepts any move between the three round states. The
// state machine is deliberately permissive: organizers reopen completed
// rounds to correct judging errors, and nothing downstream depends on a
// status gate.
func (s *Service) TransitionRound(roundID int64, status models.RoundStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.Store.SetRoundStatus(roundID, status)
}

// AddParticipant enters an approved registrant into a round. Only
// approved registrations of the round's own event are eligible.
func (s *Service) AddParticipant(roundID, registrationID int64) (*models.RoundParticipant, error) {
	round, err := s.Store.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, store.ErrNotFound
	}

	registration, err := s.Store.GetRegistration(registrationID)
	if err != nil {
		return nil, err
	}
	if registration == nil {
		return nil, store.ErrNotFound
	}
	if !registration.IsApproved() || registration.EventID != round.EventID {
		return nil, ErrNotEligible
	}

	participant := &models.RoundParticipant{
		RoundID:        roundID,
		RegistrationID: registrationID,
	}
	if err := s.Store.AddParticipant(participant); err != nil {
		return nil, err
	}

	participant.FullName = registration.FullName
	participant.CarMake = registration.CarMake
	participant.CarModel = registration.CarModel
	participant.CarCategory = registration.CarCategory
	return participant, nil
}

func (s *Service) RemoveParticipant(participantID int64) error {
	return s.Store.RemoveParticipant(participantID)
}

// Leaderboard falls back to the configured default limit when the caller
// passes none.
func (s *Service) Leaderboard(eventID int64, limit int) ([]ranking.Entry, error) {
	if limit <= 0 {
		limit = s.Config.Leaderboard.DefaultLimit
	}
	return s.Ranking.Leaderboard(eventID, limit)
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Auth.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
