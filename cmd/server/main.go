package main

import (
	"flag"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/app"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("No .env file loaded: %v", err)
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	roundHandler := handlers.NewRoundHandler(service)
	participantHandler := handlers.NewParticipantHandler(service)
	leaderboardHandler := handlers.NewLeaderboardHandler(service)

	http.HandleFunc("POST /api/v1/events/{event}/rounds",
		handlers.Instrument("/events/rounds", roundHandler.HandleCreateRound))
	http.HandleFunc("GET /api/v1/events/{event}/rounds",
		handlers.Instrument("/events/rounds", roundHandler.HandleListRounds))
	http.HandleFunc("GET /api/v1/rounds/{round}",
		handlers.Instrument("/rounds", roundHandler.HandleRoundDetail))
	http.HandleFunc("DELETE /api/v1/rounds/{round}",
		handlers.Instrument("/rounds", roundHandler.HandleDeleteRound))
	http.HandleFunc("POST /api/v1/rounds/{round}/status",
		handlers.Instrument("/rounds/status", roundHandler.HandleTransitionStatus))
	http.HandleFunc("POST /api/v1/events/{event}/rounds/{round}/promote",
		handlers.Instrument("/rounds/promote", roundHandler.HandlePromote))

	http.HandleFunc("POST /api/v1/rounds/{round}/participants",
		handlers.Instrument("/rounds/participants", participantHandler.HandleAddParticipant))
	http.HandleFunc("DELETE /api/v1/participants/{participant}",
		handlers.Instrument("/participants", participantHandler.HandleRemoveParticipant))
	http.HandleFunc("PUT /api/v1/participants/{participant}/scores",
		handlers.Instrument("/participants/scores", participantHandler.HandleRecordScore))
	http.HandleFunc("PUT /api/v1/participants/{participant}/qualified",
		handlers.Instrument("/participants/qualified", participantHandler.HandleSetQualified))
	http.HandleFunc("PUT /api/v1/participants/{participant}/notes",
		handlers.Instrument("/participants/notes", participantHandler.HandleSetNotes))

	http.HandleFunc("GET /api/v1/events/{event}/leaderboard",
		handlers.Instrument("/events/leaderboard", leaderboardHandler.HandleLeaderboard))
	http.HandleFunc("GET /api/v1/events/{event}/racers/{registration}",
		handlers.Instrument("/events/racers", leaderboardHandler.HandleRacerStats))

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting competition server on %s", service.Config.Server.Port)
	logger.Debug.Println("Requiring headers:")
	for _, h := range service.Config.API.RequiredHeaders {
		logger.Debug.Printf("  %s: %s", h.Name, h.Value)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Competition server failed: %v", err)
	}
}
