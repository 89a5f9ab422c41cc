package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/app"
	"github.com/mohammedalshammeri/AK-Autoshow--sub002/internal/ranking"
)

// GSheetExporter pushes event leaderboards into Google Sheets on the
// schedules configured per event. Sponsors get a read-only live standings
// sheet without access to the admin API.
type GSheetExporter struct {
	config    *app.Config
	ranking   *ranking.Engine
	scheduler *gocron.Scheduler
}

func NewGSheetExporter(config *app.Config, rankingEngine *ranking.Engine) (*GSheetExporter, error) {
	e := &GSheetExporter{
		config:    config,
		ranking:   rankingEngine,
		scheduler: gocron.NewScheduler(time.UTC),
	}

	for eventKey, targets := range config.GSheet {
		eventID, err := strconv.ParseInt(eventKey, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid event id %q in gsheet config: %w", eventKey, err)
		}

		for _, cfg := range targets {
			svc, err := sheets.NewService(
				context.Background(),
				option.WithCredentialsFile(cfg.CredentialsPath),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create sheets service: %w", err)
			}

			target := cfg
			_, err = e.scheduler.Cron(cfg.Schedule).Do(func() {
				if err := e.Export(svc, eventID, &target); err != nil {
					logger.Error.Printf("Export for event %d failed: %v", eventID, err)
				}
			})
			if err != nil {
				return nil, fmt.Errorf("failed to schedule export: %w", err)
			}
		}
	}

	e.scheduler.StartAsync()
	return e, nil
}

func (e *GSheetExporter) Stop() {
	e.scheduler.Stop()
}

// Export writes one leaderboard snapshot: rank, racer, car, best score
// and qualification count per row, plus an update timestamp.
func (e *GSheetExporter) Export(svc *sheets.Service, eventID int64, cfg *app.GSheetConfig) error {
	entries, err := e.ranking.Leaderboard(eventID, cfg.Limit)
	if err != nil {
		return fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	values := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		car := fmt.Sprintf("%s %s", entry.CarMake, entry.CarModel)
		values = append(values, []interface{}{
			entry.Rank,
			entry.FullName,
			car,
			entry.CarCategory,
			entry.BestScore,
			entry.QualifiedCount,
		})
	}

	writeRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.StartCell)
	_, err = svc.Spreadsheets.Values.Update(cfg.SheetID, writeRange,
		&sheets.ValueRange{Values: values}).ValueInputOption("RAW").Do()
	if err != nil {
		return fmt.Errorf("failed to write leaderboard rows: %w", err)
	}

	if cfg.TimestampCell != "" {
		timestamp := fmt.Sprintf("UPD: %s", time.Now().Format("2 January 15:04"))
		tsRange := fmt.Sprintf("%s!%s", cfg.SheetName, cfg.TimestampCell)
		_, err = svc.Spreadsheets.Values.Update(cfg.SheetID, tsRange,
			&sheets.ValueRange{Values: [][]interface{}{{timestamp}}}).ValueInputOption("RAW").Do()
		if err != nil {
			return fmt.Errorf("failed to write timestamp: %w", err)
		}
	}

	logger.Debug.Printf("Exported %d leaderboard rows for event %d", len(values), eventID)
	return nil
}
