package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"
)

type HeaderConfig struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
}

// GSheetConfig describes one scheduled leaderboard export target.
type GSheetConfig struct {
	CredentialsPath string `toml:"credentials_path"`
	Schedule        string `toml:"schedule"`
	SheetID         string `toml:"sheet_id"`
	SheetName       string `toml:"sheet_name"`
	StartCell       string `toml:"start_cell"`
	TimestampCell   string `toml:"timestamp_cell"`
	Limit           int    `toml:"limit"`
}

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	API struct {
		RequiredHeaders []HeaderConfig `toml:"required_headers"`
	} `toml:"api"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Leaderboard struct {
		DefaultLimit int `toml:"default_limit"`
		PollSeconds  int `toml:"poll_seconds"`
	} `toml:"leaderboard"`

	// GSheet maps an event id to its export targets.
	GSheet map[string][]GSheetConfig `toml:"gsheet"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}
	if config.Leaderboard.DefaultLimit <= 0 {
		config.Leaderboard.DefaultLimit = 50
	}
	if config.Leaderboard.PollSeconds <= 0 {
		// reference UI refreshes the leaderboard every 30s
		config.Leaderboard.PollSeconds = 30
	}

	logger.Debug.Printf("Loaded leaderboard config: %+v", config.Leaderboard)

	return &config, nil
}
