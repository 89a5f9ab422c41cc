// internal/app/auth.go
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"
)

// Event capabilities an operator token can carry.
const (
	CapView             = "view"
	CapManageRounds     = "manage_rounds"
	CapEditRegistration = "edit_registration"
	CapGateScan         = "gate_scan"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("no access to this event")
)

// Auth resolves operator tokens against redis hashes maintained by the
// account system. Each hash holds the token plus a comma-separated
// capability list scoped to one event.
type Auth struct {
	enabled     bool
	redis       *redis.Client
	keyTemplate string
	tokenHeader string
}

func NewAuth(config *Config) (*Auth, error) {
	if !config.Server.EnableAuth {
		return &Auth{enabled: false}, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Auth{
		enabled:     true,
		redis:       client,
		keyTemplate: config.Auth.TokenKeyTemplate,
		tokenHeader: config.Auth.TokenHeader,
	}, nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// RequireEventCapability fails with ErrNotAuthenticated when the token is
// unknown for the event and ErrForbidden when the token lacks the
// capability. With auth disabled every check passes.
func (a *Auth) RequireEventCapability(ctx context.Context, eventID int64, token, capability string) error {
	if !a.enabled {
		return nil
	}
	if token == "" {
		return ErrNotAuthenticated
	}

	key := strings.NewReplacer(
		"{event}", strconv.FormatInt(eventID, 10),
		"{token}", token,
	).Replace(a.keyTemplate)

	fields, err := a.redis.HGetAll(ctx, key).Result()
	if err != nil && err != redis.Nil {
		logger.Debug.Printf("Redis error: %v", err)
		return fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 || fields["token"] != token {
		logger.Debug.Printf("Unknown token for event %d in %s", eventID, key)
		return ErrNotAuthenticated
	}

	for _, cap := range strings.Split(fields["capabilities"], ",") {
		if strings.TrimSpace(cap) == capability {
			return nil
		}
	}

	logger.Debug.Printf(
		"Token for event %d lacks capability %s (has: %s)",
		eventID,
		capability,
		fields["capabilities"],
	)
	return ErrForbidden
}
