package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the seat access client.
type Config struct {
	Service ServiceConfig
	Access  AccessConfig
	Log     LogConfig
}

type ServiceConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type AccessConfig struct {
	QueuePollInterval   time.Duration
	CleanupPollInterval time.Duration
	StatusPollInterval  time.Duration
	SessionTick         time.Duration
	ClaimTick           time.Duration
	ClaimCeiling        time.Duration
	ClaimWarnAt         time.Duration
	ClaimCriticalAt     time.Duration
	InteractionQuiet    time.Duration
	RefreshDelay        time.Duration
	ResetDelay          time.Duration
	ForfeitResyncDelay  time.Duration
}

type LogConfig struct {
	Level string
}

// Load resolves configuration from environment variables and sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Service: ServiceConfig{
			BaseURL:        envOrDefault("SEATGATE_API_BASE", "http://localhost:8080"),
			RequestTimeout: envDurationMs("SEATGATE_REQUEST_TIMEOUT_MS", 10*time.Second),
		},
		Access: AccessConfig{
			QueuePollInterval:   envDurationMs("SEATGATE_QUEUE_POLL_MS", 10*time.Second),
			CleanupPollInterval: envDurationMs("SEATGATE_CLEANUP_POLL_MS", 15*time.Second),
			StatusPollInterval:  envDurationMs("SEATGATE_STATUS_POLL_MS", 30*time.Second),
			SessionTick:         time.Second,
			ClaimTick:           time.Second,
			ClaimCeiling:        envDurationMs("SEATGATE_CLAIM_CEILING_MS", 2*time.Minute),
			ClaimWarnAt:         time.Minute,
			ClaimCriticalAt:     30 * time.Second,
			InteractionQuiet:    envDurationMs("SEATGATE_INTERACTION_QUIET_MS", 2*time.Second),
			RefreshDelay:        envDurationMs("SEATGATE_REFRESH_DELAY_MS", 5*time.Second),
			ResetDelay:          envDurationMs("SEATGATE_RESET_DELAY_MS", 2*time.Second),
			ForfeitResyncDelay:  envDurationMs("SEATGATE_FORFEIT_RESYNC_MS", 3*time.Second),
		},
		Log: LogConfig{
			Level: envOrDefault("SEATGATE_LOG_LEVEL", "info"),
		},
	}

	// Sub-second polling hammers the service without improving freshness.
	if cfg.Access.QueuePollInterval < time.Second {
		cfg.Access.QueuePollInterval = time.Second
	}
	if cfg.Access.CleanupPollInterval < time.Second {
		cfg.Access.CleanupPollInterval = time.Second
	}
	if cfg.Access.StatusPollInterval < time.Second {
		cfg.Access.StatusPollInterval = time.Second
	}
	if cfg.Access.ClaimCeiling < 10*time.Second {
		cfg.Access.ClaimCeiling = 10 * time.Second
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envDurationMs(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return time.Duration(parsed) * time.Millisecond
}
