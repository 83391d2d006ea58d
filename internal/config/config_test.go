package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SEATGATE_API_BASE", "")
	t.Setenv("SEATGATE_QUEUE_POLL_MS", "")
	t.Setenv("SEATGATE_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Service.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected base url: %q", cfg.Service.BaseURL)
	}
	if cfg.Service.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected request timeout: %s", cfg.Service.RequestTimeout)
	}
	if cfg.Access.QueuePollInterval != 10*time.Second {
		t.Fatalf("unexpected queue poll interval: %s", cfg.Access.QueuePollInterval)
	}
	if cfg.Access.CleanupPollInterval != 15*time.Second {
		t.Fatalf("unexpected cleanup poll interval: %s", cfg.Access.CleanupPollInterval)
	}
	if cfg.Access.StatusPollInterval != 30*time.Second {
		t.Fatalf("unexpected status poll interval: %s", cfg.Access.StatusPollInterval)
	}
	if cfg.Access.ClaimCeiling != 2*time.Minute {
		t.Fatalf("unexpected claim ceiling: %s", cfg.Access.ClaimCeiling)
	}
	if cfg.Access.ClaimWarnAt != time.Minute || cfg.Access.ClaimCriticalAt != 30*time.Second {
		t.Fatalf("unexpected claim thresholds: %+v", cfg.Access)
	}
	if cfg.Access.InteractionQuiet != 2*time.Second {
		t.Fatalf("unexpected interaction quiet period: %s", cfg.Access.InteractionQuiet)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	t.Setenv("SEATGATE_API_BASE", "https://demo.example.com")
	t.Setenv("SEATGATE_REQUEST_TIMEOUT_MS", "2500")
	t.Setenv("SEATGATE_QUEUE_POLL_MS", "5000")
	t.Setenv("SEATGATE_CLEANUP_POLL_MS", "20000")
	t.Setenv("SEATGATE_STATUS_POLL_MS", "60000")
	t.Setenv("SEATGATE_CLAIM_CEILING_MS", "90000")
	t.Setenv("SEATGATE_INTERACTION_QUIET_MS", "3000")
	t.Setenv("SEATGATE_REFRESH_DELAY_MS", "1000")
	t.Setenv("SEATGATE_RESET_DELAY_MS", "1500")
	t.Setenv("SEATGATE_FORFEIT_RESYNC_MS", "4000")
	t.Setenv("SEATGATE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Service.BaseURL != "https://demo.example.com" {
		t.Fatalf("unexpected base url: %q", cfg.Service.BaseURL)
	}
	if cfg.Service.RequestTimeout != 2500*time.Millisecond {
		t.Fatalf("unexpected request timeout: %s", cfg.Service.RequestTimeout)
	}
	if cfg.Access.QueuePollInterval != 5*time.Second {
		t.Fatalf("unexpected queue poll interval: %s", cfg.Access.QueuePollInterval)
	}
	if cfg.Access.CleanupPollInterval != 20*time.Second {
		t.Fatalf("unexpected cleanup poll interval: %s", cfg.Access.CleanupPollInterval)
	}
	if cfg.Access.StatusPollInterval != time.Minute {
		t.Fatalf("unexpected status poll interval: %s", cfg.Access.StatusPollInterval)
	}
	if cfg.Access.ClaimCeiling != 90*time.Second {
		t.Fatalf("unexpected claim ceiling: %s", cfg.Access.ClaimCeiling)
	}
	if cfg.Access.InteractionQuiet != 3*time.Second {
		t.Fatalf("unexpected interaction quiet period: %s", cfg.Access.InteractionQuiet)
	}
	if cfg.Access.RefreshDelay != time.Second || cfg.Access.ResetDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected delay overrides: %+v", cfg.Access)
	}
	if cfg.Access.ForfeitResyncDelay != 4*time.Second {
		t.Fatalf("unexpected forfeit resync delay: %s", cfg.Access.ForfeitResyncDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Log.Level)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SEATGATE_QUEUE_POLL_MS", "bad")
	t.Setenv("SEATGATE_CLEANUP_POLL_MS", "-100")
	t.Setenv("SEATGATE_REQUEST_TIMEOUT_MS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Access.QueuePollInterval != 10*time.Second {
		t.Fatalf("expected default queue poll interval, got %s", cfg.Access.QueuePollInterval)
	}
	if cfg.Access.CleanupPollInterval != 15*time.Second {
		t.Fatalf("expected default cleanup poll interval, got %s", cfg.Access.CleanupPollInterval)
	}
	if cfg.Service.RequestTimeout != 10*time.Second {
		t.Fatalf("expected default request timeout, got %s", cfg.Service.RequestTimeout)
	}
}

func TestLoadClampsAggressiveIntervals(t *testing.T) {
	t.Setenv("SEATGATE_QUEUE_POLL_MS", "50")
	t.Setenv("SEATGATE_CLEANUP_POLL_MS", "10")
	t.Setenv("SEATGATE_STATUS_POLL_MS", "1")
	t.Setenv("SEATGATE_CLAIM_CEILING_MS", "500")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Access.QueuePollInterval != time.Second {
		t.Fatalf("expected clamped queue poll interval, got %s", cfg.Access.QueuePollInterval)
	}
	if cfg.Access.CleanupPollInterval != time.Second {
		t.Fatalf("expected clamped cleanup poll interval, got %s", cfg.Access.CleanupPollInterval)
	}
	if cfg.Access.StatusPollInterval != time.Second {
		t.Fatalf("expected clamped status poll interval, got %s", cfg.Access.StatusPollInterval)
	}
	if cfg.Access.ClaimCeiling != 10*time.Second {
		t.Fatalf("expected clamped claim ceiling, got %s", cfg.Access.ClaimCeiling)
	}
}
