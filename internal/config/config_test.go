package config

import (
	"testing"
	"time"

	"github.com/dmarchuk/matchfeed/internal/platform/logging"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if cfg.FeedTimeout != 20*time.Second {
		t.Fatalf("unexpected feed timeout: %s", cfg.FeedTimeout)
	}
	if cfg.BackfillMaxWorkers != 4 {
		t.Fatalf("unexpected backfill workers: %d", cfg.BackfillMaxWorkers)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid APP_ENV error")
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("FEED_TIMEOUT", "fast")

	if _, err := Load(); err == nil {
		t.Fatal("expected FEED_TIMEOUT parse error")
	}
}
