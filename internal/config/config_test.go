package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CourtClient != ClientDemo {
		t.Errorf("CourtClient = %q, want %q", cfg.CourtClient, ClientDemo)
	}
	if cfg.ScraperTimeout != 30*time.Second {
		t.Errorf("ScraperTimeout = %s, want 30s", cfg.ScraperTimeout)
	}
	if cfg.ScraperMaxAttempts != 3 {
		t.Errorf("ScraperMaxAttempts = %d, want 3", cfg.ScraperMaxAttempts)
	}
	if cfg.ScraperRetryDelay != time.Second {
		t.Errorf("ScraperRetryDelay = %s, want 1s", cfg.ScraperRetryDelay)
	}
	if cfg.CacheTTL != time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.CacheTTL)
	}
	if cfg.HistoryPageSize != 20 {
		t.Errorf("HistoryPageSize = %d, want 20", cfg.HistoryPageSize)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("COURT_CLIENT", "live")
	t.Setenv("SCRAPER_MAX_ATTEMPTS", "5")
	t.Setenv("SCRAPER_RETRY_DELAY", "250")
	t.Setenv("CACHE_TTL", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CourtClient != ClientLive {
		t.Errorf("CourtClient = %q, want %q", cfg.CourtClient, ClientLive)
	}
	if cfg.ScraperMaxAttempts != 5 {
		t.Errorf("ScraperMaxAttempts = %d, want 5", cfg.ScraperMaxAttempts)
	}
	if cfg.ScraperRetryDelay != 250*time.Millisecond {
		t.Errorf("ScraperRetryDelay = %s, want 250ms", cfg.ScraperRetryDelay)
	}
	if cfg.CacheTTL != 0 {
		t.Errorf("CacheTTL = %s, want 0", cfg.CacheTTL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non numeric timeout", key: "SCRAPER_TIMEOUT", value: "soon"},
		{name: "zero attempts", key: "SCRAPER_MAX_ATTEMPTS", value: "0"},
		{name: "unknown client", key: "COURT_CLIENT", value: "selenium"},
		{name: "negative ttl", key: "CACHE_TTL", value: "-5"},
		{name: "zero page size", key: "HISTORY_PAGE_SIZE", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s: expected error", tt.key, tt.value)
			}
		})
	}
}
