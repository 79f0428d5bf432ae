package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Court client modes.
const (
	ClientDemo = "demo"
	ClientLive = "live"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Recent-result reuse settings
	CacheSize int
	CacheTTL  time.Duration

	// Court settings
	CourtBaseURL string
	CourtName    string
	CourtClient  string

	// Scraper settings
	ScraperTimeout     time.Duration
	ScraperMaxAttempts int
	ScraperRetryDelay  time.Duration
	DownloadTimeout    time.Duration
	HeadlessMode       bool
	UserAgent          string
	BrowserPath        string

	// History settings
	HistoryPageSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:         getEnv("HOST", "0.0.0.0"),
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/court_scraper.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		CourtBaseURL: getEnv("COURT_BASE_URL", "https://delhihighcourt.nic.in"),
		CourtName:    getEnv("COURT_NAME", "Delhi High Court"),
		CourtClient:  getEnv("COURT_CLIENT", ClientDemo),
		UserAgent:    getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		BrowserPath:  getEnv("ROD_BROWSER_PATH", ""),
	}

	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	scraperTimeout, err := strconv.Atoi(getEnv("SCRAPER_TIMEOUT", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPER_TIMEOUT: %w", err)
	}
	cfg.ScraperTimeout = time.Duration(scraperTimeout) * time.Second

	cfg.ScraperMaxAttempts, err = strconv.Atoi(getEnv("SCRAPER_MAX_ATTEMPTS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPER_MAX_ATTEMPTS: %w", err)
	}

	retryDelay, err := strconv.Atoi(getEnv("SCRAPER_RETRY_DELAY", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCRAPER_RETRY_DELAY: %w", err)
	}
	cfg.ScraperRetryDelay = time.Duration(retryDelay) * time.Millisecond

	downloadTimeout, err := strconv.Atoi(getEnv("DOWNLOAD_TIMEOUT", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_TIMEOUT: %w", err)
	}
	cfg.DownloadTimeout = time.Duration(downloadTimeout) * time.Second

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "true") == "true"

	cfg.HistoryPageSize, err = strconv.Atoi(getEnv("HISTORY_PAGE_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_PAGE_SIZE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that parse fine but make no sense.
func (c *Config) Validate() error {
	if c.CourtClient != ClientDemo && c.CourtClient != ClientLive {
		return fmt.Errorf("invalid COURT_CLIENT %q: must be %q or %q", c.CourtClient, ClientDemo, ClientLive)
	}
	if c.ScraperMaxAttempts < 1 {
		return fmt.Errorf("invalid SCRAPER_MAX_ATTEMPTS %d: must be at least 1", c.ScraperMaxAttempts)
	}
	if c.ScraperTimeout <= 0 {
		return fmt.Errorf("invalid SCRAPER_TIMEOUT %s: must be positive", c.ScraperTimeout)
	}
	if c.ScraperRetryDelay < 0 {
		return fmt.Errorf("invalid SCRAPER_RETRY_DELAY %s: must not be negative", c.ScraperRetryDelay)
	}
	if c.DownloadTimeout <= 0 {
		return fmt.Errorf("invalid DOWNLOAD_TIMEOUT %s: must be positive", c.DownloadTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("invalid CACHE_TTL %s: must not be negative", c.CacheTTL)
	}
	if c.HistoryPageSize < 1 {
		return fmt.Errorf("invalid HISTORY_PAGE_SIZE %d: must be at least 1", c.HistoryPageSize)
	}
	return nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
