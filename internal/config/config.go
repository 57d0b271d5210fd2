package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL     string
	EbayAppID       string
	EbayCertID      string
	CacheResetToken string
	Port            string
	Environment     string

	// PublicBaseURL is where the deployed API is reachable; the monitor and
	// the operational scripts call the manual refresh trigger through it.
	PublicBaseURL string

	// Refresh scheduling (wall-clock times in Timezone)
	Timezone  string
	RefreshAt string // primary run, "HH:MM"
	MonitorAt string // backup check, "HH:MM"

	// Ingestion tuning
	ItemLimit   int           // page size per category search
	SampleSize  int           // items kept in the general category
	DetailDelay time.Duration // minimum spacing between item detail calls
}

func Load() *Config {
	defaultDSN := "root:ebiddle@tcp(127.0.0.1:3306)/ebiddle?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", defaultDSN),
		EbayAppID:       getEnv("EBAY_APP_ID", ""),
		EbayCertID:      getEnv("EBAY_CERT_ID", ""),
		CacheResetToken: getEnv("CACHE_RESET_TOKEN", ""),
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		Timezone:  getEnv("REFRESH_TIMEZONE", "America/Chicago"),
		RefreshAt: getEnv("REFRESH_AT", "00:00"),
		MonitorAt: getEnv("MONITOR_AT", "01:00"),

		ItemLimit:   getEnvInt("ITEM_LIMIT", 100),
		SampleSize:  getEnvInt("GENERAL_SAMPLE_SIZE", 10),
		DetailDelay: time.Duration(getEnvInt("DETAIL_DELAY_MS", 100)) * time.Millisecond,
	}
}

// Validate ensures the configuration is coherent before the server starts.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL cannot be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	for _, at := range []string{c.RefreshAt, c.MonitorAt} {
		if _, err := time.Parse("15:04", at); err != nil {
			return fmt.Errorf("invalid schedule time %q: %w", at, err)
		}
	}
	if c.ItemLimit <= 0 || c.ItemLimit > 200 {
		return fmt.Errorf("item limit must be between 1 and 200")
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("general sample size must be positive")
	}
	if c.DetailDelay < 0 {
		return fmt.Errorf("detail delay cannot be negative")
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
