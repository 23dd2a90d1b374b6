// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aristath/fundlens/internal/utils"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Base directory for all databases (always absolute)
	LogLevel    string
	Port        int
	DevMode     bool
	MaxUploadMB int
	Calendar    CalendarConfig
	Uploads     UploadsConfig
}

// CalendarConfig configures the trading calendar
type CalendarConfig struct {
	DBPath        string // calendar.db location
	HolidayFile   string // Optional CSV imported into calendar.db at startup
	ExtraHolidays string // Comma-separated dates added to the fallback holidays
	Dynamic       bool   // false forces the fallback tier
	CheckSchedule string // Cron spec (with seconds) of the coverage check
}

// UploadsConfig configures stored holdings uploads
type UploadsConfig struct {
	DBPath          string
	RetentionDays   int
	CleanupSchedule string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir, err := filepath.Abs(getEnv("FUNDLENS_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:     dataDir,
		Port:        getEnvAsInt("GO_PORT", 8001),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxUploadMB: getEnvAsInt("MAX_UPLOAD_MB", 10),
		Calendar: CalendarConfig{
			DBPath:        getEnv("CALENDAR_DB", filepath.Join(dataDir, "calendar.db")),
			HolidayFile:   getEnv("NSE_HOLIDAY_FILE", ""),
			ExtraHolidays: getEnv("NSE_EXTRA_HOLIDAYS", ""),
			Dynamic:       getEnvAsBool("CALENDAR_DYNAMIC", true),
			CheckSchedule: getEnv("CALENDAR_CHECK_SCHEDULE", "0 0 9 * * *"),
		},
		Uploads: UploadsConfig{
			DBPath:          getEnv("HOLDINGS_DB", filepath.Join(dataDir, "holdings.db")),
			RetentionDays:   getEnvAsInt("UPLOAD_RETENTION_DAYS", 30),
			CleanupSchedule: getEnv("UPLOAD_CLEANUP_SCHEDULE", "0 30 3 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.Uploads.RetentionDays <= 0 {
		return fmt.Errorf("UPLOAD_RETENTION_DAYS must be positive, got %d", c.Uploads.RetentionDays)
	}
	if _, err := c.ExtraHolidayDates(); err != nil {
		return fmt.Errorf("invalid NSE_EXTRA_HOLIDAYS: %w", err)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, spec := range map[string]string{
		"CALENDAR_CHECK_SCHEDULE": c.Calendar.CheckSchedule,
		"UPLOAD_CLEANUP_SCHEDULE": c.Uploads.CleanupSchedule,
	} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}

	return nil
}

// ExtraHolidayDates parses the configured extra fallback holidays
func (c *Config) ExtraHolidayDates() ([]time.Time, error) {
	return utils.ParseDateList(c.Calendar.ExtraHolidays)
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// UploadRetention returns how long stored uploads are kept
func (c *Config) UploadRetention() time.Duration {
	return time.Duration(c.Uploads.RetentionDays) * 24 * time.Hour
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
