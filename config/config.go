package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the whole application configuration.
type Config struct {
	// Tracker API settings
	TrackerURL      string
	TrackerEmail    string
	TrackerAPIToken string
	// Host used when rendering ticket permalinks; defaults to TrackerURL.
	BrowseHost string

	// Default parent ticket key injected as campaign metadata when the
	// caller does not supply one.
	DefaultParent string

	// Per-call behaviour against the tracker.
	RequestTimeout time.Duration
	MaxRetries     int

	// Organization-specific non-working dates appended to the built-in
	// holiday table, comma-separated 2006-01-02 values.
	ExtraHolidays []time.Time

	// Optional path to a task catalog file overriding the embedded one.
	CatalogPath string
}

// LoadConfig reads the configuration from the environment, honouring a local
// .env file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TrackerURL:      strings.TrimRight(os.Getenv("TRACKER_URL"), "/"),
		TrackerEmail:    os.Getenv("TRACKER_EMAIL"),
		TrackerAPIToken: os.Getenv("TRACKER_API_TOKEN"),
		BrowseHost:      strings.TrimRight(getEnvWithDefault("TRACKER_BROWSE_HOST", os.Getenv("TRACKER_URL")), "/"),
		DefaultParent:   os.Getenv("TRACKER_DEFAULT_PARENT"),
		RequestTimeout:  getEnvAsDurationWithDefault("TRACKER_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvAsIntWithDefault("TRACKER_MAX_RETRIES", 2),
		CatalogPath:     os.Getenv("TASK_CATALOG_PATH"),
	}

	holidays, err := parseDates(os.Getenv("EXTRA_HOLIDAYS"))
	if err != nil {
		return nil, err
	}
	cfg.ExtraHolidays = holidays

	return cfg, nil
}

// Get an environment variable with a default value.
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Get an environment variable as an integer with a default value.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// Get an environment variable as a duration with a default value.
func getEnvAsDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseDates(s string) ([]time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []time.Time
	for _, part := range strings.Split(s, ",") {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
