package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// Data directory
	DataDir string

	// Database
	DatabasePath string

	// Session processing
	ProcessInterval time.Duration // how often the session worker runs
	ProcessBatch    int           // max raw records fetched per pass
	StartupDelay    time.Duration // delay before the first pass after boot

	// Ingestion
	TranscriptsDir string // directory watched for transcript fragments ("" disables)

	// Resolution rules
	RulesPath string // optional YAML override for resolution rule tables

	// Debug settings
	DBLogQueries bool
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

// load reads configuration from environment variables
func load() *Config {
	dataDir := getEnv("ASH_DATA_DIR", "./data")
	appDir := filepath.Join(dataDir, "app", "ai-session-hub")

	return &Config{
		// Server
		Port: getEnvInt("PORT", 12400),
		Host: getEnv("HOST", "0.0.0.0"),
		Env:  getEnv("ENV", "development"),

		// Data
		DataDir:      dataDir,
		DatabasePath: filepath.Join(appDir, "sessions.sqlite"),

		// Processing
		ProcessInterval: getEnvDuration("ASH_PROCESS_INTERVAL", 5*time.Minute),
		ProcessBatch:    getEnvInt("ASH_PROCESS_BATCH", 500),
		StartupDelay:    getEnvDuration("ASH_STARTUP_DELAY", 10*time.Second),

		// Ingestion
		TranscriptsDir: getEnv("ASH_TRANSCRIPTS_DIR", ""),

		// Resolution rules
		RulesPath: getEnv("ASH_RULES_PATH", ""),

		// Debug
		DBLogQueries: getEnv("DB_LOG_QUERIES", "") == "1",
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
