package config

import (
	"os"
	"strconv"
	"strings"

	"pdf-diff/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort           string
	LogLevel             string
	OutputDir            string
	CompareMode          string
	WorkerCount          int
	FilePrefix           string
	ResultFile           string
	StrictLoad           bool
	APIToken             string
	SupabaseURL          string
	SupabaseKey          string
	SupabaseResultsTable string
	SupabaseBucket       string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:           getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		OutputDir:            getEnvOrDefault("OUTPUT_DIR", "./out"),
		CompareMode:          getEnvOrDefault("COMPARE_MODE", "structural"),
		WorkerCount:          getEnvIntOrDefault("WORKER_COUNT", 4),
		FilePrefix:           getEnvOrDefault("FILE_PREFIX", ""),
		ResultFile:           getEnvOrDefault("RESULT_FILE", "result.txt"),
		StrictLoad:           getEnvBoolOrDefault("STRICT_LOAD", false),
		APIToken:             getEnvOrDefault("API_TOKEN", ""),
		SupabaseURL:          getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:          getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseResultsTable: getEnvOrDefault("SUPABASE_RESULTS_TABLE", "comparison_results"),
		SupabaseBucket:       getEnvOrDefault("SUPABASE_BUCKET", ""),
	}
}

var _ domain.Config = (*AppConfig)(nil)

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetOutputDir returns the directory diff images and result logs go to
func (c *AppConfig) GetOutputDir() string {
	return c.OutputDir
}

// GetCompareMode returns the default comparison mode name
func (c *AppConfig) GetCompareMode() string {
	return c.CompareMode
}

// GetWorkerCount returns the worker pool size
func (c *AppConfig) GetWorkerCount() int {
	return c.WorkerCount
}

// GetFilePrefix returns the file name prefix filter
func (c *AppConfig) GetFilePrefix() string {
	return c.FilePrefix
}

// GetResultFile returns the result log file name, relative to the output dir
func (c *AppConfig) GetResultFile() string {
	return c.ResultFile
}

// GetStrictLoad reports whether PDFs are validated before comparison
func (c *AppConfig) GetStrictLoad() bool {
	return c.StrictLoad
}

// GetAPIToken returns the bearer token required by the HTTP API
func (c *AppConfig) GetAPIToken() string {
	return c.APIToken
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseResultsTable returns the table comparison results go to
func (c *AppConfig) GetSupabaseResultsTable() string {
	return c.SupabaseResultsTable
}

// GetSupabaseBucket returns the storage bucket for diff images
func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
