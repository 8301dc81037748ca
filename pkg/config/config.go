package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quarrybuild/quarry/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Workspace WorkspaceConfig

	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// WorkspaceConfig holds scope manifest workspace configuration
type WorkspaceConfig struct {
	// Dir is the directory containing scope manifests.
	Dir string
	// RescanSchedule is a cron expression for the fallback workspace rescan.
	RescanSchedule string
	// HistoryPath is the SQLite file for the resolution history, or
	// ":memory:" for an ephemeral store.
	HistoryPath string
	// LogFile is where the daemon tees its log output so the diagnostics
	// endpoint has something to tail. Empty disables the tee.
	LogFile string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("QUARRY_HOST", "0.0.0.0"),
			Port:            getEnv("QUARRY_PORT", "8080"),
			ReadTimeout:     getEnvDuration("QUARRY_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("QUARRY_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("QUARRY_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("QUARRY_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("QUARRY_HEALTH_PORT", "9090"),
		},
		Workspace: WorkspaceConfig{
			Dir:            getEnv("QUARRY_WORKSPACE_DIR", ""),
			RescanSchedule: getEnv("QUARRY_RESCAN_SCHEDULE", "@every 5m"),
			HistoryPath:    getEnv("QUARRY_HISTORY_PATH", "quarry-history.db"),
			LogFile:        getEnv("QUARRY_LOG_FILE", "quarryd.log"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       parseLogLevel(getEnv("QUARRY_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("QUARRY_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Workspace.Dir == "" {
		return fmt.Errorf("workspace directory is required (set QUARRY_WORKSPACE_DIR)")
	}
	if info, err := os.Stat(c.Workspace.Dir); err != nil {
		return fmt.Errorf("workspace directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("workspace path %s is not a directory", c.Workspace.Dir)
	}
	if c.Workspace.RescanSchedule == "" {
		return fmt.Errorf("rescan schedule is required")
	}
	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
