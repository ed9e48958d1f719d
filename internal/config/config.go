// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration values for the API server and the CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins Origins `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`

	// StorageDriver selects where the trip snapshot is kept.
	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"sqlite"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/trips.db"`

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// StorageKey names the blob the snapshot is stored under.
	StorageKey string `envconfig:"STORAGE_KEY" default:"travel-planner-trips"`

	// SaveTimeout bounds a single snapshot write.
	SaveTimeout time.Duration `envconfig:"SAVE_TIMEOUT" default:"5s"`

	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// AMapKey enables place search, reverse geocoding and static maps.
	AMapKey string `envconfig:"AMAP_KEY"`

	// AMapBaseURL is the AMap REST endpoint.
	AMapBaseURL string `envconfig:"AMAP_BASE_URL" default:"https://restapi.amap.com"`
}

// Origins is a comma-separated list of origins. Entries are trimmed and
// empty entries dropped.
type Origins []string

// Decode implements envconfig.Decoder.
func (o *Origins) Decode(value string) error {
	var out Origins
	for _, part := range strings.Split(value, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	*o = out
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	var missing []string
	switch cfg.StorageDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("config.Load: unknown STORAGE_DRIVER %q (want %s, %s or %s)",
			cfg.StorageDriver, DriverSQLite, DriverPostgres, DriverMemory)
	}
	if cfg.StorageKey == "" {
		missing = append(missing, "STORAGE_KEY")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
