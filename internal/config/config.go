// Package config loads the gateway's runtime configuration from the
// environment. It reads os.Getenv only; main loads an optional .env file
// through godotenv before calling Load.
package config

import (
	"fmt"
	"os"
)

// Config holds every environment-derived setting the gateway needs to
// connect to its three collaborators (ClickHouse, the object store, the
// tenant/auth Postgres database) plus process-level flags.
type Config struct {
	ClickHouseURL      string
	ClickHouseUser     string
	ClickHousePassword string

	StorageAccessKeyID     string
	StorageSecretAccessKey string
	StorageBucket          string
	StorageEndpoint        string

	DatabaseDirectURL string

	// SkipUpload disables all batch writes to ClickHouse; presigned upload
	// URLs are still issued. Intended for local development and integration
	// tests.
	SkipUpload bool
}

var requiredVars = []string{
	"CLICKHOUSE_URL",
	"CLICKHOUSE_USER",
	"CLICKHOUSE_PASSWORD",
	"STORAGE_ACCESS_KEY_ID",
	"STORAGE_SECRET_ACCESS_KEY",
	"STORAGE_BUCKET",
	"STORAGE_ENDPOINT",
	"DATABASE_DIRECT_URL",
}

// Load reads Config from the process environment. It fails fast, naming the
// first missing variable, rather than starting the gateway half-configured.
func Load() (*Config, error) {
	values := make(map[string]string, len(requiredVars))
	for _, name := range requiredVars {
		v := os.Getenv(name)
		if v == "" {
			return nil, fmt.Errorf("config: required environment variable %s is not set", name)
		}
		values[name] = v
	}

	return &Config{
		ClickHouseURL:          values["CLICKHOUSE_URL"],
		ClickHouseUser:         values["CLICKHOUSE_USER"],
		ClickHousePassword:     values["CLICKHOUSE_PASSWORD"],
		StorageAccessKeyID:     values["STORAGE_ACCESS_KEY_ID"],
		StorageSecretAccessKey: values["STORAGE_SECRET_ACCESS_KEY"],
		StorageBucket:          values["STORAGE_BUCKET"],
		StorageEndpoint:        values["STORAGE_ENDPOINT"],
		DatabaseDirectURL:      values["DATABASE_DIRECT_URL"],
		SkipUpload:             os.Getenv("SKIP_UPLOAD") == "true",
	}, nil
}

// TableNames are the four fixed ClickHouse destination tables. Unlike the
// rest of Config these are not environment-configurable: the schema is part
// of the gateway's contract with the column store.
const (
	MetricsTable = "mlop_metrics"
	LogsTable    = "mlop_logs"
	DataTable    = "mlop_data"
	FilesTable   = "mlop_files"
)

// FlushConfigValues controls how a batcher accumulates rows before writing them to
// ClickHouse. All four row types share the same tuning.
type FlushConfigValues struct {
	BatchSize     int
	FlushInterval int // seconds
}

// DefaultFlush mirrors the original service's flush configuration: large
// batches, a short interval, so that a busy tenant fills batches by size and
// a quiet one still flushes every few seconds.
func DefaultFlush() FlushConfigValues {
	return FlushConfigValues{BatchSize: 500_000, FlushInterval: 5}
}
