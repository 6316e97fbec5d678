package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends understood by the loader.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// Config captures environment driven configuration values for the
// reservation service.
type Config struct {
	Storage          string
	SQLiteDSN        string
	LogLevel         string
	AvailabilityTTL  time.Duration
	AvailabilitySize int
}

// Load parses configuration values from the current process environment.
// A .env file in the working directory is read first when present; real
// environment variables win over file entries.
//
// The loader applies defaults for optional fields while validating the
// values it does receive.
func Load() (Config, error) {
	// Best effort: a missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		Storage:          StorageMemory,
		SQLiteDSN:        "file::memory:",
		LogLevel:         "info",
		AvailabilityTTL:  30 * time.Second,
		AvailabilitySize: 128,
	}

	invalid := make([]string, 0, 2)

	if storage := strings.ToLower(strings.TrimSpace(os.Getenv("RESERVATIONS_STORAGE"))); storage != "" {
		switch storage {
		case StorageMemory, StorageSQLite:
			cfg.Storage = storage
		default:
			invalid = append(invalid, "RESERVATIONS_STORAGE")
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RESERVATIONS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if level := strings.TrimSpace(os.Getenv("RESERVATIONS_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if ttlValue := strings.TrimSpace(os.Getenv("RESERVATIONS_AVAILABILITY_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "RESERVATIONS_AVAILABILITY_TTL")
		} else {
			cfg.AvailabilityTTL = ttl
		}
	}

	if sizeValue := strings.TrimSpace(os.Getenv("RESERVATIONS_AVAILABILITY_SIZE")); sizeValue != "" {
		size, err := strconv.Atoi(sizeValue)
		if err != nil || size <= 0 {
			invalid = append(invalid, "RESERVATIONS_AVAILABILITY_SIZE")
		} else {
			cfg.AvailabilitySize = size
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
