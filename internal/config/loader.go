package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration values for the recruitd service.
type Config struct {
	HTTPPort  int
	SQLiteDSN string
	PassTTL   time.Duration
}

// Load parses configuration values from the current process environment.
//
// A .env file next to the binary is folded in first when present, which keeps
// local development setups out of shell profiles. Every field has a default,
// so an empty environment yields a runnable configuration.
func Load() (Config, error) {
	// Missing .env files are the normal case in deployed environments.
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:recruitd.db?_foreign_keys=on",
		PassTTL:   14 * 24 * time.Hour,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("RECRUITD_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "RECRUITD_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("RECRUITD_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("RECRUITD_PASS_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "RECRUITD_PASS_TTL")
		} else {
			cfg.PassTTL = ttl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
