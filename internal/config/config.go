// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Store backend selectors for SNAPSHOT_BACKEND.
const (
	BackendMySQL  = "mysql"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The database fields are only required when the
// MySQL snapshot backend is selected.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	DBUser     string // database username
	DBPass     string // database password (optional)
	DBHost     string // database host address
	DBPort     string // database port number
	DBName     string // database name
	JWTSecret  string // secret the identity provider signs access tokens with
	BcryptCost int    // bcrypt cost for stored user password hashes

	Backend     string // snapshot backend: mysql (default), redis or memory
	SnapshotKey string // snapshot key of the incidence grid

	GridRows        int // number of rows bootstrapped into the grid
	GridPositions   int // positions per row
	GridSubsections int // aggregation buckets per row
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:        must("APP_ENV"),
		Port:       must("APP_PORT"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: getenvInt("BCRYPT_COST", 10),

		Backend:     getenv("SNAPSHOT_BACKEND", BackendMySQL),
		SnapshotKey: getenv("GRID_SNAPSHOT_KEY", "grid:incidence"),

		GridRows:        getenvInt("GRID_ROWS", 20),
		GridPositions:   getenvInt("GRID_POSITIONS", 10),
		GridSubsections: getenvInt("GRID_SUBSECTIONS", 10),
	}
	if cfg.Backend == BackendMySQL {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getenvInt is like getenv() for integer variables.  Invalid values are
// fatal rather than silently replaced.
func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
