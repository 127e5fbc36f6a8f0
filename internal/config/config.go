package config

import (
	"log"
	"os"
	"strconv"
)

// Config carries the process-level settings read once at startup.
// Redis, cache and rate-limit settings load separately because those
// subsystems degrade to no-ops when unconfigured; everything here is
// required.
type Config struct {
	AppPort string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int

	AMQPURL string

	BcryptCost int
}

// Load reads the environment and fails fast on anything the server
// cannot run without.
func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "8080"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: getenv("DB_HOST", "localhost"),
		DBPort: getenv("DB_PORT", "3306"),
		DBName: must("DB_NAME"),

		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TTL_MIN", 15),
		RefreshTTLDays: mustInt("REFRESH_TTL_DAYS", 14),

		AMQPURL: os.Getenv("AMQP_URL"),

		BcryptCost: mustInt("BCRYPT_COST", 12),
	}
}

// must aborts startup on a missing required variable.
func must(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("config: %s is required", key)
	}
	return v
}

func mustInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s must be an integer, got %q", key, v)
	}
	return n
}
