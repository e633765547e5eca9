package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	CORSOrigin    string
	ReposDir      string
	MigrationsDir string
	// Postgres holding the history service's authorship ranges; empty disables it
	DatabaseURL string
	// Redis presence roster; empty disables it
	RedisURL    string
	PresenceTTL time.Duration
	// Snapshots kept per open document
	HistoryCapacity int
}

func Load() Config {
	return Config{
		Addr:            getenv("API_ADDR", ":8787"),
		CORSOrigin:      getenv("CHRONICLE_CORS_ORIGIN", "*"),
		ReposDir:        getenv("CHRONICLE_REPOS_DIR", "./data/repos"),
		MigrationsDir:   getenv("CHRONICLE_MIGRATIONS_DIR", "./db/migrations"),
		DatabaseURL:     getenv("DATABASE_URL", ""),
		RedisURL:        getenv("REDIS_URL", ""),
		PresenceTTL:     time.Duration(getenvInt("CHRONICLE_PRESENCE_TTL_SECONDS", 120)) * time.Second,
		HistoryCapacity: getenvInt("CHRONICLE_HISTORY_CAPACITY", 240),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
