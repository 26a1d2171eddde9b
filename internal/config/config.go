// Package config provides application configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// Backend
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Session persistence: "file", "redis" or "memory".
	SessionBackend string
	SessionPath    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// Local transcript archive; empty disables archiving.
	ArchivePath string

	// Devserver
	DevServerAddr string
}

func Load() Config {
	dataDir := getEnv("PALONA_DATA_DIR", defaultDataDir())

	timeout := 30 * time.Second
	if v := os.Getenv("PALONA_HTTP_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	return Config{
		APIBaseURL:  getEnv("PALONA_API_BASE_URL", "http://localhost:8000"),
		HTTPTimeout: timeout,

		SessionBackend: getEnv("PALONA_SESSION_BACKEND", "file"),
		SessionPath:    getEnv("PALONA_SESSION_PATH", filepath.Join(dataDir, "session_id")),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,

		ArchivePath: getEnv("PALONA_ARCHIVE_PATH", filepath.Join(dataDir, "transcripts.db")),

		DevServerAddr: getEnv("PALONA_DEVSERVER_ADDR", ":8000"),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".palona"
	}
	return filepath.Join(home, ".palona")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
