package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend endpoints
	APIBaseURL     string
	UploadsBaseURL string

	// Pusher settings
	PusherKey     string
	PusherCluster string
	// PusherHost overrides the hosted endpoint, used against the stub server
	PusherHost string

	// Local session storage
	SessionDir string

	// Timings
	HTTPTimeout        int // seconds
	RescuePollInterval int // seconds

	Env string
}

func Load() *Config {
	// Load variables from a .env file when present
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	config := &Config{
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8080/api/v1"),
		UploadsBaseURL:     getEnv("UPLOADS_BASE_URL", "http://localhost:8080/uploads"),
		PusherKey:          getEnv("PUSHER_KEY", ""),
		PusherCluster:      getEnv("PUSHER_CLUSTER", "ap1"),
		PusherHost:         getEnv("PUSHER_HOST", ""),
		SessionDir:         getEnv("SESSION_DIR", defaultSessionDir()),
		HTTPTimeout:        getEnvAsInt("HTTP_TIMEOUT", 30),
		RescuePollInterval: getEnvAsInt("RESCUE_POLL_INTERVAL", 15),
		Env:                getEnv("ENV", "development"),
	}

	return config
}

// HTTPTimeoutDuration returns the request timeout as a time.Duration.
func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// RescuePollDuration returns the rescue list polling interval.
func (c *Config) RescuePollDuration() time.Duration {
	return time.Duration(c.RescuePollInterval) * time.Second
}

// RealtimeEnabled reports whether a pusher key was supplied. Absence of the
// key degrades to no-realtime rather than failing startup.
func (c *Config) RealtimeEnabled() bool {
	return c.PusherKey != ""
}

// UploadURL resolves a stored upload path like /uploads/avatars/x.png
// against the uploads base URL. Already-absolute URLs pass through.
func (c *Config) UploadURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.UploadsBaseURL + strings.TrimPrefix(path, "/uploads")
}

func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".floodwatch"
	}
	return filepath.Join(home, ".floodwatch")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
