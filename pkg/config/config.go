package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	Environment string

	APIBaseURL      string
	NotificationURL string
	APITimeout      time.Duration

	SessionStore               string // "file" or "firestore"
	SessionDir                 string
	FirebaseProject            string
	FirebaseServiceAccountPath string
	CookieSecure               bool
	AllowedOrigins             []string

	LoginRateLimit int // attempts per minute per IP

	CLISessionDir string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:                 getEnv("SERVER_PORT", "3000"),
		Environment:                getEnv("ENVIRONMENT", "development"),
		APIBaseURL:                 getEnv("API_BASE_URL", "http://localhost:8080"),
		NotificationURL:            getEnv("NOTIFICATION_URL", "ws://localhost:8080/ws"),
		APITimeout:                 time.Duration(getEnvAsInt64("API_TIMEOUT_SECONDS", 15)) * time.Second,
		SessionStore:               getEnv("SESSION_STORE", "file"),
		SessionDir:                 getEnv("SESSION_DIR", "./data/sessions"),
		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		CookieSecure:               getEnvAsBool("COOKIE_SECURE", false),
		AllowedOrigins:             getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		LoginRateLimit:             int(getEnvAsInt64("LOGIN_RATE_LIMIT", 10)),
		CLISessionDir:              getEnv("CLI_SESSION_DIR", defaultCLISessionDir()),
	}

	return config, nil
}

func defaultCLISessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trocagames"
	}
	return filepath.Join(home, ".trocagames")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
