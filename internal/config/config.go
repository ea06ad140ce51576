package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads .env (if present) so the Get* helpers see its values.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}
}

// GetEnv reads an environment variable or returns the provided default
func GetEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// RateLimitWindow returns the trailing interval during which a user may
// submit at most one route. Configured in whole minutes via
// RATE_LIMIT_MINUTES; defaults to 1 minute.
func RateLimitWindow() time.Duration {
	raw := GetEnv("RATE_LIMIT_MINUTES", "1")
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 {
		log.Printf("invalid RATE_LIMIT_MINUTES %q, using 1", raw)
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}
