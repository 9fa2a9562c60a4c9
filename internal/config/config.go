// Package config loads application configuration from the environment.
//
// All configuration is read ONCE at startup and passed down as plain values.
// Nothing in the rest of the codebase calls os.Getenv — services receive the
// settings they need through their constructors. This keeps tests simple
// (construct a Config literal) and makes the full set of knobs visible in
// one place.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs, read once at startup.
type Config struct {
	Port        int
	MongoURL    string   // connection string for the document store
	DBName      string   // database name within the Mongo deployment
	JWTSecret   string   // HMAC secret for signing identity tokens
	CORSOrigins []string // allowed cross-origin request sources
}

// Load reads configuration from the environment.
//
// A local .env file is loaded first if present (godotenv.Load ignores a
// missing file) so development doesn't require exporting variables by hand.
// Real deployments set the variables directly and ship no .env.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getEnvInt("PORT", 8080),
		MongoURL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "tutorial_hub"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: splitOrigins(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

// splitOrigins parses the comma-separated CORS_ORIGINS value.
// "https://a.example,https://b.example" → two origins; "*" → allow all.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}
