package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, loaded from the environment
// with an optional .env file.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	Locale        string
	LogMode       string
}

// Load reads configuration from the environment. A missing .env file is
// not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "surveysync"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Locale:        getEnv("LOCALE", "en"),
		LogMode:       getEnv("LOG_MODE", "dev"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
