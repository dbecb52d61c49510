package infrastructures

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	PORT              string
	DATABASE_URL      string
	REDIS_ADDRESS     string
	REDIS_PASSWORD    string
	JWT_SECRET        string
	ACCESS_TOKEN_TTL  time.Duration
	REFRESH_TOKEN_TTL time.Duration
	STAMP_CODE_TTL    time.Duration
	TICKET_TTL        time.Duration
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	Config = &AppConfig{
		PORT:              getEnv("PORT", "8080"),
		DATABASE_URL:      os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:     os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:    os.Getenv("REDIS_PASSWORD"),
		JWT_SECRET:        os.Getenv("JWT_SECRET"),
		ACCESS_TOKEN_TTL:  getDurationMinutes("ACCESS_TOKEN_TTL_MINUTES", 15),
		REFRESH_TOKEN_TTL: getDurationMinutes("REFRESH_TOKEN_TTL_MINUTES", 60*24*30),
		STAMP_CODE_TTL:    getDurationMinutes("STAMP_CODE_TTL_MINUTES", 15),
		TICKET_TTL:        getDurationMinutes("TICKET_TTL_MINUTES", 60),
	}

	return Config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDurationMinutes(key string, fallback int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}
