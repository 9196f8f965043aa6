// backend/internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RedisAddr     string
	RedisPassword string

	JWTSecret     string
	AdminAccounts []string
	CORSOrigins   []string

	TextGenAPIKey  string
	TextGenBaseURL string
	TextGenModel   string

	AttemptReapInterval time.Duration
	AttemptReapGrace    time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := &Config{
		Addr:                GetEnv("ADDR", ":8080"),
		DBDriver:            GetEnv("DB_DRIVER", "postgres"),
		DBPath:              GetEnv("DB_PATH", "quiz.db"),
		DBHost:              GetEnv("DB_HOST", "localhost"),
		DBPort:              GetEnv("DB_PORT", "5432"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              GetEnv("DB_NAME", "quiz"),
		RedisAddr:           GetEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		AdminAccounts:       splitList(os.Getenv("ADMIN_ACCOUNTS")),
		CORSOrigins:         splitList(GetEnv("CORS_ORIGINS", "http://localhost:3000")),
		TextGenAPIKey:       os.Getenv("TEXTGEN_API_KEY"),
		TextGenBaseURL:      os.Getenv("TEXTGEN_BASE_URL"),
		TextGenModel:        GetEnv("TEXTGEN_MODEL", "gpt-4o-mini"),
		AttemptReapInterval: getDuration("ATTEMPT_REAP_INTERVAL", time.Hour),
		AttemptReapGrace:    getDuration("ATTEMPT_REAP_GRACE", 24*time.Hour),
	}

	if cfg.JWTSecret == "" {
		log.Printf("Warning: JWT_SECRET is not set, websocket tickets are disabled")
	}
	return cfg
}

// GetEnv retrieves an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
