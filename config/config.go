package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every runtime setting, read from the environment (and an
// optional .env file).
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver   string
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SessionStore    string
	SessionLifetime time.Duration
	CookieSecure    bool
	RedisAddr       string

	UploadDir string
	PublicDir string

	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins []string
	BcryptCost  int
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load reads .env when present, then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:     getEnv("PORT", "5000"),
		GinMode:  os.Getenv("GIN_MODE"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "sqlite"),
		DBDSN:      os.Getenv("DB_DSN"),
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "mealmatch"),

		SessionStore:    getEnv("SESSION_STORE", "memory"),
		SessionLifetime: getDuration("SESSION_LIFETIME", 7*24*time.Hour),
		CookieSecure:    getBool("COOKIE_SECURE", false),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		PublicDir: getEnv("PUBLIC_DIR", "public"),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-events"),

		CORSOrigins: getList("CORS_ORIGINS"),
		BcryptCost:  getInt("BCRYPT_COST", bcrypt.DefaultCost),
	}
}
