package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPass             string
	DBName             string
	ServerPort         string
	RedisURL           string
	Env                string
	RedisTTL           time.Duration
	MaxContentLength   int
	RateLimitPerMinute int
	AccessWindowStart  int
	AccessWindowEnd    int
}

func LoadConfig() Config {
	ttlStr := getEnv("REDIS_TTL", "1m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = time.Minute
	}

	return Config{
		DBHost:             getEnv("DB_HOST", "postgres"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPass:             getEnv("DB_PASSWORD", "password"),
		DBName:             getEnv("DB_NAME", "db_messenger"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		RedisURL:           getEnv("REDIS_URL", "redis:6379"),
		Env:                getEnv("ENV", "dev"),
		RedisTTL:           ttl,
		MaxContentLength:   getEnvAsInt("MAX_CONTENT_LENGTH", 5000),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 5),
		AccessWindowStart:  getEnvAsInt("ACCESS_WINDOW_START", -1),
		AccessWindowEnd:    getEnvAsInt("ACCESS_WINDOW_END", -1),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

// AccessWindowEnabled reports whether the write-access time window is
// configured. Both bounds must be valid hours for the gate to apply.
func (c *Config) AccessWindowEnabled() bool {
	return c.AccessWindowStart >= 0 && c.AccessWindowStart < 24 &&
		c.AccessWindowEnd > 0 && c.AccessWindowEnd <= 24
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, c.DBPort,
	)
}
