package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bizhub/backend/internal/domain"
)

type Config struct {
	Port              string
	AllowedOrigin     string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	SessionSecret     string
	SessionTTLMinutes int
	SeedFile          string
	BusinessName      string
	BusinessAddress   string
	BusinessPhone     string
	Timezone          string
	LogMode           string
	LogLevel          string
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	sessionTTL, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "720"))
	if err != nil || sessionTTL < 1 {
		sessionTTL = 720
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		AllowedOrigin:     getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		SessionSecret:     strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		SessionTTLMinutes: sessionTTL,
		SeedFile:          strings.TrimSpace(os.Getenv("SEED_FILE")),
		BusinessName:      getEnv("BUSINESS_NAME", "Business Name"),
		BusinessAddress:   getEnv("BUSINESS_ADDRESS", "123 Business Street, Lagos"),
		BusinessPhone:     getEnv("BUSINESS_PHONE", "+234 xxx xxx xxxx"),
		Timezone:          getEnv("TIMEZONE", "Africa/Lagos"),
		LogMode:           strings.ToLower(getEnv("LOG_MODE", "production")),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) BusinessProfile() domain.BusinessProfile {
	return domain.BusinessProfile{
		Name:    c.BusinessName,
		Address: c.BusinessAddress,
		Phone:   c.BusinessPhone,
	}
}

// Location resolves Timezone, falling back to UTC when the zone database
// does not know it.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
