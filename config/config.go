package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env   string
	Port  string
	DBURL string

	RedisAddr     string
	RedisPassword string

	AccessTokenSecret     string
	AccessExpiryMin       int
	RefreshExpiryMin      int
	VerificationExpiryMin int
	ResetExpiryMin        int

	MaxDevicesPerUser int

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	SenderEmail string
	FrontendURL string
}

func Load() *Config {
	return &Config{
		Env:   getEnv("ENV", "development"),
		Port:  getEnv("PORT", "8080"),
		DBURL: mustGetEnv("DB_URL"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		AccessTokenSecret:     mustGetEnv("ACCESS_TOKEN_SECRET"),
		AccessExpiryMin:       getEnvAsInt("ACCESS_TOKEN_EXPIRY", 15),
		RefreshExpiryMin:      getEnvAsInt("REFRESH_TOKEN_EXPIRY", 10080),
		VerificationExpiryMin: getEnvAsInt("VERIFICATION_TOKEN_EXPIRY", 10),
		ResetExpiryMin:        getEnvAsInt("RESET_TOKEN_EXPIRY", 10),

		MaxDevicesPerUser: getEnvAsInt("MAX_DEVICES_PER_USER", 2),

		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SenderEmail: getEnv("SENDER_EMAIL", "no-reply@localhost"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

func (c *Config) AccessTokenExpiry() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

func (c *Config) RefreshTokenExpiry() time.Duration {
	return time.Duration(c.RefreshExpiryMin) * time.Minute
}

func (c *Config) VerificationTokenExpiry() time.Duration {
	return time.Duration(c.VerificationExpiryMin) * time.Minute
}

func (c *Config) ResetTokenExpiry() time.Duration {
	return time.Duration(c.ResetExpiryMin) * time.Minute
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
