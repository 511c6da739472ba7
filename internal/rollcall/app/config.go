package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer         string // Issuer name embedded in otpauth:// provisioning URIs
	BootstrapToken string // Optional: token required to perform bootstrap

	DatabaseFile         string        // Path to SQLite database file (default: ./rollcall.db)
	PepperFile           string        // Path to the password hashing pepper file (default: ./pepper)
	QRCodeDir            string        // Directory for provisioning QR images (default: ./qrcodes)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // QR image sweep interval (default: 1h)
}

func LoadConfig() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	return Config{
		Issuer:               getEnvOrDefault("ROLLCALL_ISSUER", "rollcall"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		DatabaseFile:         getEnvOrDefault("ROLLCALL_DATABASE_FILE", "rollcall.db"),
		PepperFile:           getEnvOrDefault("ROLLCALL_PEPPER_FILE", "pepper"),
		QRCodeDir:            getEnvOrDefault("ROLLCALL_QRCODE_DIR", "qrcodes"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
