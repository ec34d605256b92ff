package app

import (
	"os"
	"strconv"
	"time"

	"github.com/astroline/identity/pkg/jwtx"
)

type Config struct {
	Issuer          string // Required: issuer claim for tokens
	TokenSecret     string // Optional: HS256 secret (inline; prefer the file variant)
	TokenSecretFile string // Optional: path to file holding the HS256 secret (default: ./token_secret)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 7d)
	ResetTokenTTL   time.Duration // Optional: reset token lifetime (default: 24h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./identity.db)
	PepperFile   string // Optional: path to pepper file for password hashing (default: ./pepper)

	CookieName   string // Optional: refresh cookie name (default: refresh_token)
	CookiePath   string // Optional: refresh cookie path (default: /)
	CookieDomain string // Optional: refresh cookie domain
	CookieSecure bool   // Optional: Secure bit on the refresh cookie (default: true)

	SMTPAddr string // Optional: host:port of the mail relay; empty logs email instead
	SMTPFrom string // Optional: From address on reset email

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:          getEnvOrDefault("IDENTITY_ISSUER", "identity"),
		TokenSecret:     os.Getenv("IDENTITY_TOKEN_SECRET"),
		TokenSecretFile: getEnvOrDefault("IDENTITY_TOKEN_SECRET_FILE", "token_secret"),

		AccessTokenTTL:  getEnvDurationOrDefault("IDENTITY_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTTL),
		RefreshTokenTTL: getEnvDurationOrDefault("IDENTITY_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTTL),
		ResetTokenTTL:   getEnvDurationOrDefault("IDENTITY_RESET_TOKEN_TTL", jwtx.DefaultResetTTL),

		DatabaseFile: getEnvOrDefault("IDENTITY_DATABASE_FILE", "identity.db"),
		PepperFile:   getEnvOrDefault("IDENTITY_PEPPER_FILE", "pepper"),

		CookieName:   getEnvOrDefault("IDENTITY_COOKIE_NAME", "refresh_token"),
		CookiePath:   getEnvOrDefault("IDENTITY_COOKIE_PATH", "/"),
		CookieDomain: os.Getenv("IDENTITY_COOKIE_DOMAIN"),
		CookieSecure: getEnvBoolOrDefault("IDENTITY_COOKIE_SECURE", true),

		SMTPAddr: os.Getenv("IDENTITY_SMTP_ADDR"),
		SMTPFrom: getEnvOrDefault("IDENTITY_SMTP_FROM", "no-reply@localhost"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
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

	// Integer values are taken as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
