package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Port         string
	DatabasePath string
	UseHTTPS     bool

	LogLevel  string
	LogFormat string // "text" or "json"

	SessionLifetime int // seconds

	// Optional OIDC SSO. SSO routes are only registered when IssuerURL is set.
	OIDC OIDCConfig
}

// OIDCConfig holds OpenID Connect provider settings for the SSO login path.
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

// Enabled reports whether an OIDC provider is configured.
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "cargoflow.db"),
		UseHTTPS:        getEnv("USE_HTTPS", "false") == "true",
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		SessionLifetime: getEnvInt("SESSION_LIFETIME", 3600),
		OIDC: OIDCConfig{
			IssuerURL:    os.Getenv("OIDC_ISSUER_URL"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			CallbackURL:  os.Getenv("OIDC_CALLBACK_URL"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
