package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sendkit/sendkit/pkg/observability"
	"github.com/sendkit/sendkit/pkg/vault"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Auth   AuthConfig
	Vault  VaultConfig

	PostgresURL string
	RedisAddr   string

	LogLevel observability.LogLevel
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	OpsPort string
}

// AuthConfig holds identity-provider configuration
type AuthConfig struct {
	// OIDCIssuerURL is the issuer whose userinfo endpoint verifies bearer
	// credentials.
	OIDCIssuerURL string
}

// VaultConfig holds the credential vault configuration
type VaultConfig struct {
	// SecretKey is the key-derivation secret. The process must not start
	// when it is absent or shorter than vault.MinSecretLength.
	SecretKey string
}

// LoadConfig loads configuration from environment variables and validates
// it. A validation error is fatal: the caller must refuse to serve.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SENDKIT_HOST", "0.0.0.0"),
			Port:            getEnv("SENDKIT_PORT", "8080"),
			ReadTimeout:     getEnvDuration("SENDKIT_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SENDKIT_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SENDKIT_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SENDKIT_SHUTDOWN_TIMEOUT", 30*time.Second),
			OpsPort:         getEnv("SENDKIT_OPS_PORT", "9090"),
		},
		Auth: AuthConfig{
			OIDCIssuerURL: getEnv("SENDKIT_OIDC_ISSUER_URL", ""),
		},
		Vault: VaultConfig{
			SecretKey: os.Getenv("SENDKIT_SECRET_KEY"),
		},
		PostgresURL: getEnv("SENDKIT_POSTGRES_URL", ""),
		RedisAddr:   getEnv("SENDKIT_REDIS_ADDR", "localhost:6379"),
		LogLevel:    observability.ParseLogLevel(getEnv("SENDKIT_LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for fatal problems
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.OpsPort == "" {
		return fmt.Errorf("ops port is required")
	}
	if c.Server.Port == c.Server.OpsPort {
		return fmt.Errorf("server port and ops port must be different")
	}

	if c.Auth.OIDCIssuerURL == "" {
		return fmt.Errorf("SENDKIT_OIDC_ISSUER_URL is required")
	}
	if c.PostgresURL == "" {
		return fmt.Errorf("SENDKIT_POSTGRES_URL is required")
	}

	// The vault must never initialize with a weak key.
	if len(c.Vault.SecretKey) < vault.MinSecretLength {
		return fmt.Errorf("SENDKIT_SECRET_KEY must be at least %d characters", vault.MinSecretLength)
	}

	return nil
}

// getEnv returns an environment variable or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
