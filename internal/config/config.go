// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// devSessionSecret is only acceptable outside production.
const devSessionSecret = "dev-session-secret-change-in-production"

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN. When empty, signup and audit state is kept in memory.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DataDir holds countries.json and topics.json.
	DataDir string `mapstructure:"DATA_DIR"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// OTPReturnToClient enables the development fallback: when the email cannot be sent the OTP is
	// returned in the response body. Must not be true when Env is production.
	OTPReturnToClient bool `mapstructure:"OTP_RETURN_TO_CLIENT"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// SessionSecret signs the HS256 session cookie issued on login.
	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionTTL is the session cookie lifetime (e.g. "24h").
	SessionTTLRaw string `mapstructure:"SESSION_TTL"`
	// OTLPEndpoint is the OpenTelemetry collector endpoint. Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext connection to the collector.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// dotEnv holds every key read from .env, upper-cased, including ones Config has no field for.
	dotEnv map[string]string
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound
	dotEnv := make(map[string]string)
	for _, k := range v.AllKeys() {
		dotEnv[strings.ToUpper(k)] = v.GetString(k)
	}

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("OTP_RETURN_TO_CLIENT", false)
	v.SetDefault("APP_ENV", "")
	v.SetDefault("SESSION_SECRET", devSessionSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("LOG_LEVEL", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.OTPReturnToClient && cfg.IsProduction() {
		return nil, errors.New("config: OTP_RETURN_TO_CLIENT must not be true when APP_ENV=production")
	}
	if cfg.IsProduction() && (cfg.SessionSecret == "" || cfg.SessionSecret == devSessionSecret) {
		return nil, errors.New("config: SESSION_SECRET must be set when APP_ENV=production")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	cfg.dotEnv = dotEnv

	return &cfg, nil
}

// Resolver returns a credential Resolver that also sees the .env values read by Load, behind the
// process environment.
func (c *Config) Resolver() *Resolver {
	r := NewResolver()
	r.file = c.dotEnv
	return r
}

// IsProduction reports whether APP_ENV is "production" (case-insensitive).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// SessionTTL parses SessionTTLRaw as a time.Duration. Returns 24h if unset or invalid.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.SessionTTLRaw)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
