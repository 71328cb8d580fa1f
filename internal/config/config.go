// Package config loads the adapter configuration from environment variables.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: HTTP port (default: 8080)
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//   - TLS_CERT_FILE, TLS_KEY_FILE: serve HTTPS when both are set
//   - TRUSTED_PROXIES: comma-separated IPs or CIDRs whose X-Forwarded-For is believed
//   - ESIGNATURE_PROVIDER: active e-signature provider (default: adobe-sign)
//   - ID_STORE: envelope id mapping backend, memory, redis or postgres (default: memory)
//   - TOKEN_STORE: access token cache, memory or redis (default: memory)
//   - STATUS_SYNC_SCHEDULE: cron spec for the periodic status sync, empty disables it
//
// Redis / PostgreSQL:
//   - REDIS_ADDRESS (default: localhost:6379), REDIS_PASSWORD, REDIS_DB (0-15), REDIS_POOL_SIZE (default: 10)
//   - DATABASE_URL: PostgreSQL connection string, required when ID_STORE=postgres
//   - CONFIG_ENCRYPTION_KEY: passphrase for tokens written to redis, required when TOKEN_STORE=redis
//
// Adobe Sign (ADOBE_SIGN_ prefix):
//   - CLIENT_ID, CLIENT_SECRET, REFRESH_TOKEN: OAuth2 credentials (required)
//   - BASE_URL (default: https://api.na1.adobesign.com), API_VERSION (default: v6)
//   - WEBHOOK_URL, WEBHOOK_SECRET
//   - CONNECTION_TIMEOUT (default: 30s), READ_TIMEOUT (default: 60s)
//   - MAX_RETRIES (default: 3, 0-10), RETRY_BACKOFF (default: 2s)
//   - TOKEN_EXPIRATION seconds (default: 3600, 300-86400)
//   - DEFAULT_EMAIL_SUBJECT, DEFAULT_EMAIL_MESSAGE
//   - ENABLE_EMBEDDED_SIGNING (default: false), RETURN_URL
//   - ENABLE_DOCUMENT_RETENTION (default: true), DOCUMENT_RETENTION_DAYS (default: 365, 1-3650)
//   - ENABLE_REMINDERS (default: true), REMINDER_FREQUENCY_DAYS (default: 3, 1-30)
//   - RATE_LIMIT_RPS (default: 0, disabled), RATE_LIMIT_BURST
//
// Durations accept Go duration syntax ("45s") or a plain number of seconds.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"esign-adapter/internal/common/errors"
)

const (
	// ProviderAdobeSign is the ESIGNATURE_PROVIDER value that enables the Adobe Sign adapter.
	ProviderAdobeSign = "adobe-sign"

	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds the process configuration
type Config struct {
	Port        string
	LogLevel    string
	TLSCertFile string
	TLSKeyFile  string
	// TrustedProxies lists the reverse proxies allowed to set X-Forwarded-For.
	TrustedProxies []string

	ESignatureProvider string
	IDStore            string
	TokenStore         string
	StatusSyncSchedule string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	DatabaseURL   string
	EncryptionKey string

	AdobeSign AdobeSignConfig
}

// AdobeSignConfig holds the Adobe Sign connection and behaviour settings.
// It is read once at startup and not modified afterwards.
type AdobeSignConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	BaseURL      string
	APIVersion   string

	WebhookURL    string
	WebhookSecret string

	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
	// TokenExpiration is the access token lifetime in seconds assumed when
	// the token endpoint omits expires_in.
	TokenExpiration int

	DefaultEmailSubject   string
	DefaultEmailMessage   string
	EnableEmbeddedSigning bool
	ReturnURL             string

	EnableDocumentRetention bool
	DocumentRetentionDays   int
	EnableReminders         bool
	ReminderFrequencyDays   int

	RateLimitRPS   float64
	RateLimitBurst int
}

// DefaultAdobeSignConfig returns the defaults with no credentials
func DefaultAdobeSignConfig() AdobeSignConfig {
	return AdobeSignConfig{
		BaseURL:                 "https://api.na1.adobesign.com",
		APIVersion:              "v6",
		ConnectionTimeout:       30 * time.Second,
		ReadTimeout:             60 * time.Second,
		MaxRetries:              3,
		RetryBackoff:            2 * time.Second,
		TokenExpiration:         3600,
		DefaultEmailSubject:     "Please sign this document",
		DefaultEmailMessage:     "Please review and sign the attached document(s).",
		EnableDocumentRetention: true,
		DocumentRetentionDays:   365,
		EnableReminders:         true,
		ReminderFrequencyDays:   3,
	}
}

// TokenLifetime returns TokenExpiration as a duration
func (c AdobeSignConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenExpiration) * time.Second
}

// RESTBaseURL returns the agreements API root, e.g. https://api.na1.adobesign.com/api/rest/v6
func (c AdobeSignConfig) RESTBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api/rest/" + c.APIVersion
}

// TokenURL returns the OAuth2 refresh endpoint
func (c AdobeSignConfig) TokenURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/oauth/token"
}

// Validate checks required credentials and value ranges
func (c AdobeSignConfig) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"ADOBE_SIGN_CLIENT_ID", c.ClientID},
		{"ADOBE_SIGN_CLIENT_SECRET", c.ClientSecret},
		{"ADOBE_SIGN_REFRESH_TOKEN", c.RefreshToken},
		{"ADOBE_SIGN_BASE_URL", c.BaseURL},
		{"ADOBE_SIGN_API_VERSION", c.APIVersion},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.ConfigError(fmt.Sprintf("%s is required", r.name))
		}
	}

	ranges := []struct {
		name     string
		value    int
		min, max int
	}{
		{"ADOBE_SIGN_MAX_RETRIES", c.MaxRetries, 0, 10},
		{"ADOBE_SIGN_TOKEN_EXPIRATION", c.TokenExpiration, 300, 86400},
		{"ADOBE_SIGN_DOCUMENT_RETENTION_DAYS", c.DocumentRetentionDays, 1, 3650},
		{"ADOBE_SIGN_REMINDER_FREQUENCY_DAYS", c.ReminderFrequencyDays, 1, 30},
	}
	for _, r := range ranges {
		if r.value < r.min || r.value > r.max {
			return errors.ConfigError(fmt.Sprintf("%s must be between %d and %d, got %d", r.name, r.min, r.max, r.value))
		}
	}

	if c.ConnectionTimeout <= 0 || c.ReadTimeout <= 0 {
		return errors.ConfigError("ADOBE_SIGN_CONNECTION_TIMEOUT and ADOBE_SIGN_READ_TIMEOUT must be positive")
	}
	if c.RetryBackoff < 0 {
		return errors.ConfigError("ADOBE_SIGN_RETRY_BACKOFF must not be negative")
	}
	if c.RateLimitRPS < 0 {
		return errors.ConfigError("ADOBE_SIGN_RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

// Load reads the configuration from the environment. Call Validate before use.
func Load() *Config {
	defaults := DefaultAdobeSignConfig()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		TLSCertFile:        getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:         getEnv("TLS_KEY_FILE", ""),
		TrustedProxies:     getListEnv("TRUSTED_PROXIES"),
		ESignatureProvider: getEnv("ESIGNATURE_PROVIDER", ProviderAdobeSign),
		IDStore:            strings.ToLower(getEnv("ID_STORE", StoreMemory)),
		TokenStore:         strings.ToLower(getEnv("TOKEN_STORE", StoreMemory)),
		StatusSyncSchedule: getEnv("STATUS_SYNC_SCHEDULE", ""),

		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 10),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		EncryptionKey: getEnv("CONFIG_ENCRYPTION_KEY", ""),

		AdobeSign: AdobeSignConfig{
			ClientID:     getEnv("ADOBE_SIGN_CLIENT_ID", ""),
			ClientSecret: getEnv("ADOBE_SIGN_CLIENT_SECRET", ""),
			RefreshToken: getEnv("ADOBE_SIGN_REFRESH_TOKEN", ""),
			BaseURL:      getEnv("ADOBE_SIGN_BASE_URL", defaults.BaseURL),
			APIVersion:   getEnv("ADOBE_SIGN_API_VERSION", defaults.APIVersion),

			WebhookURL:    getEnv("ADOBE_SIGN_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("ADOBE_SIGN_WEBHOOK_SECRET", ""),

			ConnectionTimeout: getDurationEnv("ADOBE_SIGN_CONNECTION_TIMEOUT", defaults.ConnectionTimeout),
			ReadTimeout:       getDurationEnv("ADOBE_SIGN_READ_TIMEOUT", defaults.ReadTimeout),
			MaxRetries:        getIntEnv("ADOBE_SIGN_MAX_RETRIES", defaults.MaxRetries),
			RetryBackoff:      getDurationEnv("ADOBE_SIGN_RETRY_BACKOFF", defaults.RetryBackoff),
			TokenExpiration:   getIntEnv("ADOBE_SIGN_TOKEN_EXPIRATION", defaults.TokenExpiration),

			DefaultEmailSubject:   getEnv("ADOBE_SIGN_DEFAULT_EMAIL_SUBJECT", defaults.DefaultEmailSubject),
			DefaultEmailMessage:   getEnv("ADOBE_SIGN_DEFAULT_EMAIL_MESSAGE", defaults.DefaultEmailMessage),
			EnableEmbeddedSigning: getBoolEnv("ADOBE_SIGN_ENABLE_EMBEDDED_SIGNING", defaults.EnableEmbeddedSigning),
			ReturnURL:             getEnv("ADOBE_SIGN_RETURN_URL", ""),

			EnableDocumentRetention: getBoolEnv("ADOBE_SIGN_ENABLE_DOCUMENT_RETENTION", defaults.EnableDocumentRetention),
			DocumentRetentionDays:   getIntEnv("ADOBE_SIGN_DOCUMENT_RETENTION_DAYS", defaults.DocumentRetentionDays),
			EnableReminders:         getBoolEnv("ADOBE_SIGN_ENABLE_REMINDERS", defaults.EnableReminders),
			ReminderFrequencyDays:   getIntEnv("ADOBE_SIGN_REMINDER_FREQUENCY_DAYS", defaults.ReminderFrequencyDays),

			RateLimitRPS:   getFloatEnv("ADOBE_SIGN_RATE_LIMIT_RPS", 0),
			RateLimitBurst: getIntEnv("ADOBE_SIGN_RATE_LIMIT_BURST", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping empty entries
func getListEnv(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}

// getBoolEnv accepts anything strconv.ParseBool does; other values fall back to the default.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv returns -1 for a set but unparsable value so Validate rejects it.
func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return parsed
}

func getFloatEnv(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return -1
	}
	return parsed
}

// getDurationEnv accepts "45s"-style durations or a bare number of seconds.
// An unparsable value yields -1ns so Validate rejects it.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return -1
}

// Validate checks the process configuration. Adobe Sign settings are only
// checked when Adobe Sign is the selected provider.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return errors.ConfigError("PORT must be a valid port number between 1 and 65535")
	}

	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.ConfigError("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}

	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}

	switch c.IDStore {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.ConfigError("DATABASE_URL is required when ID_STORE=postgres")
		}
	default:
		return errors.ConfigError(fmt.Sprintf("ID_STORE must be one of memory, redis, postgres, got %q", c.IDStore))
	}

	switch c.TokenStore {
	case StoreMemory:
	case StoreRedis:
		if c.EncryptionKey == "" {
			return errors.ConfigError("CONFIG_ENCRYPTION_KEY is required when TOKEN_STORE=redis")
		}
	default:
		return errors.ConfigError(fmt.Sprintf("TOKEN_STORE must be memory or redis, got %q", c.TokenStore))
	}

	if c.UsesRedis() {
		if c.RedisAddress == "" {
			return errors.ConfigError("REDIS_ADDRESS is required when a redis store is selected")
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			return errors.ConfigError("REDIS_DB must be a number between 0 and 15")
		}
		if c.RedisPoolSize < 1 {
			return errors.ConfigError("REDIS_POOL_SIZE must be a positive number")
		}
	}

	if c.ESignatureProvider == ProviderAdobeSign {
		return c.AdobeSign.Validate()
	}
	return nil
}

// UsesRedis reports whether any store is backed by redis
func (c *Config) UsesRedis() bool {
	return c.IDStore == StoreRedis || c.TokenStore == StoreRedis
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address becomes a
// single-host prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, value := range c.TrustedProxies {
		if prefix, err := netip.ParsePrefix(value); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, errors.ConfigError(fmt.Sprintf("TRUSTED_PROXIES entry %q is not an IP address or CIDR", value))
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
