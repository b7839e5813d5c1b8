// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// SessionTokenConfig provides JWT settings for chat session tokens.
type SessionTokenConfig interface {
	GetSessionTokenSecret() string
	GetSessionTokenTTL() time.Duration
}

// AdminConfig provides JWT settings for the operator monitoring endpoints.
type AdminConfig interface {
	GetAdminTokenSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// ChatConfig provides settings for the dialogue controller.
type ChatConfig interface {
	GetGreetingDelay() time.Duration
	GetReplyTypingDelay() time.Duration
	GetSessionIdleTTL() time.Duration
	GetCurrencySymbol() string
	GetServiceArea() string
	GetAgencyName() string
}

// EmailConfig provides settings for SMTP email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetOperatorEmail() string
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFollowUpDelay() time.Duration
}

// AnalyticsConfig provides settings for external analytics collectors.
type AnalyticsConfig interface {
	GetGA4MeasurementID() string
	GetGA4APISecret() string
	GetGA4Endpoint() string
	IsGA4Enabled() bool
	GetAnalyticsDebugLog() bool
}

// StorageConfig provides settings for MinIO transcript archival.
type StorageConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketTranscripts() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	SessionTokenSecret     string
	SessionTokenTTL        time.Duration
	AdminTokenSecret       string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	GreetingDelay          time.Duration
	ReplyTypingDelay       time.Duration
	SessionIdleTTL         time.Duration
	CurrencySymbol         string
	ServiceArea            string
	AgencyName             string
	EmailEnabled           bool
	SMTPHost               string
	SMTPPort               int
	SMTPUsername           string
	SMTPPassword           string
	EmailFromName          string
	EmailFromAddress       string
	OperatorEmail          string
	RedisURL               string
	RedisTLSInsecure       bool
	AsynqQueueName         string
	AsynqConcurrency       int
	FollowUpDelay          time.Duration
	GA4MeasurementID       string
	GA4APISecret           string
	GA4Endpoint            string
	AnalyticsDebugLog      bool
	MinIOEndpoint          string
	MinIOAccessKey         string
	MinIOSecretKey         string
	MinIOUseSSL            bool
	MinioBucketTranscripts string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool {
	return c.DatabaseURL != ""
}

// SessionTokenConfig implementation
func (c *Config) GetSessionTokenSecret() string     { return c.SessionTokenSecret }
func (c *Config) GetSessionTokenTTL() time.Duration { return c.SessionTokenTTL }

// AdminConfig implementation
func (c *Config) GetAdminTokenSecret() string { return c.AdminTokenSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// ChatConfig implementation
func (c *Config) GetGreetingDelay() time.Duration    { return c.GreetingDelay }
func (c *Config) GetReplyTypingDelay() time.Duration { return c.ReplyTypingDelay }
func (c *Config) GetSessionIdleTTL() time.Duration   { return c.SessionIdleTTL }
func (c *Config) GetCurrencySymbol() string          { return c.CurrencySymbol }
func (c *Config) GetServiceArea() string             { return c.ServiceArea }
func (c *Config) GetAgencyName() string              { return c.AgencyName }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetOperatorEmail() string    { return c.OperatorEmail }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string             { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool       { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetFollowUpDelay() time.Duration { return c.FollowUpDelay }

// AnalyticsConfig implementation
func (c *Config) GetGA4MeasurementID() string { return c.GA4MeasurementID }
func (c *Config) GetGA4APISecret() string     { return c.GA4APISecret }
func (c *Config) GetGA4Endpoint() string      { return c.GA4Endpoint }
func (c *Config) IsGA4Enabled() bool {
	return c.GA4MeasurementID != "" && c.GA4APISecret != ""
}
func (c *Config) GetAnalyticsDebugLog() bool { return c.AnalyticsDebugLog }

// StorageConfig implementation
func (c *Config) GetMinIOEndpoint() string          { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string         { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string         { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool              { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketTranscripts() string { return c.MinioBucketTranscripts }
func (c *Config) IsMinIOEnabled() bool              { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables.
//
// DATABASE_URL, REDIS_URL, SMTP and MinIO settings are all optional: the
// intake engine degrades each absent collaborator to a no-op rather than
// refusing to start. Only the session token secret is mandatory because the
// public chat endpoints cannot operate without it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		HTTPAddr:               getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		SessionTokenSecret:     getEnv("SESSION_TOKEN_SECRET", ""),
		SessionTokenTTL:        mustDuration(getEnv("SESSION_TOKEN_TTL", "2h")),
		AdminTokenSecret:       getEnv("ADMIN_TOKEN_SECRET", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		GreetingDelay:          mustDuration(getEnv("CHAT_GREETING_DELAY", "5s")),
		ReplyTypingDelay:       mustDuration(getEnv("CHAT_REPLY_TYPING_DELAY", "1s")),
		SessionIdleTTL:         mustDuration(getEnv("CHAT_SESSION_IDLE_TTL", "1h")),
		CurrencySymbol:         getEnv("CHAT_CURRENCY_SYMBOL", "$"),
		ServiceArea:            getEnv("CHAT_SERVICE_AREA", "Ontario"),
		AgencyName:             getEnv("CHAT_AGENCY_NAME", "HashLife Insurance"),
		EmailEnabled:           emailEnabled && smtpHost != "",
		SMTPHost:               smtpHost,
		SMTPPort:               mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:           getEnv("SMTP_USERNAME", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		EmailFromName:          getEnv("EMAIL_FROM_NAME", "HashLife Insurance"),
		EmailFromAddress:       getEnv("EMAIL_FROM_ADDRESS", ""),
		OperatorEmail:          getEnv("OPERATOR_EMAIL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:         getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:       mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		FollowUpDelay:          mustDuration(getEnv("LEAD_FOLLOWUP_DELAY", "24h")),
		GA4MeasurementID:       getEnv("GA4_MEASUREMENT_ID", ""),
		GA4APISecret:           getEnv("GA4_API_SECRET", ""),
		GA4Endpoint:            getEnv("GA4_ENDPOINT", "https://www.google-analytics.com/mp/collect"),
		AnalyticsDebugLog:      strings.EqualFold(getEnv("ANALYTICS_DEBUG_LOG", "false"), "true"),
		MinIOEndpoint:          getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:         getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:         getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:            strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketTranscripts: getEnv("MINIO_BUCKET_TRANSCRIPTS", "chat-transcripts"),
	}

	if cfg.SessionTokenSecret == "" {
		return nil, fmt.Errorf("SESSION_TOKEN_SECRET is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in a development environment.
// Programmer errors (undefined dialogue transitions) fail loudly only here.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
