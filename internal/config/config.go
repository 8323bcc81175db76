package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Log      LogConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Cache    CacheConfig
	CORS     CORSConfig
	Queue    QueueConfig
	Email    EmailConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMProviderConfig holds settings for a single LLM text-generation provider.
type LLMProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds LLM settings with multi-provider support.
type LLMConfig struct {
	Primary   LLMProviderConfig `mapstructure:"primary"`
	Secondary LLMProviderConfig `mapstructure:"secondary"`
}

// PrimaryConfig returns the primary provider config.
func (l *LLMConfig) PrimaryConfig() *LLMProviderConfig {
	return &l.Primary
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (l *LLMConfig) SecondaryConfig() *LLMProviderConfig {
	if l.Secondary.Provider != "" {
		return &l.Secondary
	}
	return nil
}

// PipelineConfig holds extraction pipeline settings.
type PipelineConfig struct {
	MaxRetries           int     `mapstructure:"max_retries"`
	BaseDelayMs          int     `mapstructure:"base_delay_ms"`
	AttemptTimeoutSecs   int     `mapstructure:"attempt_timeout_secs"`
	FallbackEnabled      bool    `mapstructure:"fallback_enabled"`
	MinEntryLength       int     `mapstructure:"min_entry_length"`
	ConfidenceThreshold  float64 `mapstructure:"confidence_threshold"`
	MinAccountLength     int     `mapstructure:"min_account_length"`
	MaxAccountLength     int     `mapstructure:"max_account_length"`
	ContextLines         int     `mapstructure:"context_lines"`
	IncludeBareDigitRuns bool    `mapstructure:"include_bare_digit_runs"`
}

// CacheConfig holds extraction result cache settings.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT validation settings. Tokens are issued by an external
// identity provider; this service only validates them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for the report archive.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the CREDITPIPE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CREDITPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "creditpipe")
	v.SetDefault("db.password", "creditpipe_secret")
	v.SetDefault("db.name", "creditpipe_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "creditpipe")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "creditpipe-reports")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 2)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@creditpipe.io")
	v.SetDefault("email.from_name", "CreditPipe")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// LLM provider defaults
	v.SetDefault("llm.primary.provider", "gemini")
	v.SetDefault("llm.primary.api_key", "")
	v.SetDefault("llm.primary.default_model", "gemini-2.0-flash")
	v.SetDefault("llm.primary.timeout_secs", 120)
	v.SetDefault("llm.secondary.provider", "")
	v.SetDefault("llm.secondary.api_key", "")
	v.SetDefault("llm.secondary.default_model", "")
	v.SetDefault("llm.secondary.timeout_secs", 120)

	// Pipeline defaults
	v.SetDefault("pipeline.max_retries", 3)
	v.SetDefault("pipeline.base_delay_ms", 2000)
	v.SetDefault("pipeline.attempt_timeout_secs", 120)
	v.SetDefault("pipeline.fallback_enabled", true)
	v.SetDefault("pipeline.min_entry_length", 20)
	v.SetDefault("pipeline.confidence_threshold", 0.3)
	v.SetDefault("pipeline.min_account_length", 4)
	v.SetDefault("pipeline.max_account_length", 20)
	v.SetDefault("pipeline.context_lines", 1)
	v.SetDefault("pipeline.include_bare_digit_runs", true)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "15m")
	v.SetDefault("cache.cleanup_interval", "30m")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "CREDITPIPE_SERVER_PORT",
		"server.read_timeout":  "CREDITPIPE_SERVER_READ_TIMEOUT",
		"server.write_timeout": "CREDITPIPE_SERVER_WRITE_TIMEOUT",
		"server.environment":   "CREDITPIPE_SERVER_ENVIRONMENT",
		"db.host":              "CREDITPIPE_DB_HOST",
		"db.port":              "CREDITPIPE_DB_PORT",
		"db.user":              "CREDITPIPE_DB_USER",
		"db.password":          "CREDITPIPE_DB_PASSWORD",
		"db.name":              "CREDITPIPE_DB_NAME",
		"db.sslmode":           "CREDITPIPE_DB_SSLMODE",
		"db.max_open":          "CREDITPIPE_DB_MAX_OPEN",
		"db.max_idle":          "CREDITPIPE_DB_MAX_IDLE",
		"jwt.secret":           "CREDITPIPE_JWT_SECRET",
		"jwt.issuer":           "CREDITPIPE_JWT_ISSUER",
		"s3.region":            "CREDITPIPE_S3_REGION",
		"s3.bucket":            "CREDITPIPE_S3_BUCKET",
		"s3.endpoint":          "CREDITPIPE_S3_ENDPOINT",
		"s3.access_key":        "CREDITPIPE_S3_ACCESS_KEY",
		"s3.secret_key":        "CREDITPIPE_S3_SECRET_KEY",
		"log.level":            "CREDITPIPE_LOG_LEVEL",
		"log.format":           "CREDITPIPE_LOG_FORMAT",
		"cors.allowed_origins":             "CREDITPIPE_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":         "CREDITPIPE_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                "CREDITPIPE_QUEUE_MAX_RETRIES",
		"queue.concurrency":                "CREDITPIPE_QUEUE_CONCURRENCY",
		"llm.primary.provider":             "CREDITPIPE_LLM_PRIMARY_PROVIDER",
		"llm.primary.api_key":              "CREDITPIPE_LLM_PRIMARY_API_KEY",
		"llm.primary.default_model":        "CREDITPIPE_LLM_PRIMARY_DEFAULT_MODEL",
		"llm.primary.timeout_secs":         "CREDITPIPE_LLM_PRIMARY_TIMEOUT_SECS",
		"llm.secondary.provider":           "CREDITPIPE_LLM_SECONDARY_PROVIDER",
		"llm.secondary.api_key":            "CREDITPIPE_LLM_SECONDARY_API_KEY",
		"llm.secondary.default_model":      "CREDITPIPE_LLM_SECONDARY_DEFAULT_MODEL",
		"llm.secondary.timeout_secs":       "CREDITPIPE_LLM_SECONDARY_TIMEOUT_SECS",
		"pipeline.max_retries":             "CREDITPIPE_PIPELINE_MAX_RETRIES",
		"pipeline.base_delay_ms":           "CREDITPIPE_PIPELINE_BASE_DELAY_MS",
		"pipeline.attempt_timeout_secs":    "CREDITPIPE_PIPELINE_ATTEMPT_TIMEOUT_SECS",
		"pipeline.fallback_enabled":        "CREDITPIPE_PIPELINE_FALLBACK_ENABLED",
		"pipeline.min_entry_length":        "CREDITPIPE_PIPELINE_MIN_ENTRY_LENGTH",
		"pipeline.confidence_threshold":    "CREDITPIPE_PIPELINE_CONFIDENCE_THRESHOLD",
		"pipeline.min_account_length":      "CREDITPIPE_PIPELINE_MIN_ACCOUNT_LENGTH",
		"pipeline.max_account_length":      "CREDITPIPE_PIPELINE_MAX_ACCOUNT_LENGTH",
		"pipeline.context_lines":           "CREDITPIPE_PIPELINE_CONTEXT_LINES",
		"pipeline.include_bare_digit_runs": "CREDITPIPE_PIPELINE_INCLUDE_BARE_DIGIT_RUNS",
		"cache.enabled":                    "CREDITPIPE_CACHE_ENABLED",
		"cache.ttl":                        "CREDITPIPE_CACHE_TTL",
		"cache.cleanup_interval":           "CREDITPIPE_CACHE_CLEANUP_INTERVAL",
		"email.provider":                   "CREDITPIPE_EMAIL_PROVIDER",
		"email.region":                     "CREDITPIPE_EMAIL_REGION",
		"email.from_address":               "CREDITPIPE_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "CREDITPIPE_EMAIL_FROM_NAME",
		"email.frontend_url":               "CREDITPIPE_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CREDITPIPE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CREDITPIPE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.LLM = LLMConfig{
		Primary: LLMProviderConfig{
			Provider:     v.GetString("llm.primary.provider"),
			APIKey:       v.GetString("llm.primary.api_key"),
			DefaultModel: v.GetString("llm.primary.default_model"),
			TimeoutSecs:  v.GetInt("llm.primary.timeout_secs"),
		},
		Secondary: LLMProviderConfig{
			Provider:     v.GetString("llm.secondary.provider"),
			APIKey:       v.GetString("llm.secondary.api_key"),
			DefaultModel: v.GetString("llm.secondary.default_model"),
			TimeoutSecs:  v.GetInt("llm.secondary.timeout_secs"),
		},
	}

	cfg.Pipeline = PipelineConfig{
		MaxRetries:           v.GetInt("pipeline.max_retries"),
		BaseDelayMs:          v.GetInt("pipeline.base_delay_ms"),
		AttemptTimeoutSecs:   v.GetInt("pipeline.attempt_timeout_secs"),
		FallbackEnabled:      v.GetBool("pipeline.fallback_enabled"),
		MinEntryLength:       v.GetInt("pipeline.min_entry_length"),
		ConfidenceThreshold:  v.GetFloat64("pipeline.confidence_threshold"),
		MinAccountLength:     v.GetInt("pipeline.min_account_length"),
		MaxAccountLength:     v.GetInt("pipeline.max_account_length"),
		ContextLines:         v.GetInt("pipeline.context_lines"),
		IncludeBareDigitRuns: v.GetBool("pipeline.include_bare_digit_runs"),
	}

	cfg.Cache = CacheConfig{
		Enabled:         v.GetBool("cache.enabled"),
		TTL:             v.GetDuration("cache.ttl"),
		CleanupInterval: v.GetDuration("cache.cleanup_interval"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}
