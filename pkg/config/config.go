package config

import (
	"fmt"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for legolasan-in.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (optional, shared geo-IP cache)
	Redis RedisConfig `yaml:"redis"`

	// Admin authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// OpenAI configuration for the portfolio chat assistant
	OpenAI OpenAIConfig `yaml:"openai"`

	// Geo-IP lookup configuration
	GeoIP GeoIPConfig `yaml:"geoip"`

	// Rate limiter windows and limits
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Feature flag handling
	Features FeaturesConfig `yaml:"features"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"legolasan"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"legolasan_in"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// RedisConfig holds optional Redis configuration.
// An empty host disables Redis; callers fall back to in-memory state.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// AuthConfig holds admin session configuration.
// The admin account is provisioned from environment, mirroring the original
// deployment where the first configured user owns the dashboard.
type AuthConfig struct {
	// SessionSecret signs session cookies. Any passphrase; hashed to a
	// 32-byte key. Must be stable across restarts.
	SessionSecret string `yaml:"-" env:"SESSION_SECRET"`

	// AdminEmail identifies the admin account for dashboard login.
	AdminEmail string `yaml:"admin_email" env:"ADMIN_EMAIL" env-default:""`

	// AdminPasswordHash is the bcrypt hash of the admin password.
	// Generate with: htpasswd -bnBC 12 "" <password> | tr -d ':\n'
	AdminPasswordHash string `yaml:"-" env:"ADMIN_PASSWORD_HASH"`

	// AdminName is shown in moderation stamps (resolved_by) when set;
	// falls back to AdminEmail.
	AdminName string `yaml:"admin_name" env:"ADMIN_NAME" env-default:""`

	// SessionTTLMinutes is the admin session lifetime.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" env:"SESSION_TTL_MINUTES" env-default:"720"`
}

// OpenAIConfig holds chat assistant configuration.
type OpenAIConfig struct {
	APIKey      string  `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	BaseURL     string  `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model       string  `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	MaxTokens   int     `yaml:"max_tokens" env:"OPENAI_MAX_TOKENS" env-default:"500"`
	Temperature float64 `yaml:"temperature" env:"OPENAI_TEMPERATURE" env-default:"0.7"`
}

// IsConfigured reports whether the chat assistant can be enabled.
func (c *OpenAIConfig) IsConfigured() bool {
	return c.APIKey != ""
}

// GeoIPConfig holds geo-IP lookup settings.
type GeoIPConfig struct {
	// Endpoint is the lookup service base URL. The free ip-api.com tier
	// needs no API key.
	Endpoint       string `yaml:"endpoint" env:"GEOIP_ENDPOINT" env-default:"http://ip-api.com/json"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"GEOIP_TIMEOUT_SECONDS" env-default:"3"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours" env:"GEOIP_CACHE_TTL_HOURS" env-default:"24"`
}

// RateLimitConfig holds per-instance fixed-window limits.
// Windows are in milliseconds to match the limiter's resolution.
type RateLimitConfig struct {
	WindowMs  int `yaml:"window_ms" env:"RATE_LIMIT_WINDOW_MS" env-default:"60000"`
	Strict    int `yaml:"strict" env:"RATE_LIMIT_STRICT" env-default:"10"`
	Standard  int `yaml:"standard" env:"RATE_LIMIT_STANDARD" env-default:"30"`
	Relaxed   int `yaml:"relaxed" env:"RATE_LIMIT_RELAXED" env-default:"60"`
	Chat      int `yaml:"chat" env:"RATE_LIMIT_CHAT" env-default:"20"`
	Analytics int `yaml:"analytics" env:"RATE_LIMIT_ANALYTICS" env-default:"100"`
}

// FeaturesConfig holds the runtime feature flag settings.
type FeaturesConfig struct {
	// EnvFile is the dotenv file feature toggles are persisted to.
	EnvFile string `yaml:"env_file" env:"FEATURES_ENV_FILE" env-default:".env"`

	// RebuildCommand is executed (fire-and-forget) after a toggle in
	// production so the deployment picks up the new flag. Empty disables.
	RebuildCommand string `yaml:"rebuild_command" env:"FEATURES_REBUILD_COMMAND" env-default:""`

	// ResumeDownloadEnabled gates the resume download section at startup.
	ResumeDownloadEnabled bool `yaml:"resume_download_enabled" env:"ENABLE_RESUME_DOWNLOAD" env-default:"false"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// validate rejects configurations that cannot serve requests safely.
func (c *Config) validate() error {
	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must be set")
	}
	if c.Auth.AdminEmail != "" && c.Auth.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH must be set when ADMIN_EMAIL is configured")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
