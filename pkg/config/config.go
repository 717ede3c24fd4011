package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sqlball-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values. Secrets
// (database password, fallback OpenAI key) must only come from environment
// variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (Supabase PostgreSQL with the football schema)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration for the response cache (optional)
	Redis RedisConfig `yaml:"redis"`

	// OpenAI-compatible generator configuration
	OpenAI OpenAIConfig `yaml:"openai"`

	// Query processing defaults
	Query QueryConfig `yaml:"query"`

	// Cache behavior
	Cache CacheConfig `yaml:"cache"`
}

// DatabaseConfig holds PostgreSQL configuration for the analytics database.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sqlball"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"football"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
}

// RedisConfig holds Redis configuration. An empty host disables Redis and
// the response cache falls back to in-memory storage.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// OpenAIConfig holds generator endpoint configuration. FallbackAPIKey is a
// server-level key used when the caller does not supply one with the
// request; requests fail with a missing-credential error when both are
// absent.
type OpenAIConfig struct {
	BaseURL        string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model          string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4"`
	EmbeddingModel string `yaml:"embedding_model" env:"OPENAI_EMBEDDING_MODEL" env-default:"text-embedding-3-small"`
	FallbackAPIKey string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
	TimeoutSecs    int    `yaml:"timeout_seconds" env:"OPENAI_TIMEOUT_SECONDS" env-default:"45"`
}

// Timeout returns the generator call deadline.
func (c *OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// QueryConfig holds query-processing defaults.
type QueryConfig struct {
	// DefaultSeason is the scoping value applied when the caller does not
	// request one.
	DefaultSeason string `yaml:"default_season" env:"DEFAULT_SEASON" env-default:"2024-2025"`
	// ContextSnippets is how many schema snippets the retriever returns.
	ContextSnippets int `yaml:"context_snippets" env:"CONTEXT_SNIPPETS" env-default:"3"`
	// MaxRows caps result sets returned by the executor. 0 = no cap.
	MaxRows int `yaml:"max_rows" env:"QUERY_MAX_ROWS" env-default:"1000"`
	// ExecTimeoutSecs is the query execution deadline.
	ExecTimeoutSecs int `yaml:"exec_timeout_seconds" env:"QUERY_EXEC_TIMEOUT_SECONDS" env-default:"30"`
}

// ExecTimeout returns the executor deadline.
func (c *QueryConfig) ExecTimeout() time.Duration {
	return time.Duration(c.ExecTimeoutSecs) * time.Second
}

// CacheConfig holds response-cache behavior.
type CacheConfig struct {
	// TTLSecs is how long dashboard responses stay cached.
	TTLSecs int `yaml:"ttl_seconds" env:"CACHE_TTL_SECONDS" env-default:"3600"`
}

// TTL returns the cache entry lifetime.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSecs) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml is absent, configuration comes from
// environment variables alone. The version parameter is injected at build
// time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	return cfg, nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
