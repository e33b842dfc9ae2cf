package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	Batch    BatchConfig
	DV360    DV360Config
	OAuth    OAuthConfig
	Session  SessionConfig
	History  HistoryConfig
	Registry RegistryConfig
}

// ServerConfig holds HTTP server and process settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	Environment     string        `envconfig:"APP_ENV" default:"development"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// BatchConfig controls how bulk runs are executed.
type BatchConfig struct {
	Workers       int           `envconfig:"BATCH_WORKERS" default:"1"`
	CallTimeout   time.Duration `envconfig:"CALL_TIMEOUT" default:"30s"`
	MergeKey      string        `envconfig:"MERGE_KEY" default:"type"`
	StrictVariant bool          `envconfig:"STRICT_VARIANT" default:"false"`
	MaxUploadRows int           `envconfig:"MAX_UPLOAD_ROWS" default:"20000"`
}

// DV360Config points at the creative API.
type DV360Config struct {
	BaseURL string `envconfig:"DV360_BASE_URL" default:"https://displayvideo.googleapis.com/v3"`
}

// OAuthConfig holds the installed-app OAuth client.
type OAuthConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:"urn:ietf:wg:oauth:2.0:oob"`
	TokenFile    string `envconfig:"TOKEN_FILE" default:"token.json"`
}

// SessionConfig selects where staged edit sessions live.
type SessionConfig struct {
	Store         string        `envconfig:"SESSION_STORE" default:"memory"` // memory or redis
	TTL           time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix     string        `envconfig:"SESSION_KEY_PREFIX" default:"dv360trackers:session"`
}

// HistoryConfig selects the batch run history database.
type HistoryConfig struct {
	Type string `envconfig:"HISTORY_DB_TYPE" default:"sqlite"` // sqlite, mysql or none
	Path string `envconfig:"HISTORY_DB_PATH" default:"./data/history.db"`
	DSN  string `envconfig:"HISTORY_DB_DSN" default:""`
}

// RegistryConfig optionally replaces the embedded tracker type table.
type RegistryConfig struct {
	Path string `envconfig:"TRACKER_REGISTRY_PATH" default:""`
}

// IsDevelopment returns true if running in development mode.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// Address returns the listen address.
func (s *ServerConfig) Address() string {
	return ":" + s.Port
}

// MergeKeyPolicy returns the configured merge-key policy.
func (b *BatchConfig) MergeKeyPolicy() domain.MergeKey {
	return domain.MergeKey(b.MergeKey)
}

// Load reads configuration from a .env file (if present) and environment
// variables, then validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Batch.MergeKeyPolicy() {
	case domain.MergeKeyType, domain.MergeKeyTypeURL:
	default:
		return fmt.Errorf("config: MERGE_KEY must be %q or %q, got %q",
			domain.MergeKeyType, domain.MergeKeyTypeURL, c.Batch.MergeKey)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("config: BATCH_WORKERS must be at least 1, got %d", c.Batch.Workers)
	}
	if c.Batch.CallTimeout <= 0 {
		return fmt.Errorf("config: CALL_TIMEOUT must be positive")
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: SESSION_STORE must be memory or redis, got %q", c.Session.Store)
	}
	switch c.History.Type {
	case "sqlite", "none":
	case "mysql":
		if c.History.DSN == "" {
			return fmt.Errorf("config: HISTORY_DB_DSN is required for mysql history")
		}
	default:
		return fmt.Errorf("config: HISTORY_DB_TYPE must be sqlite, mysql or none, got %q", c.History.Type)
	}
	return nil
}
