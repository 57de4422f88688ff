package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Session    SessionConfig    `toml:"session"`
	Redis      RedisConfig      `toml:"redis"`
	Thumbnails ThumbnailsConfig `toml:"thumbnails"`
	List       ListConfig       `toml:"list"`
	Preview    PreviewConfig    `toml:"preview"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig points the client at the movie catalog service.
type ServerConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// DatabaseConfig contains local SQLite settings for the cookie store and thumbnail cache.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SessionConfig selects where session cookies are kept: "sqlite", "redis" or "memory".
type SessionConfig struct {
	Backend string `toml:"backend"`
}

// RedisConfig contains connection settings for the redis session backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ThumbnailsConfig tunes thumbnail resolution.
type ThumbnailsConfig struct {
	RateLimit float64 `toml:"rate_limit"` // fetches per second, 0 disables limiting
	Burst     int     `toml:"burst"`
	Cache     bool    `toml:"cache"`
}

// ListConfig controls list rendering.
type ListConfig struct {
	PreserveOrder bool `toml:"preserve_order"`
}

// PreviewConfig contains settings for the local preview server.
type PreviewConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so TOML can hold values like "10s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidConfig, string(text))
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Addr returns the preview server listen address.
func (c PreviewConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("%w: server.base_url is empty", ErrInvalidConfig)
	}
	switch c.Session.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Session.Backend)
	}
	if c.Thumbnails.RateLimit < 0 {
		return fmt.Errorf("%w: thumbnails.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Environment overrides read by [Config.ApplyEnv].
const (
	EnvBaseURL        = "MOVIEX_BASE_URL"
	EnvSessionBackend = "MOVIEX_SESSION_BACKEND"
	EnvRedisAddr      = "MOVIEX_REDIS_ADDR"
	EnvDatabasePath   = "MOVIEX_DATABASE_PATH"
	EnvLogLevel       = "MOVIEX_LOG_LEVEL"
)

// LoadEnv loads the given dotenv files (".env" when none are given) into the process environment.
// Missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overlays environment variables onto the config.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionBackend)); v != "" {
		c.Session.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisAddr)); v != "" {
		c.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDatabasePath)); v != "" {
		c.Database.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}
