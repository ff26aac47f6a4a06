// Package config loads the dungeongen YAML configuration shared by the
// command-line tools and the level service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/roomgen"
	"github.com/lawnchairsociety/dungeongen/internal/store"
)

// Config is the whole configuration file.
type Config struct {
	Logging       logger.Config  `yaml:"logging"`
	RoomExpansion roomgen.Params `yaml:"room_expansion"`
	Maze          MazeConfig     `yaml:"maze"`
	Store         StoreConfig    `yaml:"store"`
	Service       ServiceConfig  `yaml:"service"`
}

// MazeConfig holds maze generator defaults.
type MazeConfig struct {
	Level int `yaml:"level"`
}

// StoreConfig enables the level archive.
type StoreConfig struct {
	Enabled bool `yaml:"enabled"`

	store.Config `yaml:",inline"`
}

// ServiceConfig holds the level service settings.
type ServiceConfig struct {
	Listen      string            `yaml:"listen"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`

	// MaxSize caps the width and height a client may request.
	MaxSize int `yaml:"max_size"`
}

// RateLimitConfig throttles clients that keep sending bad requests.
type RateLimitConfig struct {
	// MaxFailures is the number of rejected requests before lockout.
	MaxFailures int `yaml:"max_failures"`

	// LockoutSeconds is the initial lockout duration in seconds.
	LockoutSeconds int `yaml:"lockout_seconds"`

	// MaxLockoutSeconds caps the exponential backoff.
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent connections from one IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum concurrent connections overall.
	// 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect.
	// An empty list enforces the same-origin policy; "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Logging:       logger.DefaultConfig(),
		RoomExpansion: roomgen.DefaultParams(),
		Maze:          MazeConfig{Level: 1},
		Store: StoreConfig{
			Config: store.DefaultConfig("data/levels.db"),
		},
		Service: ServiceConfig{
			Listen: ":4000",
			WebSocket: WebSocketConfig{
				AllowedOrigins: []string{},
				MaxMessageSize: 4096,
			},
			Connections: ConnectionsConfig{
				MaxPerIP: 3,
				MaxTotal: 100,
			},
			RateLimit: RateLimitConfig{
				MaxFailures:       5,
				LockoutSeconds:    30,
				MaxLockoutSeconds: 300,
			},
			MaxSize: 128,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file yields the
// defaults; a malformed or invalid one is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv() {
	c.Logging.ApplyEnv()

	if v := os.Getenv("DUNGEONGEN_LISTEN"); v != "" {
		c.Service.Listen = v
	}
	if v := os.Getenv("DUNGEONGEN_STORE_DRIVER"); v != "" {
		c.Store.Enabled = true
		c.Store.Driver = v
	}
	if v := os.Getenv("DUNGEONGEN_SQLITE_PATH"); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv("DUNGEONGEN_PG_HOST"); v != "" {
		c.Store.Postgres.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("DUNGEONGEN_PG_PORT")); err == nil {
		c.Store.Postgres.Port = v
	}
	if v := os.Getenv("DUNGEONGEN_PG_USER"); v != "" {
		c.Store.Postgres.User = v
	}
	if v := os.Getenv("DUNGEONGEN_PG_PASSWORD"); v != "" {
		c.Store.Postgres.Password = v
	}
	if v := os.Getenv("DUNGEONGEN_PG_DATABASE"); v != "" {
		c.Store.Postgres.Database = v
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.RoomExpansion.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("room_expansion: %w", err))
	}
	if c.Maze.Level < 0 {
		errs = append(errs, fmt.Errorf("maze: level must not be negative"))
	}
	if c.Store.Enabled {
		if err := c.Store.Config.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Service.WebSocket.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("service: max_message_size must be positive"))
	}
	if c.Service.MaxSize < roomgen.MinSize {
		errs = append(errs, fmt.Errorf("service: max_size must be at least %d", roomgen.MinSize))
	}
	return errors.Join(errs...)
}

// IsOriginAllowed reports whether a WebSocket upgrade from origin may
// proceed: "*" or an exact entry matches, and with no entries only the
// request's own host does.
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host. A missing
// Origin header comes from a non-browser client and is allowed.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
