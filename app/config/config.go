// Package config loads the service configuration from POSTSAPI_ prefixed
// environment variables, optionally seeded from a .env file.
//
// Nesting uses a double underscore: POSTSAPI_SERVER__ADDR sets server.addr.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads .env into the process environment before it is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "POSTSAPI_"

type Config struct {
	Env     string        `koanf:"env" validate:"required"`
	Server  ServerConfig  `koanf:"server"`
	Store   StoreConfig   `koanf:"store"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Compat  CompatConfig  `koanf:"compat"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	MountPath       string        `koanf:"mount_path" validate:"required,startswith=/"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects and locates the backing store. An empty badger path
// runs the store in memory.
type StoreConfig struct {
	Driver    string        `koanf:"driver" validate:"oneof=badger sqlite"`
	Path      string        `koanf:"path"`
	Timeout   time.Duration `koanf:"timeout" validate:"gte=0"`
	BackupDir string        `koanf:"backup_dir" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required,startswith=/"`
}

// CompatConfig switches off historical response quirks. Both default to
// the historical behaviour.
type CompatConfig struct {
	FreshUpdateResponse bool `koanf:"fresh_update_response"`
	EmptyCommentsOK     bool `koanf:"empty_comments_ok"`
}

// Default returns the configuration used for keys absent from the
// environment.
func Default() *Config {
	return &Config{
		Env: "development",
		Server: ServerConfig{
			Addr:            ":8080",
			MountPath:       "/api/posts",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:    "badger",
			Path:      "data/badger",
			Timeout:   5 * time.Second,
			BackupDir: "backups",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Load reads the environment over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.Server.MountPath = strings.TrimSuffix(cfg.Server.MountPath, "/")
	if cfg.Server.MountPath == "" {
		cfg.Server.MountPath = "/"
	}
	return cfg, nil
}
