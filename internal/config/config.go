// Package config assembles the service configuration from an optional YAML
// file, a .env file and MATHBUDDY_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathbuddy/internal/llm"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	DB       string        `yaml:"db"`       // Empty means the default data path.
	LogMode  string        `yaml:"log_mode"` // "dev" or "prod"
	Sessions SessionConfig `yaml:"sessions"`
	BankPath string        `yaml:"question_bank"` // Empty means the built-in bank.
	LLM      llm.Config    `yaml:"llm"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"` // Not applied to the tutoring stream.
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

// SessionConfig selects where in-flight diagnostic sessions live.
type SessionConfig struct {
	Backend     string        `yaml:"backend"` // "memory" or "redis"
	MaxSessions int           `yaml:"max_sessions"`
	TTL         time.Duration `yaml:"ttl"`
	Redis       RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the shared session store.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			CORSOrigins:       []string{"*"},
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		LogMode: "prod",
		Sessions: SessionConfig{
			Backend:     "memory",
			MaxSessions: 10000,
			TTL:         2 * time.Hour,
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load reads path (if not empty), then .env, then the environment. When no
// LLM provider is configured it falls back to the vendor API key variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("MATHBUDDY_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Variables already set in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.LLM.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			if merged := cfg.LLM.WithDiscovered(discovered); merged.Validate() == nil {
				cfg.LLM = merged
			}
		}
	}

	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg with the MATHBUDDY_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("MATHBUDDY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MATHBUDDY_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("MATHBUDDY_DB"); v != "" {
		cfg.DB = v
	}
	if v := os.Getenv("MATHBUDDY_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := os.Getenv("MATHBUDDY_QUESTION_BANK"); v != "" {
		cfg.BankPath = v
	}
	if v := os.Getenv("MATHBUDDY_SESSION_STORE"); v != "" {
		cfg.Sessions.Backend = v
	}
	if v := os.Getenv("MATHBUDDY_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MATHBUDDY_SESSION_TTL: %w", err)
		}
		cfg.Sessions.TTL = d
	}
	if v := os.Getenv("MATHBUDDY_REDIS_ADDR"); v != "" {
		cfg.Sessions.Redis.Addr = v
	}
	if v := os.Getenv("MATHBUDDY_REDIS_PASSWORD"); v != "" {
		cfg.Sessions.Redis.Password = v
	}
	if v := os.Getenv("MATHBUDDY_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MATHBUDDY_REDIS_DB: %w", err)
		}
		cfg.Sessions.Redis.DB = n
	}

	llm.ApplyEnv(&cfg.LLM)
	return nil
}

// Validate checks the settings that do not depend on the LLM provider.
// Provider settings are checked when the provider is built.
func (c Config) Validate() error {
	switch c.LogMode {
	case "dev", "prod":
	default:
		return fmt.Errorf("log_mode must be dev or prod, got %q", c.LogMode)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	switch c.Sessions.Backend {
	case "memory":
	case "redis":
		if c.Sessions.Redis.Addr == "" {
			return fmt.Errorf("redis addr is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Sessions.Backend)
	}
	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
