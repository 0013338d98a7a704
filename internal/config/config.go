// Package config loads server settings from an optional yaml file and the
// PROMPTWORLD_* environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Session    SessionConfig    `yaml:"session" json:"session"`
	Evaluation EvaluationConfig `yaml:"evaluation" json:"evaluation"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type StorageConfig struct {
	Driver        string `yaml:"driver" json:"driver"`
	DSN           string `yaml:"dsn" json:"-"`
	SQLitePath    string `yaml:"sqlite_path" json:"sqlite_path"`
	Migrate       bool   `yaml:"migrate" json:"migrate"`
	MigrationsDir string `yaml:"migrations_dir" json:"migrations_dir"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

type SessionConfig struct {
	MaxAgentSteps int `yaml:"max_agent_steps" json:"max_agent_steps"`
	FrameScale    int `yaml:"frame_scale" json:"frame_scale"`
}

type EvaluationConfig struct {
	MaxTrials int `yaml:"max_trials" json:"max_trials"`
}

func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageMemory
		if c.Storage.DSN != "" {
			c.Storage.Driver = StoragePostgres
		}
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "promptworld.db"
	}
	if c.Storage.MigrationsDir == "" {
		c.Storage.MigrationsDir = "migrations"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Session.MaxAgentSteps <= 0 {
		c.Session.MaxAgentSteps = 200
	}
	if c.Session.FrameScale <= 0 {
		c.Session.FrameScale = 24
	}
	if c.Evaluation.MaxTrials <= 0 {
		c.Evaluation.MaxTrials = 1000
	}
}

// Load reads path when it is non-empty, then applies environment overrides
// and defaults.
func Load(path string) (Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	c.applyEnv()
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = stringEnv("PROMPTWORLD_ADDR", c.Server.Addr)
	c.Storage.DSN = stringEnv("PROMPTWORLD_DB_DSN", c.Storage.DSN)
	c.Storage.SQLitePath = stringEnv("PROMPTWORLD_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.Driver = strings.ToLower(stringEnv("PROMPTWORLD_STORAGE", c.Storage.Driver))
	c.Log.Level = strings.ToLower(stringEnv("PROMPTWORLD_LOG_LEVEL", c.Log.Level))
	c.Session.MaxAgentSteps = intEnv("PROMPTWORLD_MAX_AGENT_STEPS", c.Session.MaxAgentSteps)
	c.Evaluation.MaxTrials = intEnv("PROMPTWORLD_MAX_TRIALS", c.Evaluation.MaxTrials)
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w: postgres storage needs a dsn", ErrInvalid)
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite storage needs a path", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalid, c.Storage.Driver)
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "notice", "warn", "error", "fatal":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
