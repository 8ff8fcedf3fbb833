// Package config loads the fv configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultFile is read from the working directory when no other file is given.
const DefaultFile = "folio.yaml"

// PathEnv names the environment variable holding the config file path.
const PathEnv = "FOLIO_CONFIG"

// Store kinds.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config is the fv configuration.
//
// Values come from, by decreasing priority:
//  1. the explicit path given with -config;
//  2. the path in FOLIO_CONFIG;
//  3. folio.yaml in the working directory;
//  4. the environment alone.
//
// Environment variables always override the file.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Display DisplayConfig `yaml:"display"`
	LogFile string        `yaml:"log_file" env:"FOLIO_LOG_FILE"`
}

// BackendConfig locates the REST backend.
type BackendConfig struct {
	URL      string        `yaml:"url" env:"FOLIO_BACKEND_URL" env-default:"https://localhost:5001/api"`
	Timeout  time.Duration `yaml:"timeout" env:"FOLIO_TIMEOUT" env-default:"10s"`
	Insecure bool          `yaml:"insecure" env:"FOLIO_INSECURE"`
}

// SessionConfig selects where the session token is persisted.
type SessionConfig struct {
	Store string      `yaml:"store" env:"FOLIO_STORE" env-default:"file"`
	Dir   string      `yaml:"dir" env:"FOLIO_TOKEN_DIR"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig is used by the redis store.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"FOLIO_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"FOLIO_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"FOLIO_REDIS_DB"`
	Key      string `yaml:"key" env:"FOLIO_REDIS_KEY" env-default:"folio:authToken"`
}

// DisplayConfig drives the rendering of views.
type DisplayConfig struct {
	Currency string `yaml:"currency" env:"FOLIO_CURRENCY" env-default:"USD"`
	Style    string `yaml:"style" env:"FOLIO_STYLE" env-default:"auto"`
}

// Load loads the configuration, see Config for the priority order.
// An optional .env file in the working directory feeds the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("cannot load .env file: %v", err)
	}

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
		// ReadConfig also overlays the environment.
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot check by type.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend url %q: must be an absolute http(s) url", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("invalid backend timeout %v: must be positive", c.Backend.Timeout)
	}
	switch c.Session.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("invalid session store %q: must be one of %s, %s, %s", c.Session.Store, StoreFile, StoreRedis, StoreMemory)
	}
	if c.Session.Store == StoreRedis && c.Session.Redis.Key == "" {
		return fmt.Errorf("invalid redis key: must not be empty")
	}
	if money.GetCurrency(c.Display.Currency) == nil {
		return fmt.Errorf("invalid currency %q", c.Display.Currency)
	}
	return nil
}
