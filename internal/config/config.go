// Package config loads application configuration from built-in defaults,
// an optional YAML file and PIXGATE_-prefixed environment variables, in
// that order of precedence. A .env file is honored if present.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
)

var DefaultConfig = []byte(`
application: "pixgate"

logger:
  level: "debug"

server:
  port: "3000"
  allow_origins: "http://localhost:5173"

database:
  host: "localhost"
  port: "5432"
  user: "postgres"
  password: "postgres"
  name: "pixgate"
  ssl_mode: "disable"

redis:
  addr: "localhost:6379"
  password: ""
  db: 0
  ttl_seconds: 30

provider:
  base_url: "https://api.pix-provider.local"
  app_id: ""
  timeout_seconds: 10

webhooks:
  delivery_timeout_seconds: 5

auth:
  jwt_secret: "pixgate-dev-secret"

charges:
  default_expires_in: 3600
`)

type Config struct {
	Application string   `koanf:"application"`
	Logger      Logger   `koanf:"logger"`
	Server      Server   `koanf:"server"`
	Database    Database `koanf:"database"`
	Redis       Redis    `koanf:"redis"`
	Provider    Provider `koanf:"provider"`
	Webhooks    Webhooks `koanf:"webhooks"`
	Auth        Auth     `koanf:"auth"`
	Charges     Charges  `koanf:"charges"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Port         string `koanf:"port"`
	AllowOrigins string `koanf:"allow_origins"`
}

type Database struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
}

// DSN builds the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type Redis struct {
	Addr       string `koanf:"addr"`
	Password   string `koanf:"password"`
	DB         int    `koanf:"db"`
	TTLSeconds int    `koanf:"ttl_seconds"`
}

// TTL returns the cached-snapshot lifetime.
func (r Redis) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

type Provider struct {
	BaseURL        string `koanf:"base_url"`
	AppID          string `koanf:"app_id"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

// Timeout returns the provider call timeout as a duration.
func (p Provider) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type Webhooks struct {
	DeliveryTimeoutSeconds int `koanf:"delivery_timeout_seconds"`
}

// DeliveryTimeout returns the per-endpoint fan-out timeout.
func (w Webhooks) DeliveryTimeout() time.Duration {
	return time.Duration(w.DeliveryTimeoutSeconds) * time.Second
}

type Auth struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type Charges struct {
	DefaultExpiresIn int `koanf:"default_expires_in"`
}

// Load reads configuration from defaults, the given YAML file (if it
// exists) and the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}
	err := k.Load(env.Provider("PIXGATE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "PIXGATE_")), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the engine cannot run without.
func (c *Config) Validate() error {
	if c.Application == "" {
		return fmt.Errorf("application cannot be empty")
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("database.host and database.name cannot be empty")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url cannot be empty")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret cannot be empty")
	}
	return nil
}
