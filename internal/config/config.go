package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty -> in-memory session store
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // empty -> checkout.session_ttl
}

type PaymentConfig struct {
	Recurly struct {
		PublicKey string `yaml:"public_key"`
		APIBase   string `yaml:"api_base"`
		Demo      bool   `yaml:"demo"` // force demo mode even with a key
	} `yaml:"recurly"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"` // empty -> relative default
	Timeout time.Duration `yaml:"timeout"`
}

type AdminConfig struct {
	APIKey string `yaml:"api_key"` // empty -> admin routes refuse all requests
}

type CheckoutConfig struct {
	RedirectURL   string        `yaml:"redirect_url"`
	RedirectDelay time.Duration `yaml:"redirect_delay"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Payment  PaymentConfig  `yaml:"payment"`
	Backend  BackendConfig  `yaml:"backend"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Admin    AdminConfig    `yaml:"admin"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Payment.Recurly.APIBase == "" {
		cfg.Payment.Recurly.APIBase = "https://api.recurly.com"
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Checkout.RedirectURL == "" {
		cfg.Checkout.RedirectURL = "/confirmation"
	}
	if cfg.Checkout.RedirectDelay <= 0 {
		cfg.Checkout.RedirectDelay = 2500 * time.Millisecond
	}
	if cfg.Checkout.SessionTTL <= 0 {
		cfg.Checkout.SessionTTL = 30 * time.Minute
	}
	// Session keys live as long as the checkout session unless redis.ttl
	// overrides the expiry explicitly.
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = cfg.Checkout.SessionTTL
	}

	// Minimal validation
	if cfg.Checkout.RedirectDelay > time.Minute {
		return nil, errors.New("checkout.redirect_delay is unreasonably long")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// DemoMode reports whether checkout should run without real tokenization:
// either forced by config or because no provider key is configured.
func (c *Config) DemoMode() bool {
	return c.Payment.Recurly.Demo || c.Payment.Recurly.PublicKey == ""
}
