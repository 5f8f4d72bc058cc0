package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "MAASAI"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	App         AppConfig
	Session     SessionConfig
	Redis       RedisConfig
	DB          DBConfig
	Flutterwave FlutterwaveConfig
}

// Load reads the environment. A .env file, if any, must already be loaded.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	switch c.Session.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("config: %s_REDIS_URL is required when the session store is redis", EnvPrefix)
		}
	default:
		return fmt.Errorf("config: unknown session store %q", c.Session.Store)
	}
	if c.Flutterwave.PublicKey == "" || c.Flutterwave.SecretKey == "" {
		return fmt.Errorf("config: flutterwave public and secret keys are required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session ttl must be positive")
	}
	return nil
}

type AppConfig struct {
	Env       string `envconfig:"MAASAI_APP_ENV" default:"dev"`
	Port      string `envconfig:"MAASAI_APP_PORT" default:"8080"`
	LogLevel  string `envconfig:"MAASAI_LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"MAASAI_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "prod")
}

type SessionConfig struct {
	Store        string        `envconfig:"MAASAI_SESSION_STORE" default:"memory"`
	TTL          time.Duration `envconfig:"MAASAI_SESSION_TTL" default:"24h"`
	CookieSecure bool          `envconfig:"MAASAI_SESSION_COOKIE_SECURE" default:"false"`
}

type RedisConfig struct {
	URL string `envconfig:"MAASAI_REDIS_URL"`
}

// DBConfig is optional; with no DSN the built-in catalog is served.
type DBConfig struct {
	DSN string `envconfig:"MAASAI_DB_DSN"`
}

type FlutterwaveConfig struct {
	PublicKey   string        `envconfig:"MAASAI_FLW_PUBLIC_KEY" required:"true"`
	SecretKey   string        `envconfig:"MAASAI_FLW_SECRET_KEY" required:"true"`
	BaseURL     string        `envconfig:"MAASAI_FLW_BASE_URL" default:"https://api.flutterwave.com"`
	LogoURL     string        `envconfig:"MAASAI_FLW_LOGO_URL"`
	TxRefPrefix string        `envconfig:"MAASAI_FLW_TX_REF_PREFIX" default:"MC"`
	Timeout     time.Duration `envconfig:"MAASAI_FLW_TIMEOUT" default:"15s"`

	BreakerTimeout     time.Duration `envconfig:"MAASAI_FLW_BREAKER_TIMEOUT" default:"30s"`
	BreakerMinRequests uint32        `envconfig:"MAASAI_FLW_BREAKER_MIN_REQUESTS" default:"5"`
	BreakerFailRatio   float64       `envconfig:"MAASAI_FLW_BREAKER_FAIL_RATIO" default:"0.5"`
}
