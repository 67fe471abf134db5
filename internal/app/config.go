package app

import (
	"errors"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console and the worker.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppLocale         string        `envconfig:"APP_LOCALE" default:"id"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	DirectoryURL     string        `envconfig:"DIRECTORY_URL" default:"http://127.0.0.1:9000/api/v1"`
	DirectoryToken   string        `envconfig:"DIRECTORY_TOKEN"`
	DirectoryTimeout time.Duration `envconfig:"DIRECTORY_TIMEOUT" default:"10s"`

	// GotenbergURL enables the PDF roster export when set.
	GotenbergURL string `envconfig:"GOTENBERG_URL"`

	CompanyCacheTTL time.Duration `envconfig:"COMPANY_CACHE_TTL" default:"5m"`
	WarmupCron      string        `envconfig:"WARMUP_CRON" default:"*/5 * * * *"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("session secret must be provided")
	}
	if c.CSRFSecret == "" {
		return errors.New("csrf secret must be provided")
	}
	u, err := url.Parse(c.DirectoryURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("directory url must be an absolute URL")
	}
	if c.DirectoryTimeout <= 0 {
		return errors.New("directory timeout must be positive")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
