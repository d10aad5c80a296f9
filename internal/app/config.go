package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"console_session"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	BackendURL           string `envconfig:"BACKEND_URL" default:"http://127.0.0.1:5000"`
	BackendSessionCookie string `envconfig:"BACKEND_SESSION_COOKIE" default:"session"`

	WorkspaceTTL       time.Duration `envconfig:"WORKSPACE_TTL" default:"30m"`
	SearchDebounce     time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"300ms"`
	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"600"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every problem at once so a misconfigured deploy fails
// with the full list.
func (c *Config) validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("session secret must be provided"))
	}
	if c.CSRFSecret == "" {
		errs = append(errs, errors.New("csrf secret must be provided"))
	}
	if u, err := url.Parse(strings.TrimSpace(c.BackendURL)); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend url %q must be an absolute http(s) url", c.BackendURL))
	}
	if c.SessionCookie == c.BackendSessionCookie {
		errs = append(errs, errors.New("console and backend session cookies must differ"))
	}
	if c.SearchDebounce < 0 {
		errs = append(errs, errors.New("search debounce must not be negative"))
	}
	return errors.Join(errs...)
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
