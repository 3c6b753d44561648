package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "ORDERDESK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv          = "ORDERDESK_APP_ENV"
	EnvPort            = "ORDERDESK_APP_PORT"
	EnvLogLevel        = "ORDERDESK_LOG_LEVEL"
	EnvRemoteBaseURL   = "ORDERDESK_REMOTE_BASE_URL"
	EnvRemoteTimeout   = "ORDERDESK_REMOTE_TIMEOUT"
	EnvJWTSecret       = "ORDERDESK_JWT_SECRET"
	EnvJWTIssuer       = "ORDERDESK_JWT_ISSUER"
	EnvRedisEnabled    = "ORDERDESK_REDIS_ENABLED"
	EnvRedisURL        = "ORDERDESK_REDIS_URL"
	EnvRedisAddr       = "ORDERDESK_REDIS_ADDR"
	EnvLeaseTTL        = "ORDERDESK_CHECKOUT_LEASE_TTL"
	EnvDefaultPayment  = "ORDERDESK_CHECKOUT_DEFAULT_PAYMENT_METHOD"
	EnvPageSizeDefault = "ORDERDESK_ORDERS_PAGE_SIZE"
	EnvCORSOrigins     = "ORDERDESK_CORS_ALLOWED_ORIGINS"
)

type Config struct {
	App      AppConfig
	Remote   RemoteConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Orders   OrdersConfig
	HTTP     HTTPConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Remote.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Redis.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ORDERDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"ORDERDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ORDERDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ORDERDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RemoteConfig points at the inventory/order service.
type RemoteConfig struct {
	BaseURL string        `envconfig:"ORDERDESK_REMOTE_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"ORDERDESK_REMOTE_TIMEOUT" default:"10s"`
}

func (r RemoteConfig) validate() error {
	u, err := url.Parse(strings.TrimSpace(r.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvRemoteBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvRemoteBaseURL)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvRemoteTimeout)
	}
	return nil
}

// JWTConfig controls bearer validation. An empty secret accepts tokens without checking signatures.
type JWTConfig struct {
	Secret string `envconfig:"ORDERDESK_JWT_SECRET"`
	Issuer string `envconfig:"ORDERDESK_JWT_ISSUER"`
}

// Verifies reports whether token signatures are checked.
func (j JWTConfig) Verifies() bool {
	return strings.TrimSpace(j.Secret) != ""
}

type RedisConfig struct {
	Enabled      bool          `envconfig:"ORDERDESK_REDIS_ENABLED" default:"false"`
	URL          string        `envconfig:"ORDERDESK_REDIS_URL"`
	Address      string        `envconfig:"ORDERDESK_REDIS_ADDR"`
	Password     string        `envconfig:"ORDERDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ORDERDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ORDERDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ORDERDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ORDERDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ORDERDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ORDERDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) validate() error {
	if !r.Enabled {
		return nil
	}
	if r.URL == "" && r.Address == "" {
		return fmt.Errorf("either %s or %s is required when redis is enabled", EnvRedisURL, EnvRedisAddr)
	}
	return nil
}

type CheckoutConfig struct {
	LeaseTTL             time.Duration `envconfig:"ORDERDESK_CHECKOUT_LEASE_TTL" default:"2m"`
	DefaultPaymentMethod string        `envconfig:"ORDERDESK_CHECKOUT_DEFAULT_PAYMENT_METHOD" default:"UPI"`
}

type OrdersConfig struct {
	PageSize int `envconfig:"ORDERDESK_ORDERS_PAGE_SIZE" default:"25"`
}

// HTTPConfig tunes the desk API surface.
type HTTPConfig struct {
	CORSAllowedOrigins []string      `envconfig:"ORDERDESK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	CheckoutRateLimit  int64         `envconfig:"ORDERDESK_CHECKOUT_RATE_LIMIT" default:"10"`
	CheckoutRateWindow time.Duration `envconfig:"ORDERDESK_CHECKOUT_RATE_WINDOW" default:"1m"`
	SessionIdleTTL     time.Duration `envconfig:"ORDERDESK_SESSION_IDLE_TTL" default:"30m"`
	ShutdownTimeout    time.Duration `envconfig:"ORDERDESK_SHUTDOWN_TIMEOUT" default:"15s"`
}
