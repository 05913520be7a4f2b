package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// MinSessionSecretLength is the minimum accepted SESSION_SECRET length in bytes.
const MinSessionSecretLength = 32

const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type Config struct {
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	Session     SessionConfig   `yaml:"session"`
	Redis       RedisConfig     `yaml:"redis"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Logging     LoggingConfig   `yaml:"logging"`
	Tracing     TracingConfig   `yaml:"tracing"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Environment string          `yaml:"environment" env:"ENVIRONMENT" env-default:"development"`
}

type ServerConfig struct {
	Host    string `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port    int    `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	BaseURL string `yaml:"base_url" env:"SERVER_BASE_URL" env-default:"http://localhost:8080"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Secure reports whether the public URL is served over TLS, which decides
// the Secure flag on cookies and the CSRF origin checks.
func (s ServerConfig) Secure() bool {
	return strings.HasPrefix(strings.ToLower(s.BaseURL), "https://")
}

type DatabaseConfig struct {
	URL            string `yaml:"url" env:"DATABASE_URL"`
	MaxConnections int    `yaml:"max_connections" env:"DATABASE_MAX_CONNECTIONS" env-default:"25"`
	MigrateOnStart bool   `yaml:"migrate_on_start" env:"DATABASE_MIGRATE_ON_START" env-default:"true"`
}

type SessionConfig struct {
	Secret   string `yaml:"secret" env:"SESSION_SECRET"`
	TTLHours int    `yaml:"ttl_hours" env:"SESSION_TTL_HOURS" env-default:"24"`
	Store    string `yaml:"store" env:"SESSION_STORE" env-default:"postgres"`
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type RateLimitConfig struct {
	// LoginPer15Minutes caps POST /login attempts per client IP. Zero disables the limit.
	LoginPer15Minutes int `yaml:"login_per_15_minutes" env:"RATE_LIMIT_LOGIN_PER_15_MINUTES" env-default:"10"`
	// TrustedProxyCIDRs lists proxies whose X-Forwarded-For header is believed.
	TrustedProxyCIDRs []string `yaml:"trusted_proxy_cidrs" env:"TRUSTED_PROXY_CIDRS" env-separator:","`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" env:"TRACING_ENABLED" env-default:"false"`
	Exporter     string  `yaml:"exporter" env:"TRACING_EXPORTER" env-default:"stdout"`
	ServiceName  string  `yaml:"service_name" env:"TRACING_SERVICE_NAME" env-default:"meuseventos"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"TRACING_ENDPOINT" env-default:"localhost:4317"`
	SampleRate   float64 `yaml:"sample_rate" env:"TRACING_SAMPLE_RATE" env-default:"1.0"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads configuration from the environment. When path is not empty the
// YAML file is read first and environment variables override it.
func Load(path string) (Config, error) {
	var cfg Config

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem that would prevent the
// server from starting.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", MinSessionSecretLength)
	}
	if c.Session.TTLHours <= 0 {
		return errors.New("SESSION_TTL_HOURS must be positive")
	}
	switch c.Session.Store {
	case SessionStorePostgres:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStorePostgres, SessionStoreRedis, c.Session.Store)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port)
	}
	if c.RateLimit.LoginPer15Minutes < 0 {
		return errors.New("RATE_LIMIT_LOGIN_PER_15_MINUTES cannot be negative")
	}
	for _, cidr := range c.RateLimit.TrustedProxyCIDRs {
		if _, _, err := net.ParseCIDR(strings.TrimSpace(cidr)); err != nil {
			return fmt.Errorf("TRUSTED_PROXY_CIDRS: invalid CIDR %q", cidr)
		}
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
