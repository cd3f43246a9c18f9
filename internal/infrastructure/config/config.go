package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Redis (empty disables idempotency)
	RedisURL       string        `env:"REDIS_URL"       envDefault:""`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"3000"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Events (empty AMQP_URL logs events instead of publishing them)
	AMQPURL         string `env:"AMQP_URL"          envDefault:""`
	AMQPExchange    string `env:"AMQP_EXCHANGE"     envDefault:"gotracker.events"`
	EventBufferSize int    `env:"EVENT_BUFFER_SIZE" envDefault:"256"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Reject records that fail form validation on the server too
	StrictValidation bool `env:"STRICT_VALIDATION" envDefault:"false"`
}

// Load loads configuration from environment variables. Variables found in
// the given dotenv files fill in whatever the environment does not set;
// missing files are skipped.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

// IdempotencyEnabled reports whether a Redis URL was configured.
func (c *Config) IdempotencyEnabled() bool {
	return c.RedisURL != ""
}

// RateLimitEnabled reports whether per-client rate limiting is on.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0
}
