package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port string `env:"PORT, default=8080"`
	Env  string `env:"ENV,  default=development"`

	// JWTSecret signs every session token; an empty signing key must never
	// reach the server, so the variable is required.
	JWTSecret string `env:"JWT_SECRET, required"`

	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreBackend selects the snapshot store: redis, mongo or memory.
	StoreBackend string `env:"STORE_BACKEND, default=redis"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Billing BillingConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=superinternet"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type BillingConfig struct {
	// SweepInterval is the fixed delay between billing sweeps while the
	// process is alive. Charges pending across restarts wait for the next
	// live tick; the cadence is per-session, not calendar-accurate.
	SweepInterval time.Duration `env:"BILLING_SWEEP_INTERVAL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
// A missing or empty JWT_SECRET is fatal: the server must never sign tokens
// with an empty key.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	if cfg.JWTSecret == "" {
		panic("config: JWT_SECRET must not be empty")
	}
	return &cfg
}
