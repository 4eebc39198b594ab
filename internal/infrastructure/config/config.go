package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// SnapshotPath is the file the whole dataset is serialized to on every
	// mutation, and restored from at startup.
	SnapshotPath string `env:"SNAPSHOT_PATH, default=identity.snapshot"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type RedisConfig struct {
	// Addr may be left empty to run without Redis; rate limiting is then
	// disabled.
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// RateLimitConfig mirrors the two fixed windows of the original deployment:
// a general API budget and a much stricter one on register/login.
type RateLimitConfig struct {
	APILimit  int           `env:"RATE_LIMIT_API,    default=100"`
	AuthLimit int           `env:"RATE_LIMIT_AUTH,   default=5"`
	Window    time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
