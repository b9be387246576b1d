package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	APIBaseURL string        `envconfig:"CONSOLE_API_URL" default:"http://localhost:8080/api"`
	APITimeout time.Duration `envconfig:"CONSOLE_TIMEOUT" default:"15s"`

	// TokenPath locates the persisted bearer token. Defaults to
	// ~/.compass/token.
	TokenPath string `envconfig:"CONSOLE_TOKEN_PATH"`

	// RedisAddr enables the shared list cache when set.
	RedisAddr string        `envconfig:"CONSOLE_REDIS_ADDR"`
	CacheTTL  time.Duration `envconfig:"CONSOLE_CACHE_TTL" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("api base url must be provided")
	}
	if cfg.TokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.TokenPath = filepath.Join(home, ".compass", "token")
	}
	return &cfg, nil
}
