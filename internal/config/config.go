package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const devSecret = "dev-secret-change-in-production"

// Config holds all runtime configuration, parsed from environment variables.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Env         string `env:"ENV" envDefault:"development"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"root:password@tcp(127.0.0.1:3306)/todozero?parseTime=true"`

	SecretKey                string `env:"SECRET_KEY" envDefault:"dev-secret-change-in-production"`
	Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Env == "production" && cfg.SecretKey == devSecret {
		return Config{}, errors.New("SECRET_KEY must be set in production environment")
	}
	if cfg.AccessTokenExpireMinutes <= 0 {
		return Config{}, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	return cfg, nil
}

// AccessTokenTTL returns the configured token lifetime as a duration.
func (c Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}
