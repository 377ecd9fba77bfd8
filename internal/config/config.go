// Package config loads service configuration from the environment and the
// optional solver tuning file.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	TuningPath  string `env:"TUNING_PATH"`
	Auth        struct {
		Mode   string `env:"MODE" envDefault:"dev"` // dev or hmac
		Secret string `env:"HMAC_SECRET"`
	} `envPrefix:"AUTH_"`
	Rate struct {
		RPS   float64 `env:"RPS" envDefault:"1"`
		Burst int     `env:"BURST" envDefault:"3"`
	} `envPrefix:"RATE_"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
