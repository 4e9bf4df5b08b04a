// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything cmd/bot needs to run.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	// DatabaseURL empty switches the bot to the in-memory store.
	DatabaseURL string `env:"DATABASE_URL"`
	// RedisAddr empty disables the high-score leaderboard.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0.80"`
	LogLevel            string  `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
