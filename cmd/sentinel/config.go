package main

// #region imports
import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// #endregion imports

// #region config

// appConfig is the process-level configuration, read from the environment
// with an optional .env file.
type appConfig struct {
	DBPath         string `env:"SENTINEL_DB" envDefault:"sentinel.db"`
	AudioBridgeURL string `env:"SENTINEL_AUDIO_URL"`
	PromptFile     string `env:"SENTINEL_PROMPTS"`
	LogFile        string `env:"SENTINEL_LOG_FILE"`
	LogLevel       string `env:"SENTINEL_LOG_LEVEL" envDefault:"info"`
}

// loadConfig reads .env (when present) and then the environment.
func loadConfig() (appConfig, error) {
	_ = godotenv.Load()

	var cfg appConfig
	if err := env.Parse(&cfg); err != nil {
		return appConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// #endregion config
