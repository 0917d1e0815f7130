// Package config loads service configuration from the environment, after
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	App    App
	DB     DB
	Auth   Auth
	Logger Logger
}

// Load reads the named .env files (".env" when none are given), then parses
// the environment. Missing .env files are not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	return Parse()
}

func Parse() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.App.Storage {
	case StoragePostgres:
		if c.DB.User == "" || c.DB.Name == "" {
			return errors.New("POSTGRES_USER and POSTGRES_DB are required with postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.App.Storage)
	}

	if c.Auth.JWTSecret == "" && !c.App.IsDevEnvironment() {
		return errors.New("JWT_SECRET is required outside dev")
	}
	return nil
}
