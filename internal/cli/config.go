package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the terminal client's connection settings. Values come from
// the environment (optionally seeded from .env files) and are then
// overridden by command-line flags.
type Config struct {
	Server  string        `env:"SYNCADMIN_SERVER" envDefault:"http://localhost:8080"`
	Token   string        `env:"SYNCADMIN_TOKEN"`
	Timeout time.Duration `env:"SYNCADMIN_TIMEOUT" envDefault:"30s"`
}

// LoadEnv loads the named .env files that exist. Variables already set in
// the process environment win.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return 0, err
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// LoadConfig reads Config from the environment after loading envFiles.
func LoadConfig(envFiles ...string) (Config, error) {
	if _, err := LoadEnv(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}
