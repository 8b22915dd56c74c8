package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

const (
	EnvAPIKey    = "BINANCE_API_KEY"
	EnvAPISecret = "BINANCE_API_SECRET"
)

// LoadEnv loads variables from the given .env files (".env" when none given).
// Variables already set in the process environment are kept. A missing file is not an error.
func LoadEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
