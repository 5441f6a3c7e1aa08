package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/connectin/internal/flagx"
)

const envPrefix = "CONNECTIN_"

// parseEnv overlays cfg with CONNECTIN_* environment variables. Unset
// variables leave the current value untouched.
//
// The .env file named by -e/-env must exist; the implicit ./.env is optional.
func parseEnv(cfg *Config) error {
	_, envFile := flagx.FileFlags(os.Args[1:])

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env config: %w", err)
	}
	return nil
}
