package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// applyEnvOverrides applies environment variable overrides. Only variables
// that are set replace the loaded values.
func (c *Config) applyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
