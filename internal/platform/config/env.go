// Package config loads service configuration. Settings come from TIKD_*
// environment variables parsed into tagged structs; binaries layer flag
// overrides on top of the parsed values.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target's env-tagged fields from the process environment.
// Fields without a matching variable keep their envDefault value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
