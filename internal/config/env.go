// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// envCORSWhitelist is read by hand: an empty value must stay distinct from
// an unset one.
const envCORSWhitelist = "CORS_ORIGIN_WHITELIST"

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` tags defined on
// [StructuredConfig] and its nested types.
//
// Returns a wrapped error if env.Parse fails (e.g. a value cannot be
// converted to the target type).
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	if v, ok := os.LookupEnv(envCORSWhitelist); ok {
		cfg.CORS.Whitelist = &v
	}

	return nil
}
