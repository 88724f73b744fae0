// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"regexp"
)

var environmentName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. Every violation is
// reported, joined with errors.Join.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if !environmentName.MatchString(cfg.Environment) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidEnvironment, cfg.Environment))
	}
	if !validPort(cfg.Server.Port) {
		errs = append(errs, fmt.Errorf("%w: PORT=%d", ErrInvalidPort, cfg.Server.Port))
	}
	if !validPort(cfg.Server.HTTPSPort) {
		errs = append(errs, fmt.Errorf("%w: HTTPS_PORT=%d", ErrInvalidPort, cfg.Server.HTTPSPort))
	}
	if cfg.Server.BodyLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidBodyLimit, cfg.Server.BodyLimit))
	}

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p >= 0 && p <= 65535
}
